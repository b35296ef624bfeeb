package fakeclient

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jrsteele09/librus-gateway/librus"
)

var _ librus.Client = (*FakeClient)(nil)

// FakeClient is a scripted librus.Client. Zero values answer with empty data;
// set the *Err fields to make a call fail.
type FakeClient struct {
	Login    string
	Password string

	IdentityValue librus.Identity
	GradesValue   []librus.SubjectGrades
	AbsencesValue librus.RawAbsences
	Details       map[int]librus.AbsenceDetail
	DetailErrs    map[int]error
	TimetableFunc func(from, to string) librus.Timetable

	AuthorizeErr error
	IdentityErr  error
	GradesErr    error
	AbsencesErr  error
	TimetableErr error

	lock         sync.Mutex
	authorized   bool
	detailCalls  map[int]int
	authorizeHit int
}

func New() *FakeClient {
	return &FakeClient{
		Details:     make(map[int]librus.AbsenceDetail),
		DetailErrs:  make(map[int]error),
		detailCalls: make(map[int]int),
	}
}

func (f *FakeClient) Authorize(_ context.Context, login, password string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.authorizeHit++
	if f.AuthorizeErr != nil {
		return f.AuthorizeErr
	}
	if f.Login != "" && (login != f.Login || password != f.Password) {
		return errors.New("bad credentials")
	}
	f.authorized = true
	return nil
}

func (f *FakeClient) Identity(context.Context) (librus.Identity, error) {
	if err := f.check(f.IdentityErr); err != nil {
		return librus.Identity{}, err
	}
	return f.IdentityValue, nil
}

func (f *FakeClient) Grades(context.Context) ([]librus.SubjectGrades, error) {
	if err := f.check(f.GradesErr); err != nil {
		return nil, err
	}
	return f.GradesValue, nil
}

func (f *FakeClient) RawAbsences(context.Context) (librus.RawAbsences, error) {
	if err := f.check(f.AbsencesErr); err != nil {
		return nil, err
	}
	return f.AbsencesValue, nil
}

func (f *FakeClient) AbsenceDetail(_ context.Context, id int) (librus.AbsenceDetail, error) {
	if err := f.check(nil); err != nil {
		return librus.AbsenceDetail{}, err
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	f.detailCalls[id]++
	if err, ok := f.DetailErrs[id]; ok {
		return librus.AbsenceDetail{}, err
	}
	detail, ok := f.Details[id]
	if !ok {
		return librus.AbsenceDetail{}, fmt.Errorf("absence %d: %w", id, librus.ErrNotFound)
	}
	return detail, nil
}

func (f *FakeClient) Timetable(_ context.Context, from, to string) (librus.Timetable, error) {
	if err := f.check(f.TimetableErr); err != nil {
		return librus.Timetable{}, err
	}
	if f.TimetableFunc == nil {
		return librus.Timetable{Hours: []string{}, Table: librus.Week{}}, nil
	}
	return f.TimetableFunc(from, to), nil
}

// DetailCalls returns how many times AbsenceDetail was called for id.
func (f *FakeClient) DetailCalls(id int) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.detailCalls[id]
}

// TotalDetailCalls returns the number of AbsenceDetail calls across all ids.
func (f *FakeClient) TotalDetailCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	total := 0
	for _, n := range f.detailCalls {
		total += n
	}
	return total
}

func (f *FakeClient) AuthorizeCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.authorizeHit
}

func (f *FakeClient) check(err error) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if !f.authorized {
		return librus.ErrNotAuthorized
	}
	return err
}
