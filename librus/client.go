// Package librus is the boundary to the Librus Synergia backend. A Client is
// one authenticated, stateful connection; the gateway keeps exactly one per
// user session.
package librus

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotAuthorized = errors.New("librus client is not authorized")
	ErrNotFound      = errors.New("librus resource not found")
)

// Client is everything the gateway needs from an authenticated Librus connection.
// Authorize must succeed before any other call.
type Client interface {
	Authorize(ctx context.Context, login, password string) error
	Identity(ctx context.Context) (Identity, error)
	Grades(ctx context.Context) ([]SubjectGrades, error)
	RawAbsences(ctx context.Context) (RawAbsences, error)
	AbsenceDetail(ctx context.Context, id int) (AbsenceDetail, error)
	// Timetable forwards from/to unchanged; empty means the current week.
	Timetable(ctx context.Context, from, to string) (Timetable, error)
}

// Factory returns a fresh, unauthorized Client.
type Factory func() Client

// APIError is a non-2xx answer from the Librus API.
type APIError struct {
	StatusCode int
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("librus %s: unexpected status %d", e.Path, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == 404 {
		return ErrNotFound
	}
	return nil
}
