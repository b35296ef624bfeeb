package librus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	gwerrors "github.com/jrsteele09/librus-gateway/internal/errors"
	"golang.org/x/oauth2"
)

const (
	lessonCacheSize = 512
	lessonCacheTTL  = time.Hour
)

// APIConfig configures clients created by NewFactory.
type APIConfig struct {
	BaseURL  string // e.g. https://api.librus.pl/2.0
	TokenURL string
	ClientID string
	Timeout  time.Duration

	// HTTPClient is the transport used for token and API requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

func NewFactory(cfg APIConfig) Factory {
	return func() Client {
		return NewAPIClient(cfg)
	}
}

var _ Client = (*APIClient)(nil)

// APIClient talks to the Librus REST API with an OAuth2 password-grant token.
// Dictionaries (subjects, attendance types, grade categories, users) are loaded
// on first use and kept for the lifetime of the client.
type APIClient struct {
	cfg   APIConfig
	oauth *oauth2.Config
	base  *http.Client

	mu         sync.Mutex
	http       *http.Client
	subjects   map[int]string
	types      map[int]attendanceType
	categories map[int]string
	users      map[int]string

	lessons *expirable.LRU[int, lessonRef]
}

func NewAPIClient(cfg APIConfig) *APIClient {
	base := http.DefaultClient
	if cfg.HTTPClient != nil {
		base = cfg.HTTPClient
	}
	// The token request runs on base, so it gets the timeout as well.
	bounded := *base
	if cfg.Timeout > 0 {
		bounded.Timeout = cfg.Timeout
	}
	base = &bounded
	return &APIClient{
		cfg:  cfg,
		base: base,
		oauth: &oauth2.Config{
			ClientID: cfg.ClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		lessons: expirable.NewLRU[int, lessonRef](lessonCacheSize, nil, lessonCacheTTL),
	}
}

func (c *APIClient) Authorize(ctx context.Context, login, password string) error {
	tok, err := c.oauth.PasswordCredentialsToken(context.WithValue(ctx, oauth2.HTTPClient, c.base), login, password)
	if err != nil {
		return fmt.Errorf("[librus Authorize] %w: %w", gwerrors.ErrUpstreamAuth, err)
	}

	// The token source refreshes with this context long after the login request is gone.
	hc := c.oauth.Client(context.WithValue(context.Background(), oauth2.HTTPClient, c.base), tok)
	hc.Timeout = c.cfg.Timeout

	c.mu.Lock()
	c.http = hc
	c.mu.Unlock()
	return nil
}

func (c *APIClient) Identity(ctx context.Context) (Identity, error) {
	var me meResponse
	if err := c.get(ctx, "Me", nil, &me); err != nil {
		return Identity{}, err
	}

	identity := Identity{
		Account: Account{
			NameSurname: joinName(me.Me.Account.FirstName, me.Me.Account.LastName),
			Login:       me.Me.Account.Login,
		},
		Student: &Student{
			NameSurname: joinName(me.Me.User.FirstName, me.Me.User.LastName),
		},
	}

	if me.Me.Class == nil || me.Me.Class.ID == 0 {
		return identity, nil
	}

	var class classResponse
	if err := c.get(ctx, fmt.Sprintf("Classes/%d", me.Me.Class.ID), nil, &class); err != nil {
		return Identity{}, err
	}
	identity.Student.Class = fmt.Sprintf("%d%s", class.Class.Number, class.Class.Symbol)

	if class.Class.ClassTutor != nil {
		users, err := c.userNames(ctx)
		if err != nil {
			return Identity{}, err
		}
		identity.Student.Educator = users[class.Class.ClassTutor.ID]
	}
	return identity, nil
}

func (c *APIClient) Grades(ctx context.Context) ([]SubjectGrades, error) {
	var resp gradesResponse
	if err := c.get(ctx, "Grades", nil, &resp); err != nil {
		return nil, err
	}
	subjects, err := c.subjectNames(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := c.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	users, err := c.userNames(ctx)
	if err != nil {
		return nil, err
	}
	return groupGrades(resp.Grades, subjects, categories, users), nil
}

func (c *APIClient) RawAbsences(ctx context.Context) (RawAbsences, error) {
	var resp attendancesResponse
	if err := c.get(ctx, "Attendances", nil, &resp); err != nil {
		return nil, err
	}
	types, err := c.attendanceTypes(ctx)
	if err != nil {
		return nil, err
	}
	return groupAttendances(resp.Attendances, types), nil
}

func (c *APIClient) AbsenceDetail(ctx context.Context, id int) (AbsenceDetail, error) {
	var resp attendanceResponse
	if err := c.get(ctx, fmt.Sprintf("Attendances/%d", id), nil, &resp); err != nil {
		return AbsenceDetail{}, err
	}
	a := resp.Attendance

	types, err := c.attendanceTypes(ctx)
	if err != nil {
		return AbsenceDetail{}, err
	}
	detail := AbsenceDetail{
		ID:         a.ID,
		Type:       types[a.Type.ID].Name,
		Date:       a.Date,
		LessonHour: strconv.Itoa(a.LessonNo),
		AddedAt:    a.AddDate,
	}

	if a.Lesson == nil || a.Lesson.ID == 0 {
		return detail, nil
	}
	lesson, err := c.lesson(ctx, a.Lesson.ID)
	if err != nil {
		return AbsenceDetail{}, err
	}
	subjects, err := c.subjectNames(ctx)
	if err != nil {
		return AbsenceDetail{}, err
	}
	users, err := c.userNames(ctx)
	if err != nil {
		return AbsenceDetail{}, err
	}
	detail.Subject = subjects[lesson.SubjectID]
	detail.Teacher = users[lesson.TeacherID]
	return detail, nil
}

func (c *APIClient) Timetable(ctx context.Context, from, to string) (Timetable, error) {
	query := url.Values{}
	if from != "" {
		query.Set("weekStart", from)
	}
	if to != "" {
		query.Set("weekEnd", to)
	}

	var resp timetableResponse
	if err := c.get(ctx, "Timetables", query, &resp); err != nil {
		return Timetable{}, err
	}
	return buildTimetable(resp.Timetable), nil
}

func (c *APIClient) lesson(ctx context.Context, id int) (lessonRef, error) {
	if ref, ok := c.lessons.Get(id); ok {
		return ref, nil
	}
	var resp lessonResponse
	if err := c.get(ctx, fmt.Sprintf("Lessons/%d", id), nil, &resp); err != nil {
		return lessonRef{}, err
	}
	ref := lessonRef{SubjectID: resp.Lesson.Subject.ID, TeacherID: resp.Lesson.Teacher.ID}
	c.lessons.Add(id, ref)
	return ref, nil
}

func (c *APIClient) subjectNames(ctx context.Context) (map[int]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subjects != nil {
		return c.subjects, nil
	}

	var resp subjectsResponse
	if err := c.getLocked(ctx, "Subjects", nil, &resp); err != nil {
		return nil, err
	}
	c.subjects = make(map[int]string, len(resp.Subjects))
	for _, s := range resp.Subjects {
		c.subjects[s.ID] = s.Name
	}
	return c.subjects, nil
}

func (c *APIClient) attendanceTypes(ctx context.Context) (map[int]attendanceType, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.types != nil {
		return c.types, nil
	}

	var resp attendanceTypesResponse
	if err := c.getLocked(ctx, "Attendances/Types", nil, &resp); err != nil {
		return nil, err
	}
	c.types = make(map[int]attendanceType, len(resp.Types))
	for _, t := range resp.Types {
		c.types[t.ID] = t
	}
	return c.types, nil
}

func (c *APIClient) categoryNames(ctx context.Context) (map[int]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.categories != nil {
		return c.categories, nil
	}

	var resp categoriesResponse
	if err := c.getLocked(ctx, "Grades/Categories", nil, &resp); err != nil {
		return nil, err
	}
	c.categories = make(map[int]string, len(resp.Categories))
	for _, cat := range resp.Categories {
		c.categories[cat.ID] = cat.Name
	}
	return c.categories, nil
}

func (c *APIClient) userNames(ctx context.Context) (map[int]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.users != nil {
		return c.users, nil
	}

	var resp usersResponse
	if err := c.getLocked(ctx, "Users", nil, &resp); err != nil {
		return nil, err
	}
	c.users = make(map[int]string, len(resp.Users))
	for _, u := range resp.Users {
		c.users[u.ID] = joinName(u.FirstName, u.LastName)
	}
	return c.users, nil
}

func (c *APIClient) get(ctx context.Context, path string, query url.Values, out any) error {
	c.mu.Lock()
	hc := c.http
	c.mu.Unlock()
	return c.do(ctx, hc, path, query, out)
}

// getLocked is get for callers already holding c.mu.
func (c *APIClient) getLocked(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, c.http, path, query, out)
}

func (c *APIClient) do(ctx context.Context, hc *http.Client, path string, query url.Values, out any) error {
	if hc == nil {
		return ErrNotAuthorized
	}

	u := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("[librus %s] failed to build request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("[librus %s] request failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Path: path}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("[librus %s] failed to decode response: %w", path, err)
	}
	return nil
}

func joinName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}
