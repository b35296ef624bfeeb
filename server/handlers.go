package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/librus-gateway/attendance"
	gwerrors "github.com/jrsteele09/librus-gateway/internal/errors"
	"github.com/jrsteele09/librus-gateway/librus"
	"github.com/rs/zerolog"
)

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	SessionID string          `json:"sessionId"`
	User      librus.Identity `json:"user"`
}

type gradesResponse struct {
	Grades  []librus.SubjectGrades `json:"grades"`
	Student *librus.Student        `json:"student"`
}

type attendanceResponse struct {
	attendance.Report
	Student *librus.Student `json:"student"`
}

type timetableResponse struct {
	Timetable librus.Timetable `json:"timetable"`
	Student   *librus.Student  `json:"student"`
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Sessions: s.sessions.Len()})
	}
}

// LoginHandler authorizes a fresh upstream client and stores it under a new session token.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Debug().Err(gwerrors.Wrapf(gwerrors.ErrInvalidRequest, "decode login body: %s", err)).Msg("login rejected")
			writeMessage(w, http.StatusBadRequest, msgLoginRequired)
			return
		}
		if strings.TrimSpace(req.Login) == "" || req.Password == "" {
			writeMessage(w, http.StatusBadRequest, msgLoginRequired)
			return
		}

		client := s.newClient()
		if err := client.Authorize(r.Context(), req.Login, req.Password); err != nil {
			logger.Warn().Err(err).Str("login", req.Login).Msg("login failed")
			writeMessage(w, http.StatusUnauthorized, msgLoginFailed)
			return
		}

		identity, err := client.Identity(r.Context())
		if err != nil {
			logger.Warn().Err(fmt.Errorf("%w: identity: %w", gwerrors.ErrUpstreamAuth, err)).Str("login", req.Login).Msg("login failed fetching identity")
			writeMessage(w, http.StatusUnauthorized, msgLoginFailed)
			return
		}

		token := s.sessions.Create(client, identity)
		logger.Info().Str("login", identity.Account.Login).Int("sessions", s.sessions.Len()).Msg("session created")

		writeJSON(w, http.StatusOK, loginResponse{SessionID: token, User: identity})
	}
}

// LogoutHandler drops the caller's session; the token stops resolving immediately.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, _ := SessionFromContext(r.Context())
		s.sessions.Delete(sc.Token)
		zerolog.Ctx(r.Context()).Info().Str("login", sc.Identity.Account.Login).Msg("session closed")
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) GradesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, _ := SessionFromContext(r.Context())

		grades, err := sc.Client.Grades(r.Context())
		if err != nil {
			s.upstreamFailure(w, r, err, "grades", msgGradesFailed)
			return
		}
		if grades == nil {
			grades = []librus.SubjectGrades{}
		}

		writeJSON(w, http.StatusOK, gradesResponse{Grades: grades, Student: sc.Identity.Student})
	}
}

// AttendanceHandler returns the raw register with per-subject statistics built from
// the absence details. Details that fail to load are left out, not reported.
func (s *Server) AttendanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, _ := SessionFromContext(r.Context())

		raw, err := sc.Client.RawAbsences(r.Context())
		if err != nil {
			s.upstreamFailure(w, r, err, "attendance", msgAbsenceFailed)
			return
		}

		report := s.pipeline.Aggregate(r.Context(), sc.Client, raw)
		writeJSON(w, http.StatusOK, attendanceResponse{Report: report, Student: sc.Identity.Student})
	}
}

// TimetableHandler forwards the optional from/to query values as given.
func (s *Server) TimetableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sc, _ := SessionFromContext(r.Context())
		query := r.URL.Query()

		timetable, err := sc.Client.Timetable(r.Context(), query.Get("from"), query.Get("to"))
		if err != nil {
			s.upstreamFailure(w, r, err, "timetable", msgTimetableFail)
			return
		}

		writeJSON(w, http.StatusOK, timetableResponse{Timetable: timetable, Student: sc.Identity.Student})
	}
}

func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) upstreamFailure(w http.ResponseWriter, r *http.Request, err error, resource, message string) {
	zerolog.Ctx(r.Context()).Error().
		Err(fmt.Errorf("%w: %s: %w", gwerrors.ErrUpstreamFetch, resource, err)).
		Str("resource", resource).
		Msg("upstream fetch failed")
	writeMessage(w, http.StatusInternalServerError, message)
}
