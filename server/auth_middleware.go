package server

import (
	"context"
	"net/http"
	"strings"

	gwerrors "github.com/jrsteele09/librus-gateway/internal/errors"
	"github.com/jrsteele09/librus-gateway/librus"
	"github.com/rs/zerolog"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the resolved SessionContext
const ContextKeySession ContextKey = "session"

// SessionContext is what an authenticated handler gets to work with.
type SessionContext struct {
	Token    string
	Client   librus.Client
	Identity librus.Identity
}

// SessionFromContext returns the session attached by RequireSession.
func SessionFromContext(ctx context.Context) (SessionContext, bool) {
	sc, ok := ctx.Value(ContextKeySession).(SessionContext)
	return sc, ok
}

// sessionToken reads X-Session-Id, falling back to an Authorization bearer token.
func sessionToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(HeaderSessionID)); token != "" {
		return token
	}
	authHeader := r.Header.Get(HeaderAuthorization)
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// resolveSession looks the request token up and refreshes its idle clock.
func (s *Server) resolveSession(r *http.Request) (SessionContext, error) {
	token := sessionToken(r)
	if token == "" {
		return SessionContext{}, gwerrors.ErrNoSession
	}

	session, ok := s.sessions.Resolve(token)
	if !ok {
		return SessionContext{}, gwerrors.ErrSessionInvalid
	}
	s.sessions.Touch(token)

	return SessionContext{
		Token:    session.Token,
		Client:   session.Client,
		Identity: session.Identity,
	}, nil
}

// RequireSession rejects requests without a live session token with 401.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sc, err := s.resolveSession(r)
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Err(err).Str("path", r.URL.Path).Msg("rejected unauthenticated request")
				msg := msgSessionInvalid
				if gwerrors.Is(err, gwerrors.ErrNoSession) {
					msg = msgNoSession
				}
				writeMessage(w, http.StatusUnauthorized, msg)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sc)
			next(w, r.WithContext(ctx))
		}
	}
}
