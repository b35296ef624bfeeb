package sessions

import (
	"time"

	"github.com/jrsteele09/librus-gateway/librus"
)

// Session is one authenticated user connection. The Client is owned by the
// session alone; Identity is the snapshot taken at login.
type Session struct {
	Token     string
	Client    librus.Client
	Identity  librus.Identity
	CreatedAt time.Time
	LastUsed  time.Time
}

// Store holds sessions keyed by their token. Implementations must be safe for
// concurrent use. There is no way to list tokens.
type Store interface {
	// Create stores a new session and returns its token
	Create(client librus.Client, identity librus.Identity) string

	// Resolve looks a token up without changing it
	Resolve(token string) (Session, bool)

	// Touch marks the session as used now; unknown tokens are ignored
	Touch(token string)

	// Delete removes a session; unknown tokens are ignored
	Delete(token string)

	// Sweep removes every session idle for longer than the TTL and reports how many went
	Sweep(now time.Time) int

	// Len returns the number of live sessions
	Len() int
}
