package sessions

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/jrsteele09/librus-gateway/internal/config"
	"github.com/jrsteele09/librus-gateway/librus"
	"github.com/rs/zerolog/log"
)

// tokenBytes of entropy per session token. Collisions are not checked.
const tokenBytes = 16

// defaultSweepInterval is used when the TTL gives no usable period.
const defaultSweepInterval = time.Minute

var _ Store = (*InMemoryStore)(nil)

type Option func(*InMemoryStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

// WithSweepInterval overrides the default min(TTL, 10m) sweep period.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *InMemoryStore) {
		s.interval = interval
	}
}

// InMemoryStore is a process-local Store. A background sweep evicts idle
// sessions until Close is called.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl      time.Duration
	interval time.Duration
	now      func() time.Time

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewInMemoryStore creates the store and starts its sweep.
func NewInMemoryStore(ttl time.Duration, opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		interval: config.SweepInterval(ttl),
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interval <= 0 {
		s.interval = defaultSweepInterval
	}

	go s.sweepLoop()
	return s
}

func (s *InMemoryStore) Create(client librus.Client, identity librus.Identity) string {
	token := newToken()
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[token] = &Session{
		Token:     token,
		Client:    client,
		Identity:  identity,
		CreatedAt: now,
		LastUsed:  now,
	}
	return token
}

func (s *InMemoryStore) Resolve(token string) (Session, bool) {
	if token == "" {
		return Session{}, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	// Return a copy to prevent external modifications
	return *session, true
}

func (s *InMemoryStore) Touch(token string) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[token]; ok {
		session.LastUsed = now
	}
}

func (s *InMemoryStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
}

func (s *InMemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.Sub(session.LastUsed) > s.ttl {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the sweep and waits for it to exit. Safe to call more than once.
func (s *InMemoryStore) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *InMemoryStore) sweepLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if removed := s.Sweep(s.now()); removed > 0 {
				log.Debug().Int("removed", removed).Int("remaining", s.Len()).Msg("expired sessions swept")
			}
		}
	}
}

func newToken() string {
	b := make([]byte, tokenBytes)
	// crypto/rand.Read never returns an error; it aborts the program instead.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
