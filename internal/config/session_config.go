package config

import "time"

// maxSweepInterval caps how long an expired session can linger before the sweep removes it.
const maxSweepInterval = 10 * time.Minute

type SessionConfig interface {
	GetSessionTTL() time.Duration
	GetSweepInterval() time.Duration
}

type Session struct {
	SessionTTLMinutes int `env:"SESSION_TTL_MINUTES" envDefault:"60"`
}

var _ SessionConfig = Session{}

func (s Session) GetSessionTTL() time.Duration {
	return time.Duration(s.SessionTTLMinutes) * time.Minute
}

// GetSweepInterval is min(TTL, 10 minutes).
func (s Session) GetSweepInterval() time.Duration {
	return SweepInterval(s.GetSessionTTL())
}

func SweepInterval(ttl time.Duration) time.Duration {
	if ttl < maxSweepInterval {
		return ttl
	}
	return maxSweepInterval
}
