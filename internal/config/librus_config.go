package config

import "time"

type LibrusConfig interface {
	GetLibrusAPIURL() string
	GetLibrusTokenURL() string
	GetLibrusClientID() string
	GetLibrusHTTPTimeout() time.Duration
	GetDetailFetchConcurrency() int
}

type Librus struct {
	APIURL      string        `env:"LIBRUS_API_URL" envDefault:"https://api.librus.pl/2.0"`
	TokenURL    string        `env:"LIBRUS_TOKEN_URL" envDefault:"https://api.librus.pl/OAuth/Token"`
	ClientID    string        `env:"LIBRUS_CLIENT_ID"`
	HTTPTimeout time.Duration `env:"LIBRUS_HTTP_TIMEOUT" envDefault:"30s"`

	// Zero or less means every detail fetch of a request runs at once.
	DetailFetchConcurrency int `env:"ATTENDANCE_FETCH_CONCURRENCY" envDefault:"0"`
}

var _ LibrusConfig = Librus{}

func (l Librus) GetLibrusAPIURL() string {
	return l.APIURL
}

func (l Librus) GetLibrusTokenURL() string {
	return l.TokenURL
}

func (l Librus) GetLibrusClientID() string {
	return l.ClientID
}

func (l Librus) GetLibrusHTTPTimeout() time.Duration {
	return l.HTTPTimeout
}

func (l Librus) GetDetailFetchConcurrency() int {
	return l.DetailFetchConcurrency
}
