package attendance

import (
	"context"

	"github.com/jrsteele09/librus-gateway/librus"
)

// Report is the attendance payload: the raw register for display plus the derived statistics.
type Report struct {
	Absences librus.RawAbsences `json:"absences"`
	Details  Details            `json:"details"`
	Summary  Summary            `json:"summary"`
}

type Option func(*Pipeline)

// WithClassifier swaps the rules used to categorise attendance types.
func WithClassifier(c Classifier) Option {
	return func(p *Pipeline) {
		p.classify = c
	}
}

// WithConcurrency bounds how many detail fetches run at once. Zero or less is unbounded.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		p.concurrency = n
	}
}

type Pipeline struct {
	classify    Classifier
	concurrency int
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{classify: DefaultClassifier}
	for _, opt := range opts {
		opt(p)
	}
	if p.classify == nil {
		p.classify = DefaultClassifier
	}
	return p
}

// Aggregate dedups the raw entries, fetches one detail per distinct id and
// folds the successful ones. Failed fetches are logged and left out.
func (p *Pipeline) Aggregate(ctx context.Context, fetcher DetailFetcher, raw librus.RawAbsences) Report {
	if raw == nil {
		raw = librus.RawAbsences{}
	}

	ids := UniqueIDs(Flatten(raw))
	results := FetchDetails(ctx, fetcher, ids, p.concurrency)
	details := Successful(ctx, results)

	return Report{
		Absences: raw,
		Details:  Fold(details),
		Summary:  Summarize(raw, p.classify),
	}
}
