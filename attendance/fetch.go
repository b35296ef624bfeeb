package attendance

import (
	"context"
	"fmt"

	gwerrors "github.com/jrsteele09/librus-gateway/internal/errors"
	"github.com/jrsteele09/librus-gateway/librus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DetailFetcher is the part of librus.Client the pipeline calls.
type DetailFetcher interface {
	AbsenceDetail(ctx context.Context, id int) (librus.AbsenceDetail, error)
}

// Result is the outcome of one detail fetch.
type Result struct {
	ID     int
	Detail librus.AbsenceDetail
	Err    error
}

// FetchDetails fetches every id concurrently and waits for all of them. A
// failed or panicking fetch is recorded in its Result and never stops the others. The
// calls are detached from ctx cancellation so a started batch always
// completes. limit <= 0 runs all fetches at once.
func FetchDetails(ctx context.Context, fetcher DetailFetcher, ids []int, limit int) []Result {
	results := make([]Result, len(ids))
	if len(ids) == 0 {
		return results
	}

	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, id := range ids {
		g.Go(func() error {
			defer func() {
				if rec := recover(); rec != nil {
					results[i] = Result{ID: id, Err: fmt.Errorf("absence %d: fetch panicked: %v", id, rec)}
				}
			}()

			detail, err := fetcher.AbsenceDetail(ctx, id)
			if err == nil && detail.ID == 0 {
				detail.ID = id
			}
			results[i] = Result{ID: id, Detail: detail, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Successful drops failed results, logging each one.
func Successful(ctx context.Context, results []Result) []librus.AbsenceDetail {
	logger := zerolog.Ctx(ctx)

	details := make([]librus.AbsenceDetail, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			logger.Warn().
				Err(fmt.Errorf("%w: %w", gwerrors.ErrPartialDetail, r.Err)).
				Int("absence_id", r.ID).
				Msg("Absence detail failed")
			continue
		}
		details = append(details, r.Detail)
	}
	return details
}
