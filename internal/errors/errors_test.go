package errors_test

import (
	"fmt"
	"testing"

	"github.com/jrsteele09/librus-gateway/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestWrapf(t *testing.T) {
	require.Nil(t, errors.Wrapf(nil, "grades"))

	err := errors.Wrapf(errors.ErrUpstreamFetch, "fetch %s", "grades")
	require.EqualError(t, err, "fetch grades: upstream fetch failed")
	require.True(t, errors.Is(err, errors.ErrUpstreamFetch))
	require.False(t, errors.Is(err, errors.ErrUpstreamAuth))
}

func TestSentinelsSurviveFmtWrapping(t *testing.T) {
	err := fmt.Errorf("%w: %w", errors.ErrPartialDetail, errors.ErrUpstreamFetch)
	require.True(t, errors.Is(err, errors.ErrPartialDetail))
	require.True(t, errors.Is(err, errors.ErrUpstreamFetch))
}
