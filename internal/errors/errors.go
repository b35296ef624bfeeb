package errors

import (
	"errors"
	"fmt"
)

// Common error types for the gateway
var (
	// Session errors (surfaced as 401)
	ErrNoSession      = errors.New("no active session")
	ErrSessionInvalid = errors.New("session expired or invalid")

	// Upstream errors
	ErrUpstreamAuth  = errors.New("upstream authorization failed")
	ErrUpstreamFetch = errors.New("upstream fetch failed")

	// ErrPartialDetail marks a single absence detail that could not be fetched.
	// It never reaches the caller; the entry is dropped from the aggregates.
	ErrPartialDetail = errors.New("absence detail unavailable")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
