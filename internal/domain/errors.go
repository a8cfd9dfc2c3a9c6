package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for the aggregation core. Source clients wrap these
// with %w so callers can classify failures with errors.Is.
var (
	// ErrInvalidQuery indicates a caller mistake in the search query.
	// It is surfaced before any source is contacted and never retried.
	ErrInvalidQuery = errors.New("invalid search query")

	// ErrRateLimited indicates the per-source limiter denied the request
	// or the provider reported throttling. Transient and source-scoped.
	ErrRateLimited = errors.New("source is rate limited")

	// ErrSourceUnavailable indicates a transport failure or timeout
	// talking to a source. Isolated per source, not retried in-call.
	ErrSourceUnavailable = errors.New("source is unavailable")

	// ErrMalformedResponse indicates a source returned data that could
	// not be normalized into postings at all. Partially malformed
	// responses are not an error; the bad listings are dropped and
	// counted instead.
	ErrMalformedResponse = errors.New("source returned malformed data")

	// ErrNotFound indicates a detail lookup for an id the source does
	// not know.
	ErrNotFound = errors.New("job not found")
)

// InvalidQueryError carries the reason a query was rejected
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidQuery, e.Reason)
}

func (e *InvalidQueryError) Unwrap() error {
	return ErrInvalidQuery
}

// ErrorKind labels a diagnostic entry for callers that do not want to
// unwrap error chains
type ErrorKind string

const (
	KindInvalidQuery ErrorKind = "invalid_query"
	KindRateLimited  ErrorKind = "rate_limited"
	KindUnavailable  ErrorKind = "unavailable"
	KindParse        ErrorKind = "parse"
	KindNotFound     ErrorKind = "not_found"
	KindInternal     ErrorKind = "internal"
)

// KindOf maps an error to its diagnostic kind. Context timeouts count
// as unavailable because a source that exceeds its deadline is treated
// the same as an unreachable one.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		return KindInvalidQuery
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrSourceUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return KindUnavailable
	case errors.Is(err, ErrMalformedResponse):
		return KindParse
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
