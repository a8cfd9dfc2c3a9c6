package source

import (
	"context"

	"github.com/honeycarbs/jobscout/internal/domain"
)

// Result is one source's answer to a search. Listings that could not be
// normalized are dropped and counted in Dropped rather than failing the
// whole call.
type Result struct {
	Postings []domain.Posting
	Dropped  int
}

// Client is the capability every job board implements (LinkedIn,
// Indeed, Glassdoor, an RSS board, a test double). The aggregator never
// special-cases a concrete board.
type Client interface {
	// e.g. "linkedin" or "indeed"
	Name() string

	// Search returns normalized postings for a query. It wraps
	// domain.ErrRateLimited when the limiter denies the attempt,
	// domain.ErrSourceUnavailable on transport failure and
	// domain.ErrMalformedResponse when nothing in the response could be
	// normalized.
	Search(ctx context.Context, query domain.SearchQuery) (Result, error)

	// JobDetails returns one posting by its source-local id, wrapping
	// domain.ErrNotFound for unknown ids.
	JobDetails(ctx context.Context, jobID string) (domain.Posting, error)

	// IsRateLimited is a pure read of the limiter state for this
	// source, with no side effects.
	IsRateLimited() bool
}
