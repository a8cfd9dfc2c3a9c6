// Package search implements the aggregation core: one logical query
// fanned out concurrently over every registered job board, merged,
// deduplicated and ranked into a single bounded result.
package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/internal/domain/source"
	"github.com/honeycarbs/jobscout/pkg/logging"
)

// Service executes search queries against all registered sources
type Service interface {
	Search(ctx context.Context, query domain.SearchQuery) (domain.SearchResult, error)
}

// Config holds aggregation tunables
type Config struct {
	// MaxInFlight bounds concurrent source calls
	MaxInFlight int

	// SourceTimeout bounds each individual source call. A source that
	// exceeds it is reported as unavailable, never left to block the
	// aggregation.
	SourceTimeout time.Duration
}

// DefaultConfig returns the aggregation defaults
func DefaultConfig() Config {
	return Config{
		MaxInFlight:   4,
		SourceTimeout: 10 * time.Second,
	}
}

// Option configures Service
type Option func(*options)

type options struct {
	sources []source.Client
	deduper *Deduper
	cfg     Config
	logger  *logging.Logger
	clock   func() time.Time
}

// WithSources sets the job board clients to aggregate over
func WithSources(sources ...source.Client) Option {
	return func(o *options) {
		o.sources = sources
	}
}

// WithDeduper sets the deduplicator
func WithDeduper(d *Deduper) Option {
	return func(o *options) {
		o.deduper = d
	}
}

// WithConfig sets aggregation tunables
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	o := &options{
		cfg:    DefaultConfig(),
		logger: logging.NewNop(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	if len(o.sources) == 0 {
		return nil, fmt.Errorf("search.Service: at least one source is required")
	}
	if o.cfg.MaxInFlight <= 0 {
		return nil, fmt.Errorf("search.Service: max in-flight must be positive")
	}
	if o.cfg.SourceTimeout <= 0 {
		return nil, fmt.Errorf("search.Service: source timeout is required")
	}
	if o.deduper == nil {
		o.deduper = NewDeduper(DefaultDedupConfig())
	}

	breakers := make(map[string]*gobreaker.CircuitBreaker, len(o.sources))
	for _, src := range o.sources {
		breakers[src.Name()] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        src.Name(),
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		})
	}

	return &service{
		sources:  o.sources,
		deduper:  o.deduper,
		cfg:      o.cfg,
		logger:   o.logger,
		clock:    o.clock,
		breakers: breakers,
	}, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(sources []source.Client, deduper *Deduper, cfg Config, logger *logging.Logger) (Service, error) {
	return NewService(
		WithSources(sources...),
		WithDeduper(deduper),
		WithConfig(cfg),
		WithLogger(logger),
	)
}

type service struct {
	sources  []source.Client
	deduper  *Deduper
	cfg      Config
	logger   *logging.Logger
	clock    func() time.Time
	breakers map[string]*gobreaker.CircuitBreaker
}

// sourceOutcome is one source's slot in the fan-out. Slots are indexed
// per source so no mutex is needed around result collection.
type sourceOutcome struct {
	result source.Result
	err    error
}

// Search validates the query, fans it out over all sources, and merges
// whatever succeeded. Per-source failures surface only as diagnostics;
// the only errors returned are query validation and caller cancellation.
func (s *service) Search(ctx context.Context, query domain.SearchQuery) (domain.SearchResult, error) {
	if err := query.Validate(); err != nil {
		return domain.SearchResult{}, err
	}

	requestID := uuid.New()
	start := s.clock()
	log := s.logger.With("request_id", requestID.String())

	log.Info("starting aggregation",
		"keywords", len(query.Keywords),
		"sources", len(s.sources),
		"limit", query.Limit)

	outcomes := make([]sourceOutcome, len(s.sources))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.cfg.MaxInFlight)

	for i, src := range s.sources {
		i, src := i, src
		eg.Go(func() error {
			callCtx, cancel := context.WithTimeout(egCtx, s.cfg.SourceTimeout)
			defer cancel()

			res, err := s.searchSource(callCtx, src, query)
			outcomes[i] = sourceOutcome{result: res, err: err}
			// Failures are isolated per source; returning them here
			// would cancel the sibling calls.
			return nil
		})
	}

	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return domain.SearchResult{}, err
	}

	result := domain.SearchResult{
		RequestID: requestID,
		Sources:   len(s.sources),
		FetchedAt: start,
	}

	var merged []domain.Posting
	for i, src := range s.sources {
		out := outcomes[i]
		if out.err != nil {
			kind := domain.KindOf(out.err)
			result.Diagnostics = append(result.Diagnostics, domain.Diagnostic{
				Source:  src.Name(),
				Kind:    kind,
				Message: out.err.Error(),
			})
			log.Warn("source failed", "source", src.Name(), "kind", string(kind), "err", out.err)
			continue
		}
		if out.result.Dropped > 0 {
			result.Diagnostics = append(result.Diagnostics, domain.Diagnostic{
				Source:  src.Name(),
				Kind:    domain.KindParse,
				Message: fmt.Sprintf("dropped %d malformed listings", out.result.Dropped),
			})
		}
		merged = append(merged, out.result.Postings...)
	}

	deduped := s.deduper.Dedup(merged)
	rank(deduped)
	if len(deduped) > query.Limit {
		deduped = deduped[:query.Limit]
	}
	result.Postings = deduped
	result.Duration = s.clock().Sub(start)

	log.Info("aggregation completed",
		"postings", len(result.Postings),
		"merged", len(merged),
		"diagnostics", len(result.Diagnostics),
		"duration", result.Duration)

	return result, nil
}

// searchSource runs one source call through its circuit breaker,
// normalizing breaker and timeout failures into the error taxonomy.
func (s *service) searchSource(ctx context.Context, src source.Client, query domain.SearchQuery) (source.Result, error) {
	breaker := s.breakers[src.Name()]

	out, err := breaker.Execute(func() (any, error) {
		res, err := src.Search(ctx, query)
		if err != nil {
			// Throttling means the source is healthy but refusing us;
			// it must not trip the breaker.
			if errors.Is(err, domain.ErrRateLimited) {
				return sourceOutcome{err: err}, nil
			}
			return nil, err
		}
		return sourceOutcome{result: res}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return source.Result{}, fmt.Errorf("%w: %s circuit open", domain.ErrSourceUnavailable, src.Name())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return source.Result{}, fmt.Errorf("%w: %s timed out after %v", domain.ErrSourceUnavailable, src.Name(), s.cfg.SourceTimeout)
		}
		return source.Result{}, err
	}

	oc := out.(sourceOutcome)
	return oc.result, oc.err
}

// rank orders postings newest first, breaking ties by ascending source
// name and then id so output order is reproducible across runs.
func rank(postings []domain.Posting) {
	sort.Slice(postings, func(i, j int) bool {
		a, b := postings[i], postings[j]
		if !a.PostedAt.Equal(b.PostedAt) {
			return a.PostedAt.After(b.PostedAt)
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.ID < b.ID
	})
}
