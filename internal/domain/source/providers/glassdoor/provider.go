package glassdoor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/internal/domain/source"
	"github.com/honeycarbs/jobscout/internal/ratelimit"
	"github.com/honeycarbs/jobscout/pkg/glassdoor"
)

// Name identifies this board in limiter state and diagnostics
const Name = "glassdoor"

// defaultMinInterval is Glassdoor's minimum request cadence. Scraped
// pages get a slower cadence than API-backed boards.
const defaultMinInterval = 2 * time.Second

// boardClient describes the subset of the Glassdoor client used by the provider.
type boardClient interface {
	SearchJobs(ctx context.Context, keywords []string, params glassdoor.SearchParams) (glassdoor.SearchResult, error)
	GetJob(ctx context.Context, jobID string) (glassdoor.Job, error)
}

// Provider implements source.Client for Glassdoor
type Provider struct {
	client  boardClient
	limiter *ratelimit.Limiter
}

// NewProvider builds a Glassdoor provider and registers its request
// cadence with the limiter
func NewProvider(client boardClient, limiter *ratelimit.Limiter) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("glassdoor provider: client is required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("glassdoor provider: limiter is required")
	}
	if err := limiter.Register(Name, defaultMinInterval); err != nil {
		return nil, err
	}
	return &Provider{client: client, limiter: limiter}, nil
}

// Name returns the board identifier
func (p *Provider) Name() string {
	return Name
}

// Search queries Glassdoor and returns normalized postings
func (p *Provider) Search(ctx context.Context, query domain.SearchQuery) (source.Result, error) {
	if err := p.limiter.Acquire(Name); err != nil {
		return source.Result{}, err
	}

	res, err := p.client.SearchJobs(ctx, query.Keywords, glassdoor.SearchParams{
		Location: query.Location,
		Remote:   query.RemoteOnly,
		Limit:    query.Limit,
	})
	if err != nil {
		return source.Result{}, p.classify(err)
	}
	p.limiter.ReportSuccess(Name)

	postings := make([]domain.Posting, 0, len(res.Jobs))
	for _, j := range res.Jobs {
		postings = append(postings, toPosting(j))
	}
	return source.Result{Postings: postings, Dropped: res.Skipped}, nil
}

// JobDetails fetches and parses one Glassdoor detail page
func (p *Provider) JobDetails(ctx context.Context, jobID string) (domain.Posting, error) {
	if err := p.limiter.Acquire(Name); err != nil {
		return domain.Posting{}, err
	}

	job, err := p.client.GetJob(ctx, jobID)
	if err != nil {
		var httpErr *glassdoor.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return domain.Posting{}, fmt.Errorf("%w: glassdoor job %s", domain.ErrNotFound, jobID)
		}
		return domain.Posting{}, p.classify(err)
	}
	p.limiter.ReportSuccess(Name)

	return toPosting(job), nil
}

// IsRateLimited is a pure read of the limiter state for this board
func (p *Provider) IsRateLimited() bool {
	return p.limiter.IsLimited(Name)
}

func (p *Provider) classify(err error) error {
	var httpErr *glassdoor.HTTPError
	switch {
	case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests:
		p.limiter.ReportThrottled(Name)
		return fmt.Errorf("%w: glassdoor reported throttling", domain.ErrRateLimited)
	case errors.As(err, &httpErr):
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	case errors.Is(err, glassdoor.ErrMalformed):
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
}

func toPosting(j glassdoor.Job) domain.Posting {
	desc := j.Description
	if desc == "" {
		desc = j.Snippet
	}
	return domain.Posting{
		ID:           j.ID,
		Source:       Name,
		Title:        j.Title,
		Company:      j.Employer,
		Location:     j.Location,
		Description:  desc,
		URL:          j.URL,
		PostedAt:     j.PostedAt,
		SalaryInfo:   j.Salary,
		Requirements: j.Requirements,
		Remote:       j.Remote,
	}
}

var _ source.Client = (*Provider)(nil)
