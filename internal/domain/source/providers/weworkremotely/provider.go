package weworkremotely

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/internal/domain/source"
	"github.com/honeycarbs/jobscout/internal/ratelimit"
	"github.com/honeycarbs/jobscout/pkg/weworkremotely"
)

// Name identifies this board in limiter state and diagnostics
const Name = "weworkremotely"

// defaultMinInterval is the feed's minimum request cadence
const defaultMinInterval = 2 * time.Second

// boardClient describes the subset of the We Work Remotely client used by the provider.
type boardClient interface {
	SearchJobs(ctx context.Context, keywords []string, params weworkremotely.SearchParams) (weworkremotely.SearchResult, error)
	GetJob(ctx context.Context, jobID string) (weworkremotely.Job, error)
}

// Provider implements source.Client for the We Work Remotely feed
type Provider struct {
	client  boardClient
	limiter *ratelimit.Limiter
}

// NewProvider builds a We Work Remotely provider and registers its
// request cadence with the limiter
func NewProvider(client boardClient, limiter *ratelimit.Limiter) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("weworkremotely provider: client is required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("weworkremotely provider: limiter is required")
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

// Search fetches the feed and returns normalized postings matching the
// query keywords. Every posting on this board is remote, so a query
// with RemoteOnly set filters nothing out.
func (p *Provider) Search(ctx context.Context, query domain.SearchQuery) (source.Result, error) {
	if err := p.limiter.Acquire(Name); err != nil {
		return source.Result{}, err
	}

	res, err := p.client.SearchJobs(ctx, query.Keywords, weworkremotely.SearchParams{
		Limit: query.Limit,
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

// JobDetails finds one posting in the current feed by its guid
func (p *Provider) JobDetails(ctx context.Context, jobID string) (domain.Posting, error) {
	if err := p.limiter.Acquire(Name); err != nil {
		return domain.Posting{}, err
	}

	job, err := p.client.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, weworkremotely.ErrNotInFeed) {
			return domain.Posting{}, fmt.Errorf("%w: weworkremotely job %s", domain.ErrNotFound, jobID)
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
	var httpErr gofeed.HTTPError
	switch {
	case errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests:
		p.limiter.ReportThrottled(Name)
		return fmt.Errorf("%w: weworkremotely reported throttling", domain.ErrRateLimited)
	case errors.As(err, &httpErr):
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	case errors.Is(err, weworkremotely.ErrMalformed):
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
}

func toPosting(j weworkremotely.Job) domain.Posting {
	location := j.Region
	if location == "" {
		location = "Remote"
	}
	return domain.Posting{
		ID:          j.ID,
		Source:      Name,
		Title:       j.Title,
		Company:     j.Company,
		Location:    location,
		Description: j.Description,
		URL:         j.URL,
		PostedAt:    j.PostedAt,
		Remote:      true,
	}
}

var _ source.Client = (*Provider)(nil)
