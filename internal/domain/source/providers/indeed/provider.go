package indeed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/internal/domain/source"
	"github.com/honeycarbs/jobscout/internal/ratelimit"
	"github.com/honeycarbs/jobscout/pkg/indeed"
)

// Name identifies this board in limiter state and diagnostics
const Name = "indeed"

// defaultMinInterval is Indeed's minimum request cadence
const defaultMinInterval = 1500 * time.Millisecond

// boardClient describes the subset of the Indeed client used by the provider.
type boardClient interface {
	SearchJobs(ctx context.Context, keywords []string, params indeed.SearchParams) (indeed.SearchResult, error)
	GetJob(ctx context.Context, jobKey string) (indeed.Job, error)
}

// Provider implements source.Client for Indeed
type Provider struct {
	client  boardClient
	limiter *ratelimit.Limiter
}

// NewProvider builds an Indeed provider and registers its request
// cadence with the limiter
func NewProvider(client boardClient, limiter *ratelimit.Limiter) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("indeed provider: client is required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("indeed provider: limiter is required")
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

// Search queries Indeed and returns normalized postings
func (p *Provider) Search(ctx context.Context, query domain.SearchQuery) (source.Result, error) {
	if err := p.limiter.Acquire(Name); err != nil {
		return source.Result{}, err
	}

	params := indeed.SearchParams{
		Location:         query.Location,
		Radius:           query.Radius,
		Remote:           query.RemoteOnly,
		PostedWithinDays: query.PostedWithinDays,
		Limit:            query.Limit,
	}
	for _, jt := range query.JobTypes {
		params.JobTypes = append(params.JobTypes, string(jt))
	}

	res, err := p.client.SearchJobs(ctx, query.Keywords, params)
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

// JobDetails fetches one posting by its Indeed job key
func (p *Provider) JobDetails(ctx context.Context, jobID string) (domain.Posting, error) {
	if err := p.limiter.Acquire(Name); err != nil {
		return domain.Posting{}, err
	}

	job, err := p.client.GetJob(ctx, jobID)
	if err != nil {
		var apiErr *indeed.APIError
		if errors.Is(err, indeed.ErrUnknownJobKey) ||
			(errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound) {
			return domain.Posting{}, fmt.Errorf("%w: indeed job %s", domain.ErrNotFound, jobID)
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
	var apiErr *indeed.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests:
		p.limiter.ReportThrottled(Name)
		return fmt.Errorf("%w: indeed reported throttling", domain.ErrRateLimited)
	case errors.As(err, &apiErr):
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	case errors.Is(err, indeed.ErrMalformed):
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
}

func toPosting(j indeed.Job) domain.Posting {
	return domain.Posting{
		ID:          j.ID,
		Source:      Name,
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		Description: j.Snippet,
		URL:         j.URL,
		PostedAt:    j.PostedAt,
		JobType:     jobType(j.JobType),
		Remote:      j.Remote,
		RawData:     j.Raw,
	}
}

func jobType(s string) domain.JobType {
	switch s {
	case "fulltime":
		return domain.JobTypeFullTime
	case "parttime":
		return domain.JobTypePartTime
	case "contract":
		return domain.JobTypeContract
	case "internship":
		return domain.JobTypeInternship
	default:
		return ""
	}
}

var _ source.Client = (*Provider)(nil)
