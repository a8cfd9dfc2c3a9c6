package linkedin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/internal/domain/source"
	"github.com/honeycarbs/jobscout/internal/ratelimit"
	"github.com/honeycarbs/jobscout/pkg/linkedin"
)

// Name identifies this board in limiter state and diagnostics
const Name = "linkedin"

// defaultMinInterval is LinkedIn's minimum request cadence
const defaultMinInterval = 1 * time.Second

// boardClient describes the subset of the LinkedIn client used by the provider.
type boardClient interface {
	SearchJobs(ctx context.Context, keywords []string, params linkedin.SearchParams) (linkedin.SearchResult, error)
	GetJob(ctx context.Context, jobID string) (linkedin.Job, error)
}

// Provider implements source.Client for LinkedIn
type Provider struct {
	client  boardClient
	limiter *ratelimit.Limiter
}

// NewProvider builds a LinkedIn provider and registers its request
// cadence with the limiter
func NewProvider(client boardClient, limiter *ratelimit.Limiter) (*Provider, error) {
	if client == nil {
		return nil, fmt.Errorf("linkedin provider: client is required")
	}
	if limiter == nil {
		return nil, fmt.Errorf("linkedin provider: limiter is required")
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

// Search queries LinkedIn and returns normalized postings
func (p *Provider) Search(ctx context.Context, query domain.SearchQuery) (source.Result, error) {
	if err := p.limiter.Acquire(Name); err != nil {
		return source.Result{}, err
	}

	res, err := p.client.SearchJobs(ctx, query.Keywords, searchParams(query))
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

// JobDetails fetches one posting by its LinkedIn id
func (p *Provider) JobDetails(ctx context.Context, jobID string) (domain.Posting, error) {
	if err := p.limiter.Acquire(Name); err != nil {
		return domain.Posting{}, err
	}

	job, err := p.client.GetJob(ctx, jobID)
	if err != nil {
		var apiErr *linkedin.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return domain.Posting{}, fmt.Errorf("%w: linkedin job %s", domain.ErrNotFound, jobID)
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

// classify maps client failures onto the domain error taxonomy,
// reporting provider-signaled throttling to the limiter
func (p *Provider) classify(err error) error {
	var apiErr *linkedin.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests:
		p.limiter.ReportThrottled(Name)
		return fmt.Errorf("%w: linkedin reported throttling", domain.ErrRateLimited)
	case errors.As(err, &apiErr):
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	case errors.Is(err, linkedin.ErrMalformed):
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	default:
		return fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
}

func searchParams(query domain.SearchQuery) linkedin.SearchParams {
	params := linkedin.SearchParams{
		Location:         query.Location,
		Radius:           query.Radius,
		Remote:           query.RemoteOnly,
		PostedWithinDays: query.PostedWithinDays,
		Limit:            query.Limit,
	}
	for _, jt := range query.JobTypes {
		params.JobTypes = append(params.JobTypes, string(jt))
	}
	for _, lvl := range query.ExperienceLevels {
		params.ExperienceLevels = append(params.ExperienceLevels, string(lvl))
	}
	return params
}

func toPosting(j linkedin.Job) domain.Posting {
	return domain.Posting{
		ID:           j.ID,
		Source:       Name,
		Title:        j.Title,
		Company:      j.CompanyName,
		Location:     j.Location,
		Description:  j.Description,
		URL:          j.URL,
		PostedAt:     j.PostedAt,
		SalaryInfo:   j.Compensation,
		JobType:      jobType(j.EmploymentType),
		Requirements: j.Skills,
		Remote:       j.Remote,
		RawData:      j.Raw,
	}
}

func jobType(employmentType string) domain.JobType {
	switch employmentType {
	case "FULL_TIME":
		return domain.JobTypeFullTime
	case "PART_TIME":
		return domain.JobTypePartTime
	case "CONTRACT":
		return domain.JobTypeContract
	case "INTERNSHIP":
		return domain.JobTypeInternship
	default:
		return ""
	}
}

var _ source.Client = (*Provider)(nil)
