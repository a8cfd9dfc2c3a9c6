// Package glassdoor scrapes Glassdoor job listing pages. Glassdoor has
// no public search API, so results come from parsing the HTML search
// and detail pages.
package glassdoor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultBaseURL = "https://www.glassdoor.com"

// ErrMalformed wraps pages that could not be parsed as listings
var ErrMalformed = errors.New("glassdoor: malformed page")

// Config defines Glassdoor client settings
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Client fetches and parses Glassdoor job pages
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// SearchParams describe a job search request
type SearchParams struct {
	Location string
	Remote   bool
	Limit    int
}

// SearchResult carries the parsed postings plus the count of listing
// cards that were missing required fields and were skipped
type SearchResult struct {
	Jobs    []Job
	Skipped int
}

// HTTPError is a non-2xx response from Glassdoor
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("glassdoor: HTTP error (%d)", e.StatusCode)
}

// Job represents a parsed Glassdoor job posting.
type Job struct {
	ID           string
	Title        string
	Employer     string
	Location     string
	Salary       string
	Snippet      string
	Description  string
	Requirements []string
	URL          string
	PostedAt     time.Time
	Remote       bool
}

// NewClient instantiates a Glassdoor client
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "jobscout/1.0"
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		userAgent:  userAgent,
	}, nil
}

// SearchJobs fetches the search page for the keywords and parses the
// listing cards. Cards missing an id or title are skipped and counted.
func (c *Client) SearchJobs(ctx context.Context, keywords []string, params SearchParams) (SearchResult, error) {
	if len(keywords) == 0 {
		return SearchResult{}, fmt.Errorf("glassdoor: keywords are required")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return SearchResult{}, fmt.Errorf("glassdoor: parse base url: %w", err)
	}
	u.Path = path.Join(u.Path, "Job", "jobs.htm")

	values := url.Values{}
	values.Set("sc.keyword", strings.Join(keywords, " "))
	if params.Location != "" {
		values.Set("locKeyword", params.Location)
	}
	if params.Remote {
		values.Set("remoteWorkType", "1")
	}
	u.RawQuery = values.Encode()

	doc, err := c.fetch(ctx, u.String())
	if err != nil {
		return SearchResult{}, err
	}

	cards := doc.Find("li.jobCard")
	if cards.Length() == 0 {
		return SearchResult{}, fmt.Errorf("%w: no job cards found", ErrMalformed)
	}

	var result SearchResult
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if params.Limit > 0 && len(result.Jobs) >= params.Limit {
			return false
		}
		job, ok := c.parseCard(card)
		if !ok {
			result.Skipped++
			return true
		}
		result.Jobs = append(result.Jobs, job)
		return true
	})

	return result, nil
}

// GetJob fetches and parses one job detail page
func (c *Client) GetJob(ctx context.Context, jobID string) (Job, error) {
	if jobID == "" {
		return Job{}, fmt.Errorf("glassdoor: job id is required")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Job{}, fmt.Errorf("glassdoor: parse base url: %w", err)
	}
	u.Path = path.Join(u.Path, "job-listing", jobID)

	doc, err := c.fetch(ctx, u.String())
	if err != nil {
		return Job{}, err
	}

	details := doc.Find("div.jobDetails").First()
	if details.Length() == 0 {
		return Job{}, fmt.Errorf("%w: no job details found", ErrMalformed)
	}

	job := Job{
		ID:       jobID,
		Title:    text(details, "h1.jobTitle"),
		Employer: text(details, "span.employerName"),
		Location: text(details, "span.jobLocation"),
		Salary:   text(details, "span.salaryEstimate"),
		URL:      u.String(),
	}
	if job.Title == "" {
		return Job{}, fmt.Errorf("%w: job detail missing title", ErrMalformed)
	}

	job.Description = text(details, "div.jobDescription")
	details.Find("ul.jobRequirements li").Each(func(_ int, li *goquery.Selection) {
		if req := strings.TrimSpace(li.Text()); req != "" {
			job.Requirements = append(job.Requirements, req)
		}
	})
	if listed, ok := details.Attr("data-listed"); ok {
		if ts, err := time.Parse("2006-01-02", listed); err == nil {
			job.PostedAt = ts.UTC()
		}
	}
	job.Remote = strings.Contains(strings.ToLower(job.Location), "remote")

	return job, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("glassdoor: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("glassdoor: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc, nil
}

// parseCard maps one search result card to a Job. Cards without an id
// or title cannot be normalized.
func (c *Client) parseCard(card *goquery.Selection) (Job, bool) {
	id, _ := card.Attr("data-job-id")
	title := text(card, "a.jobTitle")
	if id == "" || title == "" {
		return Job{}, false
	}

	job := Job{
		ID:       id,
		Title:    title,
		Employer: text(card, "span.employerName"),
		Location: text(card, "span.jobLocation"),
		Salary:   text(card, "span.salaryEstimate"),
		Snippet:  text(card, "div.jobDescSnippet"),
	}

	if href, ok := card.Find("a.jobTitle").Attr("href"); ok {
		job.URL = c.baseURL + href
	}
	if listed, ok := card.Attr("data-listed"); ok {
		if ts, err := time.Parse("2006-01-02", listed); err == nil {
			job.PostedAt = ts.UTC()
		}
	}
	job.Remote = strings.Contains(strings.ToLower(job.Location), "remote")

	return job, true
}

func text(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}
