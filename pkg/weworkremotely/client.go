// Package weworkremotely reads the We Work Remotely RSS feed. The feed
// has no server-side search, so keyword filtering happens client-side
// over the fetched items.
package weworkremotely

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const defaultFeedURL = "https://weworkremotely.com/categories/remote-programming-jobs.rss"

var (
	// ErrMalformed wraps feeds that could not be parsed
	ErrMalformed = errors.New("weworkremotely: malformed feed")

	// ErrNotInFeed indicates the requested item is not in the feed
	ErrNotInFeed = errors.New("weworkremotely: item not in feed")
)

// Config defines We Work Remotely feed client settings
type Config struct {
	FeedURL    string
	HTTPClient *http.Client
}

// Client fetches and filters the We Work Remotely feed
type Client struct {
	feedURL string
	parser  *gofeed.Parser
}

// SearchParams describe a feed search request
type SearchParams struct {
	Limit int
}

// SearchResult carries the parsed postings plus the count of feed items
// that were missing required fields and were skipped
type SearchResult struct {
	Jobs    []Job
	Skipped int
}

// Job represents a normalized We Work Remotely posting. Every posting
// on the board is remote by definition.
type Job struct {
	ID          string
	Title       string
	Company     string
	Region      string
	Description string
	URL         string
	PostedAt    time.Time
	Categories  []string
}

// NewClient instantiates a We Work Remotely feed client
func NewClient(cfg Config) (*Client, error) {
	feedURL := cfg.FeedURL
	if feedURL == "" {
		feedURL = defaultFeedURL
	}

	parser := gofeed.NewParser()
	if cfg.HTTPClient != nil {
		parser.Client = cfg.HTTPClient
	}

	return &Client{
		feedURL: feedURL,
		parser:  parser,
	}, nil
}

// SearchJobs fetches the feed and keeps items matching any of the
// keywords. Items missing a guid or title are skipped and counted.
func (c *Client) SearchJobs(ctx context.Context, keywords []string, params SearchParams) (SearchResult, error) {
	if len(keywords) == 0 {
		return SearchResult{}, fmt.Errorf("weworkremotely: keywords are required")
	}

	feed, err := c.fetch(ctx)
	if err != nil {
		return SearchResult{}, err
	}

	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}

	var result SearchResult
	for _, item := range feed.Items {
		job, ok := mapItem(item)
		if !ok {
			result.Skipped++
			continue
		}
		if !matchesAny(job, lowered) {
			continue
		}
		result.Jobs = append(result.Jobs, job)
		if params.Limit > 0 && len(result.Jobs) >= params.Limit {
			break
		}
	}

	return result, nil
}

// GetJob finds one posting in the current feed by its guid
func (c *Client) GetJob(ctx context.Context, jobID string) (Job, error) {
	if jobID == "" {
		return Job{}, fmt.Errorf("weworkremotely: job id is required")
	}

	feed, err := c.fetch(ctx)
	if err != nil {
		return Job{}, err
	}

	for _, item := range feed.Items {
		if item.GUID == jobID {
			if job, ok := mapItem(item); ok {
				return job, nil
			}
			break
		}
	}
	return Job{}, fmt.Errorf("%w: %s", ErrNotInFeed, jobID)
}

func (c *Client) fetch(ctx context.Context) (*gofeed.Feed, error) {
	feed, err := c.parser.ParseURLWithContext(c.feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("weworkremotely: fetch feed: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return feed, nil
}

// mapItem converts one feed item to a Job. WWR titles come as
// "Company: Job Title"; items without a guid or title cannot be
// normalized.
func mapItem(item *gofeed.Item) (Job, bool) {
	if item == nil || item.GUID == "" || item.Title == "" {
		return Job{}, false
	}

	job := Job{
		ID:          item.GUID,
		Title:       item.Title,
		Description: item.Description,
		URL:         item.Link,
		Categories:  item.Categories,
	}

	if company, title, found := strings.Cut(item.Title, ":"); found {
		job.Company = strings.TrimSpace(company)
		job.Title = strings.TrimSpace(title)
	}
	if region, ok := item.Custom["region"]; ok {
		job.Region = strings.TrimSpace(region)
	}
	if item.PublishedParsed != nil {
		job.PostedAt = item.PublishedParsed.UTC()
	}

	return job, true
}

func matchesAny(job Job, keywords []string) bool {
	haystack := strings.ToLower(job.Title + " " + job.Company + " " + job.Description)
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
