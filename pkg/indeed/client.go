package indeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "https://api.indeed.com"
	defaultPageSize = 25
)

var (
	// ErrMalformed wraps response payloads that could not be decoded
	ErrMalformed = errors.New("indeed: malformed response")

	// ErrUnknownJobKey indicates a job key the API does not know. The
	// publisher API answers an unknown key with 200 and an empty results
	// array rather than a 404.
	ErrUnknownJobKey = errors.New("indeed: unknown job key")
)

// NewClient instantiates an Indeed publisher API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.PublisherID == "" {
		return nil, fmt.Errorf("indeed: publisher id is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Client{
		publisherID: cfg.PublisherID,
		baseURL:     baseURL,
		httpClient:  httpClient,
		pageSize:    pageSize,
	}, nil
}

// SearchJobs queries Indeed with keyword/location filters. Listings
// that fail to decode are skipped and counted in the result.
func (c *Client) SearchJobs(ctx context.Context, keywords []string, params SearchParams) (SearchResult, error) {
	if len(keywords) == 0 {
		return SearchResult{}, fmt.Errorf("indeed: keywords are required")
	}

	body, err := c.get(ctx, c.searchURL(keywords, params))
	if err != nil {
		return SearchResult{}, err
	}

	return decodeResults(body)
}

// GetJob fetches one posting by job key
func (c *Client) GetJob(ctx context.Context, jobKey string) (Job, error) {
	if jobKey == "" {
		return Job{}, fmt.Errorf("indeed: job key is required")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Job{}, fmt.Errorf("indeed: parse base url: %w", err)
	}
	u.Path = path.Join(u.Path, "ads", "apigetjobs")

	values := url.Values{}
	values.Set("publisher", c.publisherID)
	values.Set("jobkeys", jobKey)
	values.Set("v", "2")
	values.Set("format", "json")
	u.RawQuery = values.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return Job{}, err
	}

	result, err := decodeResults(body)
	if err != nil {
		return Job{}, err
	}
	if len(result.Jobs) == 0 {
		return Job{}, fmt.Errorf("%w: %q not in response", ErrUnknownJobKey, jobKey)
	}
	return result.Jobs[0], nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("indeed: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("indeed: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("indeed: read response: %w", err)
	}
	return body, nil
}

func (c *Client) searchURL(keywords []string, params SearchParams) string {
	u, _ := url.Parse(c.baseURL)
	u.Path = path.Join(u.Path, "ads", "apisearch")

	limit := params.Limit
	if limit <= 0 || limit > c.pageSize {
		limit = c.pageSize
	}

	values := url.Values{}
	values.Set("publisher", c.publisherID)
	values.Set("q", strings.Join(keywords, " "))
	values.Set("limit", strconv.Itoa(limit))
	values.Set("v", "2")
	values.Set("format", "json")

	if params.Location != "" {
		values.Set("l", params.Location)
	}
	if params.Radius > 0 {
		values.Set("radius", strconv.Itoa(params.Radius))
	}
	if params.Remote {
		values.Set("remote", "1")
	}
	if len(params.JobTypes) > 0 {
		values.Set("jt", strings.Join(params.JobTypes, ","))
	}
	if params.PostedWithinDays > 0 {
		values.Set("fromage", strconv.Itoa(params.PostedWithinDays))
	}

	u.RawQuery = values.Encode()
	return u.String()
}

func decodeResults(body []byte) (SearchResult, error) {
	var payload struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return SearchResult{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	result := SearchResult{Jobs: make([]Job, 0, len(payload.Results))}
	for _, raw := range payload.Results {
		job, err := decodeJob(raw)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Jobs = append(result.Jobs, job)
	}
	return result, nil
}

// decodeJob maps one wire result to a Job, keeping the raw payload for
// audit. Listings without a job key or title are rejected.
func decodeJob(raw []byte) (Job, error) {
	var res apiResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return Job{}, err
	}
	if res.JobKey == "" || res.JobTitle == "" {
		return Job{}, fmt.Errorf("missing jobkey or jobtitle")
	}

	var rawData map[string]any
	_ = json.Unmarshal(raw, &rawData)

	job := Job{
		ID:       res.JobKey,
		Title:    res.JobTitle,
		Company:  res.Company,
		Location: res.FormattedLocation,
		Snippet:  res.Snippet,
		URL:      res.URL,
		JobType:  strings.ToLower(res.JobType),
		Remote:   res.Remote,
		Raw:      rawData,
	}
	if res.Date != "" {
		if ts, err := time.Parse(time.RFC1123, res.Date); err == nil {
			job.PostedAt = ts.UTC()
		}
	}
	return job, nil
}
