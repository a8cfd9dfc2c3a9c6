package linkedin

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
	defaultBaseURL  = "https://api.linkedin.com"
	defaultPageSize = 25
)

// ErrMalformed wraps response payloads that could not be decoded
var ErrMalformed = errors.New("linkedin: malformed response")

// NewClient instantiates a LinkedIn API client
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("linkedin: api key is required")
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
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		pageSize:   pageSize,
	}, nil
}

// SearchJobs queries LinkedIn with keyword/location filters. Listings
// that fail to decode are skipped and counted in the result.
func (c *Client) SearchJobs(ctx context.Context, keywords []string, params SearchParams) (SearchResult, error) {
	if len(keywords) == 0 {
		return SearchResult{}, fmt.Errorf("linkedin: keywords are required")
	}

	body, err := c.get(ctx, c.searchURL(keywords, params))
	if err != nil {
		return SearchResult{}, err
	}

	var payload struct {
		Elements []json.RawMessage `json:"elements"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return SearchResult{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	result := SearchResult{Jobs: make([]Job, 0, len(payload.Elements))}
	for _, raw := range payload.Elements {
		job, err := decodeJob(raw)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Jobs = append(result.Jobs, job)
	}

	return result, nil
}

// GetJob fetches one posting by id
func (c *Client) GetJob(ctx context.Context, jobID string) (Job, error) {
	if jobID == "" {
		return Job{}, fmt.Errorf("linkedin: job id is required")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Job{}, fmt.Errorf("linkedin: parse base url: %w", err)
	}
	u.Path = path.Join(u.Path, "v2", "jobs", jobID)

	body, err := c.get(ctx, u.String())
	if err != nil {
		return Job{}, err
	}

	job, err := decodeJob(body)
	if err != nil {
		return Job{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return job, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("linkedin: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin: request failed: %w", err)
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
		return nil, fmt.Errorf("linkedin: read response: %w", err)
	}
	return body, nil
}

func (c *Client) searchURL(keywords []string, params SearchParams) string {
	u, _ := url.Parse(c.baseURL)
	u.Path = path.Join(u.Path, "v2", "job-search")

	limit := params.Limit
	if limit <= 0 || limit > c.pageSize {
		limit = c.pageSize
	}

	values := url.Values{}
	values.Set("keywords", strings.Join(keywords, " "))
	values.Set("count", strconv.Itoa(limit))

	if params.Location != "" {
		values.Set("location", params.Location)
	}
	if params.Radius > 0 {
		values.Set("distance", strconv.Itoa(params.Radius))
	}
	if params.Remote {
		values.Set("f_WT", "2") // workplace type filter: remote
	}
	if len(params.JobTypes) > 0 {
		values.Set("f_JT", strings.Join(params.JobTypes, ","))
	}
	if len(params.ExperienceLevels) > 0 {
		values.Set("f_E", strings.Join(params.ExperienceLevels, ","))
	}
	if params.PostedWithinDays > 0 {
		values.Set("f_TPR", fmt.Sprintf("r%d", params.PostedWithinDays*86400))
	}

	u.RawQuery = values.Encode()
	return u.String()
}

// decodeJob maps one wire element to a Job, keeping the raw payload for
// audit. Listings without an id or title are rejected.
func decodeJob(raw []byte) (Job, error) {
	var elem jobElement
	if err := json.Unmarshal(raw, &elem); err != nil {
		return Job{}, err
	}
	if elem.ID == "" || elem.Title == "" {
		return Job{}, fmt.Errorf("missing id or title")
	}

	var rawData map[string]any
	_ = json.Unmarshal(raw, &rawData)

	job := Job{
		ID:             elem.ID,
		Title:          elem.Title,
		CompanyName:    elem.CompanyName,
		Location:       elem.Location,
		Description:    elem.Description,
		URL:            elem.ApplyURL,
		EmploymentType: elem.EmploymentType,
		Compensation:   elem.Compensation,
		Skills:         elem.Skills,
		Remote:         strings.EqualFold(elem.WorkplaceType, "remote"),
		Raw:            rawData,
	}
	if elem.ListedAt > 0 {
		job.PostedAt = time.UnixMilli(elem.ListedAt).UTC()
	}
	return job, nil
}
