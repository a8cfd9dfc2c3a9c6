package indeed

import (
	"fmt"
	"net/http"
	"time"
)

// Config defines Indeed publisher API client settings
type Config struct {
	PublisherID string
	BaseURL     string
	HTTPClient  *http.Client
	PageSize    int
}

// Client queries the Indeed publisher job search API
type Client struct {
	publisherID string
	baseURL     string
	httpClient  *http.Client
	pageSize    int
}

// SearchParams describe a job search request
type SearchParams struct {
	Location         string
	Radius           int
	Remote           bool
	JobTypes         []string
	PostedWithinDays int
	Limit            int
}

// SearchResult carries the decoded postings plus the count of listings
// that could not be decoded and were skipped
type SearchResult struct {
	Jobs    []Job
	Skipped int
}

// APIError is a non-2xx response from the Indeed API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("indeed: API error (%d): %s", e.StatusCode, e.Body)
}

type apiResult struct {
	JobTitle          string `json:"jobtitle"`
	Company           string `json:"company"`
	FormattedLocation string `json:"formattedLocation"`
	Snippet           string `json:"snippet"`
	URL               string `json:"url"`
	Date              string `json:"date"` // RFC1123
	JobKey            string `json:"jobkey"`
	JobType           string `json:"jobType"`
	Remote            bool   `json:"remote"`
}

// Job represents a normalized Indeed job posting.
type Job struct {
	ID       string
	Title    string
	Company  string
	Location string
	Snippet  string
	URL      string
	PostedAt time.Time
	JobType  string
	Remote   bool
	Raw      map[string]any
}
