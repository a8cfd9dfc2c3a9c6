package linkedin

import (
	"fmt"
	"net/http"
	"time"
)

// Config defines LinkedIn API client settings
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	PageSize   int
}

// Client queries the LinkedIn job search API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	pageSize   int
}

// SearchParams describe a job search request
type SearchParams struct {
	Location         string
	Radius           int
	Remote           bool
	JobTypes         []string
	ExperienceLevels []string
	PostedWithinDays int
	Limit            int
}

// SearchResult carries the decoded postings plus the count of listings
// that could not be decoded and were skipped
type SearchResult struct {
	Jobs    []Job
	Skipped int
}

// APIError is a non-2xx response from the LinkedIn API
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("linkedin: API error (%d): %s", e.StatusCode, e.Body)
}

type jobSearchResponse struct {
	Elements []jobElement `json:"elements"`
	Paging   struct {
		Count int `json:"count"`
		Start int `json:"start"`
		Total int `json:"total"`
	} `json:"paging"`
}

type jobElement struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	CompanyName    string   `json:"companyName"`
	Location       string   `json:"formattedLocation"`
	Description    string   `json:"description"`
	ApplyURL       string   `json:"applyUrl"`
	ListedAt       int64    `json:"listedAt"` // epoch millis
	EmploymentType string   `json:"employmentType"`
	Compensation   string   `json:"compensation"`
	WorkplaceType  string   `json:"workplaceType"`
	Skills         []string `json:"skills"`
}

// Job represents a normalized LinkedIn job posting.
type Job struct {
	ID             string
	Title          string
	CompanyName    string
	Location       string
	Description    string
	URL            string
	PostedAt       time.Time
	EmploymentType string
	Compensation   string
	Skills         []string
	Remote         bool
	Raw            map[string]any
}
