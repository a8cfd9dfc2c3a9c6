package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobType classifies a posting's employment arrangement
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// ExperienceLevel classifies the seniority a posting asks for
type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

// Posting is the normalized job listing record shared by all sources.
// Instances are created by a source client's parse step and treated as
// immutable afterwards.
type Posting struct {
	ID           string
	Source       string
	Title        string
	Company      string
	Location     string
	Description  string
	URL          string
	PostedAt     time.Time
	SalaryInfo   string
	JobType      JobType
	Requirements []string
	Remote       bool
	RawData      map[string]any
}

// PostingKey is the global identity of a posting until deduplication
// assigns a canonical survivor. ID is only unique within one source.
type PostingKey struct {
	Source string
	ID     string
}

// Key returns the (source, id) identity of the posting
func (p Posting) Key() PostingKey {
	return PostingKey{Source: p.Source, ID: p.ID}
}

// DefaultSearchLimit is applied by NewSearchQuery
const DefaultSearchLimit = 50

// SearchQuery describes one logical job search. It is immutable once
// handed to the aggregator.
type SearchQuery struct {
	Keywords         []string
	Location         string
	Radius           int
	JobTypes         []JobType
	RemoteOnly       bool
	ExperienceLevels []ExperienceLevel
	PostedWithinDays int
	Limit            int
}

// NewSearchQuery builds a query with the default result limit
func NewSearchQuery(keywords ...string) SearchQuery {
	return SearchQuery{
		Keywords: keywords,
		Limit:    DefaultSearchLimit,
	}
}

// Validate reports caller mistakes before any source is contacted
func (q SearchQuery) Validate() error {
	if len(q.Keywords) == 0 {
		return &InvalidQueryError{Reason: "at least one keyword is required"}
	}
	for _, kw := range q.Keywords {
		if kw == "" {
			return &InvalidQueryError{Reason: "keywords must be non-empty"}
		}
	}
	if q.Limit <= 0 {
		return &InvalidQueryError{Reason: "limit must be positive"}
	}
	if q.PostedWithinDays < 0 {
		return &InvalidQueryError{Reason: "posted_within_days must not be negative"}
	}
	return nil
}

// Diagnostic records one per-source failure observed during an
// aggregation without aborting it
type Diagnostic struct {
	Source  string    `json:"source"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// SearchResult wraps aggregated search output
type SearchResult struct {
	RequestID   uuid.UUID
	Postings    []Posting
	Diagnostics []Diagnostic
	Sources     int
	FetchedAt   time.Time
	Duration    time.Duration
}
