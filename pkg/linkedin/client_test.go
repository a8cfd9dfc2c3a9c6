package linkedin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobscout/pkg/linkedin"
)

const searchPayload = `{
	"elements": [
		{
			"id": "123",
			"title": "Senior Software Engineer",
			"companyName": "Tech Company Inc",
			"formattedLocation": "San Francisco, CA",
			"description": "Build distributed systems",
			"applyUrl": "https://linkedin.com/jobs/123",
			"listedAt": 1755680400000,
			"employmentType": "FULL_TIME",
			"compensation": "$150k-$180k",
			"workplaceType": "remote",
			"skills": ["Go", "AWS"]
		},
		{
			"title": "Listing without an id"
		},
		{
			"id": "456",
			"title": "Python Developer",
			"companyName": "Software Solutions",
			"formattedLocation": "Austin, TX"
		}
	],
	"paging": {"count": 25, "start": 0, "total": 3}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *linkedin.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := linkedin.NewClient(linkedin.Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := linkedin.NewClient(linkedin.Config{})
	require.Error(t, err)
}

func TestSearchJobs(t *testing.T) {
	var gotAuth, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/job-search", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("keywords")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchPayload))
	})

	result, err := client.SearchJobs(context.Background(), []string{"software", "engineer"}, linkedin.SearchParams{})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "software engineer", gotQuery)

	require.Len(t, result.Jobs, 2)
	assert.Equal(t, 1, result.Skipped, "the listing without an id is skipped, not fatal")

	job := result.Jobs[0]
	assert.Equal(t, "123", job.ID)
	assert.Equal(t, "Senior Software Engineer", job.Title)
	assert.Equal(t, "Tech Company Inc", job.CompanyName)
	assert.Equal(t, time.UnixMilli(1755680400000).UTC(), job.PostedAt)
	assert.Equal(t, "FULL_TIME", job.EmploymentType)
	assert.Equal(t, []string{"Go", "AWS"}, job.Skills)
	assert.True(t, job.Remote)
	assert.NotEmpty(t, job.Raw)
}

func TestSearchJobsFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Berlin", q.Get("location"))
		assert.Equal(t, "25", q.Get("distance"))
		assert.Equal(t, "2", q.Get("f_WT"))
		assert.Equal(t, "r604800", q.Get("f_TPR"))
		assert.Equal(t, "10", q.Get("count"))
		_, _ = w.Write([]byte(`{"elements": []}`))
	})

	_, err := client.SearchJobs(context.Background(), []string{"go"}, linkedin.SearchParams{
		Location:         "Berlin",
		Radius:           25,
		Remote:           true,
		PostedWithinDays: 7,
		Limit:            10,
	})
	require.NoError(t, err)
}

func TestSearchJobsRequiresKeywords(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.SearchJobs(context.Background(), nil, linkedin.SearchParams{})
	require.Error(t, err)
}

func TestSearchJobsThrottled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	})

	_, err := client.SearchJobs(context.Background(), []string{"go"}, linkedin.SearchParams{})
	var apiErr *linkedin.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "rate limit")
}

func TestSearchJobsMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.SearchJobs(context.Background(), []string{"go"}, linkedin.SearchParams{})
	require.ErrorIs(t, err, linkedin.ErrMalformed)
}

func TestGetJob(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/jobs/123", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": "123", "title": "Senior Software Engineer", "description": "full text"}`))
	})

	job, err := client.GetJob(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", job.ID)
	assert.Equal(t, "full text", job.Description)
}

func TestGetJobNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such job", http.StatusNotFound)
	})

	_, err := client.GetJob(context.Background(), "999")
	var apiErr *linkedin.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
