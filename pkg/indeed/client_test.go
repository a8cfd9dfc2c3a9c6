package indeed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobscout/pkg/indeed"
)

const searchPayload = `{
	"version": 2,
	"totalResults": 3,
	"results": [
		{
			"jobtitle": "Python Developer",
			"company": "Software Solutions",
			"formattedLocation": "Austin, TX",
			"snippet": "Build web applications with Django",
			"url": "https://indeed.com/viewjob?jk=abc",
			"date": "Thu, 20 Aug 2026 09:00:00 UTC",
			"jobkey": "abc",
			"jobType": "fulltime",
			"remote": false
		},
		{
			"company": "No Title Corp"
		},
		{
			"jobtitle": "Site Reliability Engineer",
			"company": "Initech",
			"jobkey": "def",
			"remote": true
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *indeed.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := indeed.NewClient(indeed.Config{
		PublisherID: "pub-1",
		BaseURL:     srv.URL,
		HTTPClient:  srv.Client(),
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresPublisherID(t *testing.T) {
	_, err := indeed.NewClient(indeed.Config{})
	require.Error(t, err)
}

func TestSearchJobs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ads/apisearch", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "pub-1", q.Get("publisher"))
		assert.Equal(t, "python developer", q.Get("q"))
		assert.Equal(t, "json", q.Get("format"))
		_, _ = w.Write([]byte(searchPayload))
	})

	result, err := client.SearchJobs(context.Background(), []string{"python", "developer"}, indeed.SearchParams{})
	require.NoError(t, err)

	require.Len(t, result.Jobs, 2)
	assert.Equal(t, 1, result.Skipped)

	job := result.Jobs[0]
	assert.Equal(t, "abc", job.ID)
	assert.Equal(t, "Python Developer", job.Title)
	assert.Equal(t, "Software Solutions", job.Company)
	assert.Equal(t, "fulltime", job.JobType)
	assert.Equal(t, time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC), job.PostedAt)
	assert.True(t, result.Jobs[1].Remote)
}

func TestSearchJobsFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Austin, TX", q.Get("l"))
		assert.Equal(t, "50", q.Get("radius"))
		assert.Equal(t, "1", q.Get("remote"))
		assert.Equal(t, "fulltime,contract", q.Get("jt"))
		assert.Equal(t, "14", q.Get("fromage"))
		_, _ = w.Write([]byte(`{"results": []}`))
	})

	_, err := client.SearchJobs(context.Background(), []string{"python"}, indeed.SearchParams{
		Location:         "Austin, TX",
		Radius:           50,
		Remote:           true,
		JobTypes:         []string{"fulltime", "contract"},
		PostedWithinDays: 14,
	})
	require.NoError(t, err)
}

func TestSearchJobsThrottled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := client.SearchJobs(context.Background(), []string{"python"}, indeed.SearchParams{})
	var apiErr *indeed.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestSearchJobsMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	})

	_, err := client.SearchJobs(context.Background(), []string{"python"}, indeed.SearchParams{})
	require.ErrorIs(t, err, indeed.ErrMalformed)
}

func TestGetJob(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/ads/apigetjobs", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("jobkeys"))
		_, _ = w.Write([]byte(`{"results": [{"jobtitle": "Python Developer", "jobkey": "abc"}]}`))
	})

	job, err := client.GetJob(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", job.ID)
}

func TestGetJobUnknownKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	})

	_, err := client.GetJob(context.Background(), "nope")
	require.ErrorIs(t, err, indeed.ErrUnknownJobKey)
	assert.Contains(t, err.Error(), "nope")
}
