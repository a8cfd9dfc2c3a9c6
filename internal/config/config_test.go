package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobscout/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "JOBSCOUT_BOARDS",
		"SEARCH_MAX_IN_FLIGHT", "SEARCH_SOURCE_TIMEOUT",
		"RATELIMIT_MAX_BACKOFF",
		"DEDUP_SIMILARITY_THRESHOLD", "DEDUP_WINDOW",
		"LINKEDIN_API_KEY", "LINKEDIN_BASE_URL",
		"INDEED_PUBLISHER_ID", "INDEED_BASE_URL",
		"GLASSDOOR_BASE_URL", "GLASSDOOR_USER_AGENT",
		"WWR_FEED_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	// Credential-free boards so defaults can load without secrets.
	t.Setenv("JOBSCOUT_BOARDS", "glassdoor,weworkremotely")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"glassdoor", "weworkremotely"}, cfg.Boards)
	assert.Equal(t, 4, cfg.Search.MaxInFlight)
	assert.Equal(t, 10*time.Second, cfg.Search.SourceTimeout)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.MaxBackoff)
	assert.Equal(t, 0.85, cfg.Dedup.SimilarityThreshold)
	assert.Equal(t, 72*time.Hour, cfg.Dedup.Window)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOBSCOUT_BOARDS", " LinkedIn , indeed ")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SEARCH_MAX_IN_FLIGHT", "8")
	t.Setenv("SEARCH_SOURCE_TIMEOUT", "3s")
	t.Setenv("RATELIMIT_MAX_BACKOFF", "2m")
	t.Setenv("DEDUP_SIMILARITY_THRESHOLD", "0.9")
	t.Setenv("DEDUP_WINDOW", "48h")
	t.Setenv("LINKEDIN_API_KEY", "test-key")
	t.Setenv("INDEED_PUBLISHER_ID", "pub-1")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"linkedin", "indeed"}, cfg.Boards)
	assert.Equal(t, 8, cfg.Search.MaxInFlight)
	assert.Equal(t, 3*time.Second, cfg.Search.SourceTimeout)
	assert.Equal(t, 2*time.Minute, cfg.RateLimit.MaxBackoff)
	assert.Equal(t, 0.9, cfg.Dedup.SimilarityThreshold)
	assert.Equal(t, 48*time.Hour, cfg.Dedup.Window)
	assert.Equal(t, "test-key", cfg.LinkedIn.APIKey)
	assert.Equal(t, "pub-1", cfg.Indeed.PublisherID)
}

func TestLoadMissingCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOBSCOUT_BOARDS", "linkedin,indeed")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LINKEDIN_API_KEY")
	assert.Contains(t, err.Error(), "INDEED_PUBLISHER_ID")
}

func TestLoadCredentialsOnlyForEnabledBoards(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOBSCOUT_BOARDS", "indeed")
	t.Setenv("INDEED_PUBLISHER_ID", "pub-1")

	// LinkedIn key missing but the board is disabled.
	_, err := config.Load()
	require.NoError(t, err)
}

func TestLoadRejectsMalformedOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOBSCOUT_BOARDS", "glassdoor")
	t.Setenv("SEARCH_MAX_IN_FLIGHT", "lots")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEARCH_MAX_IN_FLIGHT")
}
