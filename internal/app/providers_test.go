package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobscout/internal/config"
	"github.com/honeycarbs/jobscout/internal/ratelimit"
	"github.com/honeycarbs/jobscout/pkg/logging"
)

func testConfig(boards ...string) config.Config {
	cfg := config.Config{Boards: boards}
	cfg.Search.MaxInFlight = 4
	cfg.Search.SourceTimeout = 10 * time.Second
	cfg.LinkedIn.APIKey = "test-key"
	cfg.Indeed.PublisherID = "pub-1"
	return cfg
}

func TestBuildSources(t *testing.T) {
	cfg := testConfig("linkedin", "indeed", "glassdoor", "weworkremotely")

	sources, err := BuildSources(cfg, ProvideLimiter(cfg), logging.NewNop())
	require.NoError(t, err)

	require.Len(t, sources, 4)
	names := make([]string, len(sources))
	for i, src := range sources {
		names[i] = src.Name()
	}
	assert.Equal(t, []string{"linkedin", "indeed", "glassdoor", "weworkremotely"}, names)
}

func TestBuildSourcesCredentialFreeBoards(t *testing.T) {
	cfg := config.Config{Boards: []string{"glassdoor", "weworkremotely"}}

	sources, err := BuildSources(cfg, ratelimit.New(), logging.NewNop())
	require.NoError(t, err)
	assert.Len(t, sources, 2)
}

func TestBuildSourcesUnknownBoard(t *testing.T) {
	cfg := testConfig("monster")

	_, err := BuildSources(cfg, ratelimit.New(), logging.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monster")
}

func TestBuildSourcesNoBoards(t *testing.T) {
	_, err := BuildSources(config.Config{}, ratelimit.New(), logging.NewNop())
	require.Error(t, err)
}

func TestInitializeSearchService(t *testing.T) {
	cfg := testConfig("glassdoor", "weworkremotely")

	svc, err := InitializeSearchService(cfg, logging.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
