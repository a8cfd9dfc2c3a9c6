// Package app wires configuration, the rate limiter, board clients and
// the aggregation service into a runnable whole.
package app

import (
	"fmt"

	"github.com/honeycarbs/jobscout/internal/config"
	"github.com/honeycarbs/jobscout/internal/domain/search"
	"github.com/honeycarbs/jobscout/internal/domain/source"
	glassdoorProvider "github.com/honeycarbs/jobscout/internal/domain/source/providers/glassdoor"
	indeedProvider "github.com/honeycarbs/jobscout/internal/domain/source/providers/indeed"
	linkedinProvider "github.com/honeycarbs/jobscout/internal/domain/source/providers/linkedin"
	wwrProvider "github.com/honeycarbs/jobscout/internal/domain/source/providers/weworkremotely"
	"github.com/honeycarbs/jobscout/internal/ratelimit"
	"github.com/honeycarbs/jobscout/pkg/glassdoor"
	"github.com/honeycarbs/jobscout/pkg/indeed"
	"github.com/honeycarbs/jobscout/pkg/linkedin"
	"github.com/honeycarbs/jobscout/pkg/logging"
	"github.com/honeycarbs/jobscout/pkg/weworkremotely"
)

// BuildSources creates one source client per enabled board
func BuildSources(cfg config.Config, limiter *ratelimit.Limiter, logger *logging.Logger) ([]source.Client, error) {
	if len(cfg.Boards) == 0 {
		return nil, fmt.Errorf("app: at least one job board must be enabled")
	}

	sources := make([]source.Client, 0, len(cfg.Boards))
	for _, board := range cfg.Boards {
		src, err := newBoard(board, cfg, limiter)
		if err != nil {
			return nil, fmt.Errorf("app: build board %q: %w", board, err)
		}
		logger.Info("job board initialized", "board", src.Name())
		sources = append(sources, src)
	}
	return sources, nil
}

func newBoard(name string, cfg config.Config, limiter *ratelimit.Limiter) (source.Client, error) {
	switch name {
	case linkedinProvider.Name:
		client, err := linkedin.NewClient(linkedin.Config{
			APIKey:  cfg.LinkedIn.APIKey,
			BaseURL: cfg.LinkedIn.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return linkedinProvider.NewProvider(client, limiter)

	case indeedProvider.Name:
		client, err := indeed.NewClient(indeed.Config{
			PublisherID: cfg.Indeed.PublisherID,
			BaseURL:     cfg.Indeed.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return indeedProvider.NewProvider(client, limiter)

	case glassdoorProvider.Name:
		client, err := glassdoor.NewClient(glassdoor.Config{
			BaseURL:   cfg.Glassdoor.BaseURL,
			UserAgent: cfg.Glassdoor.UserAgent,
		})
		if err != nil {
			return nil, err
		}
		return glassdoorProvider.NewProvider(client, limiter)

	case wwrProvider.Name:
		client, err := weworkremotely.NewClient(weworkremotely.Config{
			FeedURL: cfg.WeWorkRemotely.FeedURL,
		})
		if err != nil {
			return nil, err
		}
		return wwrProvider.NewProvider(client, limiter)

	default:
		return nil, fmt.Errorf("unknown job board")
	}
}

// ProvideLimiter builds the shared per-source rate limiter
func ProvideLimiter(cfg config.Config) *ratelimit.Limiter {
	return ratelimit.New(ratelimit.WithMaxBackoff(cfg.RateLimit.MaxBackoff))
}

// ProvideDeduper builds the deduplicator from config
func ProvideDeduper(cfg config.Config) *search.Deduper {
	return search.NewDeduper(search.DedupConfig{
		SimilarityThreshold: cfg.Dedup.SimilarityThreshold,
		Window:              cfg.Dedup.Window,
	})
}

// ProvideSearchConfig extracts aggregation tunables from main config
func ProvideSearchConfig(cfg config.Config) search.Config {
	return search.Config{
		MaxInFlight:   cfg.Search.MaxInFlight,
		SourceTimeout: cfg.Search.SourceTimeout,
	}
}
