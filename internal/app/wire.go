//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/honeycarbs/jobscout/internal/config"
	"github.com/honeycarbs/jobscout/internal/domain/search"
	"github.com/honeycarbs/jobscout/pkg/logging"
)

// InitializeSearchService creates the aggregation service with all
// dependencies wired up
func InitializeSearchService(cfg config.Config, logger *logging.Logger) (search.Service, error) {
	wire.Build(
		ProvideLimiter,
		BuildSources,
		ProvideDeduper,
		ProvideSearchConfig,
		search.NewServiceWithDeps,
	)

	return nil, nil
}
