package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/honeycarbs/jobscout/internal/app"
	"github.com/honeycarbs/jobscout/internal/config"
	"github.com/honeycarbs/jobscout/internal/domain"
	"github.com/honeycarbs/jobscout/pkg/logging"
)

func main() {
	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	keywords := os.Args[1:]
	if len(keywords) == 0 {
		fmt.Fprintln(os.Stderr, "usage: jobscout <keyword> [keyword...]")
		os.Exit(2)
	}

	svc, err := app.InitializeSearchService(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize search service", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := svc.Search(ctx, domain.NewSearchQuery(keywords...))
	if err != nil {
		logger.Error("search failed", "err", err)
		os.Exit(1)
	}

	for _, diag := range result.Diagnostics {
		logger.Warn("source diagnostic",
			"source", diag.Source,
			"kind", string(diag.Kind),
			"message", diag.Message)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.Postings); err != nil {
		logger.Error("failed to encode results", "err", err)
		os.Exit(1)
	}

	logger.Info("search completed",
		"request_id", result.RequestID.String(),
		"postings", len(result.Postings),
		"sources", result.Sources,
		"duration", result.Duration)
}
