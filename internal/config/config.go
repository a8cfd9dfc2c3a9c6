package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Config contains runtime settings for the aggregation core
type Config struct {
	LogLevel string

	// Boards lists the enabled job boards by name
	Boards []string

	Search struct {
		MaxInFlight   int
		SourceTimeout time.Duration
	}

	RateLimit struct {
		MaxBackoff time.Duration
	}

	Dedup struct {
		SimilarityThreshold float64
		Window              time.Duration
	}

	LinkedIn struct {
		APIKey  string
		BaseURL string
	}

	Indeed struct {
		PublisherID string
		BaseURL     string
	}

	Glassdoor struct {
		BaseURL   string
		UserAgent string
	}

	WeWorkRemotely struct {
		FeedURL string
	}
}

// Load populates config from environment variables. Credentials are
// only required for boards that are actually enabled.
func Load() (Config, error) {
	cfg := Config{
		LogLevel: "info",
		Boards:   []string{"linkedin", "indeed"},
	}
	cfg.Search.MaxInFlight = 4
	cfg.Search.SourceTimeout = 10 * time.Second
	cfg.RateLimit.MaxBackoff = 5 * time.Minute
	cfg.Dedup.SimilarityThreshold = 0.85
	cfg.Dedup.Window = 72 * time.Hour

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("JOBSCOUT_BOARDS"); v != "" {
		cfg.Boards = cfg.Boards[:0]
		for _, board := range strings.Split(v, ",") {
			if board = strings.ToLower(strings.TrimSpace(board)); board != "" {
				cfg.Boards = append(cfg.Boards, board)
			}
		}
	}

	if err := overrideInt(&cfg.Search.MaxInFlight, "SEARCH_MAX_IN_FLIGHT"); err != nil {
		return cfg, err
	}
	if err := overrideDuration(&cfg.Search.SourceTimeout, "SEARCH_SOURCE_TIMEOUT"); err != nil {
		return cfg, err
	}
	if err := overrideDuration(&cfg.RateLimit.MaxBackoff, "RATELIMIT_MAX_BACKOFF"); err != nil {
		return cfg, err
	}
	if err := overrideFloat(&cfg.Dedup.SimilarityThreshold, "DEDUP_SIMILARITY_THRESHOLD"); err != nil {
		return cfg, err
	}
	if err := overrideDuration(&cfg.Dedup.Window, "DEDUP_WINDOW"); err != nil {
		return cfg, err
	}

	cfg.LinkedIn.APIKey = os.Getenv("LINKEDIN_API_KEY")
	cfg.LinkedIn.BaseURL = os.Getenv("LINKEDIN_BASE_URL")
	cfg.Indeed.PublisherID = os.Getenv("INDEED_PUBLISHER_ID")
	cfg.Indeed.BaseURL = os.Getenv("INDEED_BASE_URL")
	cfg.Glassdoor.BaseURL = os.Getenv("GLASSDOOR_BASE_URL")
	cfg.Glassdoor.UserAgent = os.Getenv("GLASSDOOR_USER_AGENT")
	cfg.WeWorkRemotely.FeedURL = os.Getenv("WWR_FEED_URL")

	var missingVars []string

	if slices.Contains(cfg.Boards, "linkedin") && cfg.LinkedIn.APIKey == "" {
		missingVars = append(missingVars, "LINKEDIN_API_KEY")
	}
	if slices.Contains(cfg.Boards, "indeed") && cfg.Indeed.PublisherID == "" {
		missingVars = append(missingVars, "INDEED_PUBLISHER_ID")
	}

	if len(missingVars) > 0 {
		return cfg, fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return cfg, nil
}

func overrideInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func overrideFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = f
	return nil
}

func overrideDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
