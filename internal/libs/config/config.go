// Package config provides application configuration management from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	APIPort  string
	APIHost  string
	LogLevel string

	// CorpusSource selects where the corpus bytes come from:
	// "embed", "postgres", an http(s) base URL, or a local directory.
	CorpusSource string
	CorpusName   string

	// DatabaseURL is only required when CorpusSource is "postgres"
	DatabaseURL string

	PreviewWindow  int
	DebounceWindow time.Duration
	MatchBatchSize int
	CacheEntries   int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		APIPort:      getEnv("API_PORT", "8080"),
		APIHost:      getEnv("API_HOST", "0.0.0.0"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		CorpusSource: getEnv("CORPUS_SOURCE", "embed"),
		CorpusName:   getEnv("CORPUS_NAME", "ley_18290_articulos.ndjson"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
	}

	var err error
	if cfg.PreviewWindow, err = getEnvInt("PREVIEW_WINDOW", 300); err != nil {
		return nil, err
	}
	if cfg.MatchBatchSize, err = getEnvInt("MATCH_BATCH_SIZE", 256); err != nil {
		return nil, err
	}
	if cfg.CacheEntries, err = getEnvInt("CACHE_ENTRIES", 64); err != nil {
		return nil, err
	}
	if cfg.DebounceWindow, err = getEnvDuration("DEBOUNCE_WINDOW", 300*time.Millisecond); err != nil {
		return nil, err
	}

	if cfg.PreviewWindow <= 0 {
		return nil, fmt.Errorf("PREVIEW_WINDOW must be positive, got %d", cfg.PreviewWindow)
	}
	if strings.EqualFold(cfg.CorpusSource, "postgres") && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when CORPUS_SOURCE=postgres")
	}

	return cfg, nil
}

// Addr returns the listen address for the API server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.APIHost, c.APIPort)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
