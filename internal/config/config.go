// Package config provides application configuration management.
// It loads settings from environment variables, with an optional .env file,
// and provides defaults for the action server and the ingestion pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Backend API
	BackendBaseURL  string
	BackendTimeout  time.Duration // structured reads
	GenerateTimeout time.Duration // generative-answer call

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Resolution cache
	CacheTTL time.Duration

	// Error reporting (empty DSN disables Sentry)
	SentryDSN   string
	Environment string

	// Metrics Authentication
	MetricsUsername string // Username for /metrics endpoint Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics endpoint Basic Auth (empty = no auth)

	// Ingestion pipeline (embedded)
	Ingest IngestConfig
}

// IngestConfig holds the knowledge ingestion pipeline configuration.
// Only cmd/ingestd validates these fields.
type IngestConfig struct {
	GeminiAPIKey    string
	GeminiModel     string
	InputDir        string        // where uploaded documents land
	IntermediateDir string        // summarized JSON between the two stages
	LedgerPath      string        // SQLite ledger of processed documents
	SettleDelay     time.Duration // wait after a create event before reading
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		BackendBaseURL:  getEnv("BACKEND_BASE_URL", "http://127.0.0.1:8000"),
		BackendTimeout:  getDurationEnv("BACKEND_TIMEOUT", BackendRead),
		GenerateTimeout: getDurationEnv("GENERATE_TIMEOUT", BackendGenerate),

		Port:            getEnv("PORT", "5055"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),

		CacheTTL: getDurationEnv("CACHE_TTL", DefaultCacheTTL),

		SentryDSN:   getEnv("SENTRY_DSN", ""),
		Environment: getEnv("ENVIRONMENT", "development"),

		MetricsUsername: getEnv("METRICS_USERNAME", "prometheus"),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		Ingest: IngestConfig{
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			InputDir:        getEnv("INGEST_INPUT_DIR", "data/entrada"),
			IntermediateDir: getEnv("INGEST_INTERMEDIATE_DIR", "data/processando"),
			LedgerPath:      getEnv("INGEST_LEDGER_PATH", "data/ingest.db"),
			SettleDelay:     getDurationEnv("INGEST_SETTLE_DELAY", IngestSettleDelay),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration the action server needs
func (c *Config) Validate() error {
	var errs []error

	if c.BackendBaseURL == "" {
		errs = append(errs, errors.New("BACKEND_BASE_URL is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.BackendTimeout <= 0 {
		errs = append(errs, fmt.Errorf("BACKEND_TIMEOUT must be positive, got %v", c.BackendTimeout))
	}
	if c.GenerateTimeout <= 0 {
		errs = append(errs, fmt.Errorf("GENERATE_TIMEOUT must be positive, got %v", c.GenerateTimeout))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_TTL must be positive, got %v", c.CacheTTL))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ValidateIngest checks the extra fields the ingestion pipeline needs
func (c *Config) ValidateIngest() error {
	var errs []error

	if c.Ingest.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required"))
	}
	if c.Ingest.InputDir == "" {
		errs = append(errs, errors.New("INGEST_INPUT_DIR is required"))
	}
	if c.Ingest.IntermediateDir == "" {
		errs = append(errs, errors.New("INGEST_INTERMEDIATE_DIR is required"))
	}
	if c.Ingest.LedgerPath == "" {
		errs = append(errs, errors.New("INGEST_LEDGER_PATH is required"))
	}
	if c.Ingest.SettleDelay < 0 {
		errs = append(errs, fmt.Errorf("INGEST_SETTLE_DELAY cannot be negative, got %v", c.Ingest.SettleDelay))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}
