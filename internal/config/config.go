package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the scribe service.
// Environment variables are parsed from the SCRIBE_ prefix.
type Config struct {
	// Build target selects high-level environment: local, cloud-dev, cloud
	BuildTarget string `envconfig:"BUILD_TARGET" default:"local"`

	// Derived or override driver
	DBDriver string `envconfig:"DB_DRIVER" default:"auto"`

	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Postgres Configuration (cloud targets)
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`

	// SQLite Configuration (local target)
	SQLitePath string `envconfig:"SQLITE_PATH" default:"scribe.db"`

	// Generation Configuration
	LLMProvider string `envconfig:"LLM_PROVIDER" default:"ollama"`
	LLMModel    string `envconfig:"LLM_MODEL" default:"llama3.1"`
	OllamaURL   string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`

	// GenerateTimeoutSeconds bounds one end-to-end generation call.
	GenerateTimeoutSeconds int `envconfig:"GENERATE_TIMEOUT_SECONDS" default:"90"`

	// TranscriptWindow is how many recent transcripts feed the context block.
	TranscriptWindow int `envconfig:"TRANSCRIPT_WINDOW" default:"3"`

	// ContextCharBudget caps the rendered transcript section, in characters.
	ContextCharBudget int `envconfig:"CONTEXT_CHAR_BUDGET" default:"8000"`
}

// ResolveDefaults validates BuildTarget and derives DBDriver when set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	var defaultDB string

	switch c.BuildTarget {
	case "local":
		defaultDB = "sqlite"
	case "cloud-dev", "cloud":
		defaultDB = "postgres"
	default:
		return fmt.Errorf("unsupported BUILD_TARGET: %s", c.BuildTarget)
	}

	if c.DBDriver == "" || c.DBDriver == "auto" {
		c.DBDriver = defaultDB
	}

	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.PostgresDSN == "" {
		return fmt.Errorf("SCRIBE_POSTGRES_DSN is required for DB_DRIVER=postgres")
	}
	if c.TranscriptWindow <= 0 {
		return fmt.Errorf("TRANSCRIPT_WINDOW must be positive, got %d", c.TranscriptWindow)
	}
	if c.ContextCharBudget <= 0 {
		return fmt.Errorf("CONTEXT_CHAR_BUDGET must be positive, got %d", c.ContextCharBudget)
	}
	return nil
}

// New creates a new Config by parsing environment variables.
// Environment variables should be prefixed with SCRIBE_
// Example: SCRIBE_HTTP_PORT, SCRIBE_LLM_MODEL
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("SCRIBE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("llm_provider", cfg.LLMProvider).
		Str("llm_model", cfg.LLMModel).
		Int("transcript_window", cfg.TranscriptWindow).
		Int("context_char_budget", cfg.ContextCharBudget).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		BuildTarget:            "local",
		DBDriver:               "sqlite",
		Environment:            EnvTesting,
		HTTPPort:               8080,
		SQLitePath:             ":memory:",
		LLMProvider:            "ollama",
		LLMModel:               "llama3.1",
		OllamaURL:              "http://localhost:11434",
		GenerateTimeoutSeconds: 5,
		TranscriptWindow:       3,
		ContextCharBudget:      8000,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GenerateTimeout returns the generation deadline as a duration.
func (c *Config) GenerateTimeout() time.Duration {
	return time.Duration(c.GenerateTimeoutSeconds) * time.Second
}
