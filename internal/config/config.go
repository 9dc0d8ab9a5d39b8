package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Runner  RunnerConfig
	Export  ExportConfig
	Catalog CatalogConfig
	Logging LogConfig
	Metrics MetricsConfig
}

// RunnerConfig holds process session settings.
type RunnerConfig struct {
	Shell        string        `envconfig:"LINUTIL_SHELL" default:"sh"`
	Rows         uint16        `envconfig:"LINUTIL_PTY_ROWS" default:"24"`
	Cols         uint16        `envconfig:"LINUTIL_PTY_COLS" default:"80"`
	ChunkSize    int           `envconfig:"LINUTIL_CHUNK_SIZE" default:"8192"`
	PollInterval time.Duration `envconfig:"LINUTIL_POLL_INTERVAL" default:"50ms"`
	DrainTimeout time.Duration `envconfig:"LINUTIL_DRAIN_TIMEOUT" default:"2s"`
}

// ExportConfig holds log export settings.
type ExportConfig struct {
	Dir         string `envconfig:"LINUTIL_LOG_DIR"`
	Compression string `envconfig:"LINUTIL_LOG_COMPRESSION" default:"none"`
}

// CatalogConfig holds catalog discovery settings.
type CatalogConfig struct {
	Dir            string `envconfig:"LINUTIL_CATALOG_DIR" default:"."`
	SkipValidation bool   `envconfig:"LINUTIL_SKIP_VALIDATION" default:"false"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// MetricsConfig holds the optional Prometheus endpoint.
type MetricsConfig struct {
	Addr string `envconfig:"LINUTIL_METRICS_ADDR"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Runner: RunnerConfig{
			Shell:        "sh",
			Rows:         24,
			Cols:         80,
			ChunkSize:    8192,
			PollInterval: 50 * time.Millisecond,
			DrainTimeout: 2 * time.Second,
		},
		Export: ExportConfig{
			Compression: "none",
		},
		Catalog: CatalogConfig{
			Dir: ".",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate rejects values the runner cannot work with.
func (c *Config) Validate() error {
	if c.Runner.Shell == "" {
		return fmt.Errorf("invalid config: LINUTIL_SHELL must not be empty")
	}
	if c.Runner.Rows == 0 || c.Runner.Cols == 0 {
		return fmt.Errorf("invalid config: pty size %dx%d", c.Runner.Rows, c.Runner.Cols)
	}
	if c.Runner.ChunkSize <= 0 {
		return fmt.Errorf("invalid config: LINUTIL_CHUNK_SIZE must be positive, got %d", c.Runner.ChunkSize)
	}
	if c.Runner.PollInterval <= 0 {
		return fmt.Errorf("invalid config: LINUTIL_POLL_INTERVAL must be positive, got %s", c.Runner.PollInterval)
	}
	switch c.Export.Compression {
	case "none", "gzip", "zstd":
	default:
		return fmt.Errorf("invalid config: LINUTIL_LOG_COMPRESSION %q (want none, gzip or zstd)", c.Export.Compression)
	}
	return nil
}
