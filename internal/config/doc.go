// Package config provides 12-factor configuration management for linutil.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables.
//
// Configuration Sections:
//   - Runner: shell, pty size, read chunk size, poll interval, drain timeout
//   - Export: log export directory and archive compression
//   - Catalog: catalog root and validation toggle
//   - Logging: Log level and output format
//   - Metrics: optional Prometheus listen address
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		return err
//	}
//	fmt.Printf("pty %dx%d via %s\n", cfg.Runner.Cols, cfg.Runner.Rows, cfg.Runner.Shell)
//
// Environment Variables:
//   - LINUTIL_SHELL, LINUTIL_PTY_ROWS, LINUTIL_PTY_COLS, LINUTIL_CHUNK_SIZE
//   - LINUTIL_POLL_INTERVAL, LINUTIL_DRAIN_TIMEOUT
//   - LINUTIL_LOG_DIR, LINUTIL_LOG_COMPRESSION
//   - LINUTIL_CATALOG_DIR, LINUTIL_SKIP_VALIDATION
//   - LOG_LEVEL, LOG_DEV, LINUTIL_METRICS_ADDR
package config
