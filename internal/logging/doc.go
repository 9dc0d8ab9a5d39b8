// Package logging provides structured logging using uber/zap.
//
// Two modes are available:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability (LOG_DEV, -v)
//
// Both write to stderr by default; stdout belongs to the commands being run.
//
// Example Usage:
//
//	logger, err := logging.New(logging.Config{Level: "info"})
//	logger.Info("Session spawned", zap.String("session_id", id), zap.Int("pid", pid))
//	logger.Error("Failed to save log", zap.Error(err))
package logging
