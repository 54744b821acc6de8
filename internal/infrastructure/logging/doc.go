// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Loggers are built once in cmd/server and passed down explicitly. Each
// component takes its own named child via Component so log lines carry
// "tracer", "ws" or "http" in the logger field.
//
// Example Usage:
//
//	logger, err := logging.New(logging.Config{Level: cfg.Logging.Level})
//	tracer := tracing.New(logger.Component("tracer"))
//	logger.Info("Server starting", zap.String("addr", cfg.Addr()))
package logging
