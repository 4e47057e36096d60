// Package logging provides structured logging using uber/zap.
//
// Two modes are supported:
//   - Production: JSON output for machine parsing
//   - Development: colored console output
//
// Relay failures are absorbed at the relay boundary and surface only here,
// so every swallowed upstream error is logged with its domain and query.
//
// Example Usage:
//
//	logger := logging.NewFromLevel("info", false)
//	logger.Info("Relay listening", zap.String("addr", addr))
package logging
