// Package logging provides structured logging for the POC Portal client.
//
// This package wraps the zap logger with convenience functions used
// throughout the client. Because the application renders a full-screen TUI,
// logging is silent by default and writes to stderr only when explicitly
// enabled, so log lines never corrupt the screen.
//
// # Configuration
//
// Set POCPORTAL_LOG_LEVEL to "debug", "info", "warn" or "error" to enable
// output, then initialize at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Debug("portal request",
//	    zap.String("method", "POST"),
//	    zap.String("path", "/poc/save"),
//	)
package logging
