// Package logging provides structured logging for exosctl.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the tool. It provides both general logging functions
// and specialized functions for device session logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (command plans, scrubbed device output)
//   - Info: Normal operations (session events, plan summaries, commits)
//   - Warn: Non-fatal issues (retrieval retries, stale snapshots)
//   - Error: Fatal issues (connection failures, partial commits)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Commit finished",
//	    zap.String("host", "10.0.0.10"),
//	    zap.String("mode", "replace"),
//	    zap.Int("commands", 7),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
// Session Logging:
//
//	logging.LogSession(host, "connected")
//	logging.LogSession(host, "candidate_loaded")
//	logging.LogSession(host, "committed")
//	logging.LogSession(host, "rolled_back")
//
// Command Logging:
//
//	logging.LogCommand(cmd, i, len(plan))
//	logging.LogCommandOutput(host, cmd, lines)
//
// # Configuration
//
// Logging is silent by default so that diff and config output stays clean
// for piping. Set EXOSCTL_LOG_LEVEL to enable it:
//
//	EXOSCTL_LOG_LEVEL=debug exosctl diff --device core-sw-01 -f new.cfg
//
// Initialize once at CLI startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// When enabled, logs are written to stderr in console format so they never
// mix with command output on stdout.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
