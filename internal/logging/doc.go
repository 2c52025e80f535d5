// Package logging provides structured logging for the ossmcfg tools.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the CLI and the CAN bridge daemon. It provides both
// general logging functions and specialized functions for CAN-level debugging.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (frame hex dumps, correlation discards)
//   - Info: Normal operations (bus open, bridge connections, command results)
//   - Warn: Non-fatal issues (malformed frames, retries)
//   - Error: Fatal issues (socket failures, bridge errors)
//
// # Silent by Default
//
// CLI output belongs to the commands themselves; zap output is disabled
// unless OSSM_LOG_LEVEL is set:
//
//	OSSM_LOG_LEVEL=debug ossm-cfg show
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Bus opened",
//	    zap.String("interface", "can0"),
//	)
//
// CAN traffic has a dedicated helper:
//
//	logging.LogCANFrame("rx", frame.ID, frame.Payload())
//
// # Configuration
//
// Initialize logging at startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
