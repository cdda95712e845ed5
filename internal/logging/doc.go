// Package logging provides structured logging for contactform.
//
// This package wraps a zap logger with convenience functions for common logging
// patterns used throughout the form core, the terminal form and the session
// server.
//
// # Log Levels
//
//   - Debug: Per-keystroke detail (field validation results, skipped auto-saves)
//   - Info: Normal operations (drafts saved, submissions, sessions opened)
//   - Warn: Degraded operation (storage unavailable, malformed drafts)
//   - Error: Failures that stop a command (listener errors, config errors)
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Info("Draft restored",
//	    zap.String("key", "contact_form_draft_v1"),
//	    zap.Int64("ts", rec.Timestamp),
//	)
//
// Field contents typed by the user are never logged; only lengths are.
//
// # Configuration
//
// Logging is silent unless a level is given explicitly or through the
// CONTACTFORM_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
