// Package log builds the slog loggers used by auditcsv.
//
// Raw audit output is full of terminal escape sequences, and lines of it end
// up in debug logs when a block fails to parse. SanitizeHandler wraps any
// slog.Handler and removes escape sequences and control characters from
// string attribute values before they reach the underlying handler, so a
// log file never replays colors or cursor movement into a terminal.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("skipping malformed block", "line", raw)
//
//	// JSON output for log shippers
//	logger = log.NewJSONLogger(os.Stderr, verbose)
package log
