// Package logging provides logging utilities for sshdconf.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Debug logs are written using slog and controlled by verbosity settings:
//
//	logging.Debug("building index", "root", rootPath)
//	logging.Warn("shadowed occurrence", "file", path, "line", line)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserSuccess("Updated %s in %s", key, path)
//	logging.UserWarning("Commented out shadowed %s at %s:%d", key, path, line)
//	logging.UserError("Failed to apply change: %v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
package logging
