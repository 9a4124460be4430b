package logging

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the process-wide structured logger configured by Setup.
var Logger *slog.Logger

// Verbose reports whether debug-level logging is enabled.
var Verbose bool

func init() {
	Setup(false, false, nil)
}

// Setup configures the structured logger. A nil writer logs to stderr.
// verbose lowers the level to Debug; jsonOutput switches from the text
// handler to the JSON handler.
func Setup(verbose, jsonOutput bool, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	Verbose = verbose

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(handler)
}

// Debug logs a debug-level message. Silent unless Setup was called with verbose.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info-level message.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning-level message.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error-level message.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// With returns a logger with the given attributes attached.
func With(args ...any) *slog.Logger {
	return Logger.With(args...)
}
