// Package logger builds the slog handles used across the wikivec CLI.
// A logger is constructed once per command run and passed to
// constructors explicitly; nothing in this codebase logs through a
// package-level singleton.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a text logger writing to w at the given level.
// Unknown level names fall back to info.
func New(level string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// Discard returns a logger that drops everything. Useful in tests
// and as a safe default for optional constructor arguments.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to a slog.Level.
// Accepts debug, info, warn/warning and error in any case.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
