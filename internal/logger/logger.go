// Package logger configures the structured logger shared by simulations,
// sweeps and the CLI.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var (
	// Default is the logger used by components that were not given one.
	Default *slog.Logger
)

func init() {
	Default = NewText("info", os.Stderr)
}

// ParseLevel maps a level name to a slog level. Unknown names fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// New creates a JSON logger with the given level and output.
func New(level string, output io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler)
}

// NewText creates a text logger, the format used on a terminal.
func NewText(level string, output io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler)
}

// Build returns a logger for the named format ("text" or "json").
func Build(format, level string, output io.Writer) (*slog.Logger, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewText(level, output), nil
	case "json":
		return New(level, output), nil
	}
	return nil, fmt.Errorf("unknown log format: %s", format)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetDefault replaces Default and the slog package default.
func SetDefault(l *slog.Logger) {
	Default = l
	slog.SetDefault(l)
}
