// ABOUTME: Builds the application slog.Logger from logging config
// ABOUTME: Text, JSON or colorized handler with a parsed minimum level

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/2389/lpe-reminder/internal/config"
)

// New creates a logger writing to w (stderr when nil).
func New(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "color":
		handler = newColorHandler(w, opts.Level.Level())
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With("app", config.AppName)
}

// ParseLevel converts a level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
