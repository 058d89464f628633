// Package log provides a component-scoped structured logger on top of
// log/slog.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger and tags every record with a component.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Component string
	Output    io.Writer
}

// New creates a text logger writing to cfg.Output (stderr when nil).
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Component == "" {
		cfg.Component = "app"
	}
	h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level})
	return &Logger{Logger: slog.New(h).With("component", cfg.Component)}
}

// WithComponent returns a logger for a sub-component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("subcomponent", component)}
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
