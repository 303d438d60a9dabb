// Package logging sets up the structured slog logger.
//
// The practice screen owns the terminal in raw mode, so logs go to a file
// under the XDG state directory instead of stderr.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Level represents a logging level.
type Level = slog.Level

// Log levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Config holds the logging configuration.
type Config struct {
	Level Level
	// FilePath is where log lines are appended. Empty discards everything.
	FilePath string
}

// Logger is a slog logger bound to its output file.
type Logger struct {
	*slog.Logger
	file *os.File
}

// New opens the log file and builds a text handler over it.
func New(cfg Config) (*Logger, error) {
	if cfg.FilePath == "" {
		return Discard(), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &Logger{
		Logger: slog.New(newHandler(f, cfg.Level)).With("component", "adaptype"),
		file:   f,
	}, nil
}

// NewWriter builds a logger over an arbitrary writer.
func NewWriter(w io.Writer, level Level) *Logger {
	return &Logger{Logger: slog.New(newHandler(w, level))}
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return NewWriter(io.Discard, LevelError)
}

func newHandler(w io.Writer, level Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel parses a level name.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}
