package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds configuration for a zerolog-backed logger
type Config struct {
	// Path is the log file path; empty means Writer is used
	Path string
	// Writer receives log lines when Path is empty (default os.Stderr)
	Writer io.Writer
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// Color enables ANSI colors for the text format
	Color bool
}

// ZerologLogger implements Logger on top of zerolog
type ZerologLogger struct {
	zl     zerolog.Logger
	closer io.Closer
}

// New creates a zerolog-backed logger
func New(cfg Config) (*ZerologLogger, error) {
	var (
		out    io.Writer = cfg.Writer
		closer io.Closer
	)

	if cfg.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out, closer = file, file
	}
	if out == nil {
		out = os.Stderr
	}
	// Files take each event in a single write; anything else is serialized.
	if _, ok := out.(*os.File); !ok {
		out = zerolog.SyncWriter(out)
	}

	if cfg.Format != FormatJSON {
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    !cfg.Color || cfg.Path != "",
			TimeFormat: time.RFC3339,
		}
	}

	zl := zerolog.New(out).With().Timestamp().Logger().Level(toZerolog(cfg.Level))
	return &ZerologLogger{zl: zl, closer: closer}, nil
}

// Debug logs a debug message
func (l *ZerologLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.zl.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Info logs an info message
func (l *ZerologLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.zl.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Warn logs a warning message
func (l *ZerologLogger) Warn(ctx context.Context, msg string, err error, fields Fields) {
	l.zl.Warn().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

// Error logs an error message
func (l *ZerologLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.zl.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

// WithFields returns a logger with additional fields
func (l *ZerologLogger) WithFields(fields Fields) Logger {
	return &ZerologLogger{
		zl: l.zl.With().Fields(map[string]interface{}(fields)).Logger(),
	}
}

// Close closes the log file, if any
func (l *ZerologLogger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func toZerolog(level Level) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
