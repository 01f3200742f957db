package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger builds the process logger: tint console output (or JSON when
// LOG_FORMAT=json) on stdout, fanned out to a JSON file when LOG_FILE is set.
// The returned cleanup closes the file.
func SetupLogger(c *Config) (*slog.Logger, func() error) {
	level := ParseLogLevel(c.LogLevel)
	console := consoleHandler(os.Stdout, c.LogFormat, level)

	if c.LogFile == "" {
		return slog.New(console), func() error { return nil }
	}

	file, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger := slog.New(console)
		logger.Error("failed to open log file, using stdout only", "error", err, "file", c.LogFile)
		return logger, func() error { return nil }
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(console, fileHandler)), file.Close
}

// SetupLoggerWithWriters creates a logger with custom writers (for testing).
func SetupLoggerWithWriters(console, file io.Writer, format string, level slog.Level) *slog.Logger {
	return slog.New(slogmulti.Fanout(
		consoleHandler(console, format, level),
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}),
	))
}

// NewConsoleLogger logs to w only; used by the CLI.
func NewConsoleLogger(w io.Writer, format string, level slog.Level) *slog.Logger {
	return slog.New(consoleHandler(w, format, level))
}

func consoleHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.RFC3339,
		NoColor:    format == "plain",
	})
}

func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
