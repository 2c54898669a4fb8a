// Package logging provides structured logging for the ametrine CLI.
//
// Logs go to stderr so that evaluation results on stdout stay pipeable:
//
//	logger := logging.Default()
//	logger.Info("evaluated", "expr", expr, "kind", kind)
//
// The --verbose flag switches the level to Debug.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level represents log severity levels, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a config string onto a Level. Unknown names give LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Config configures the Logger.
type Config struct {
	// Level sets the minimum log level.
	Level Level

	// Service is attached to every entry as the "service" attribute.
	Service string

	// JSON switches the handler from text to JSON.
	JSON bool

	// Quiet discards all output.
	Quiet bool

	// Output overrides stderr. Used by tests.
	Output io.Writer
}

// Logger wraps slog.Logger. It is safe for concurrent use.
type Logger struct {
	slog   *slog.Logger
	config Config
}

// New creates a Logger from config.
func New(config Config) *Logger {
	opts := &slog.HandlerOptions{
		Level: config.Level.toSlogLevel(),
	}

	var out io.Writer = os.Stderr
	if config.Output != nil {
		out = config.Output
	}
	if config.Quiet {
		out = io.Discard
	}

	var handler slog.Handler
	if config.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	if config.Service != "" {
		handler = handler.WithAttrs([]slog.Attr{
			slog.String("service", config.Service),
		})
	}

	return &Logger{slog: slog.New(handler), config: config}
}

// Default returns an Info-level text logger on stderr.
func Default() *Logger {
	return New(Config{
		Level:   LevelInfo,
		Service: "ametrine",
	})
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(Config{Quiet: true})
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

// With returns a child logger that adds args to every entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...), config: l.config}
}

// Slog returns the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}
