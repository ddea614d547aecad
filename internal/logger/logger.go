package logger

import (
	"log/slog"
	"os"
	"strings"

	"go.uber.org/fx/fxevent"
)

// New creates a preconfigured slog.Logger.
func New() *slog.Logger {
	return NewWithLevel("info")
}

// NewWithLevel creates a JSON slog.Logger writing to stdout at the given level.
// Unknown levels fall back to info.
func NewWithLevel(level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)})
	return slog.New(handler)
}

// FxLogger routes fx lifecycle events through the application logger.
func FxLogger(l *slog.Logger) fxevent.Logger {
	return &fxevent.SlogLogger{Logger: l}
}

func parseLevel(level string) slog.Level {
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
