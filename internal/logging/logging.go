package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the process logger for the given level name.
func NewLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(level)}))
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

// ServiceLogger adapts a slog.Logger to the narrow Info/Error interface the
// services depend on.
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger) *ServiceLogger {
	return &ServiceLogger{logger: logger}
}

func (l *ServiceLogger) Info(msg string) {
	l.logger.Info(msg)
}

func (l *ServiceLogger) Error(msg string) {
	l.logger.Error(msg)
}
