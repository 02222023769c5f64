package oteladapters

import (
	"log/slog"

	"github.com/tempokit/function-decorators-go/decorate"
)

// SlogLogger implements the plain decorate.Logger interface over a
// *slog.Logger, for callers who want structured logging without context
// correlation.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps the given slog logger. A nil logger falls back to
// slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogLogger{logger: logger}
}

// Debug logs a debug message.
func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs an info message.
func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs an error message.
func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// Ensure SlogLogger implements decorate.Logger.
var _ decorate.Logger = (*SlogLogger)(nil)
