package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

// LoggerContextKey is the context key for the logger
const LoggerContextKey ContextKey = "logger"

// IntoContext stores a logger in the context for downstream handlers.
func IntoContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	// Return default logger if not found
	return &Logger{
		Logger:    slog.Default(),
		component: "unknown",
	}
}
