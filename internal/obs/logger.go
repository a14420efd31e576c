// Package obs provides the ambient logging and error-wrapping stack shared
// by every avrocol package, in the spirit of a production service's
// observability layer rather than this library's own domain logic.
package obs

import (
	"context"
	"log/slog"
	"os"
)

// Logger is the process-wide default logger. Individual call sites should
// prefer FromContext so request-scoped fields flow through.
var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(Logger)
}

type contextKey string

const loggerKey contextKey = "avrocol-logger"

// FromContext retrieves the logger stashed in ctx, or the package default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return Logger
}

// WithLogger returns a context carrying logger for downstream calls.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// WithFields attaches structured fields to the logger carried by ctx.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	logger := FromContext(ctx)
	for k, v := range fields {
		logger = logger.With(k, v)
	}
	return WithLogger(ctx, logger)
}
