package logging

import (
	"context"
	"io"
	"log/slog"
)

// Context keys for passing the logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from context, or returns a discarding logger if not found
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return discard
}

// With returns a context whose logger carries the extra attributes
func With(ctx context.Context, args ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(args...))
}
