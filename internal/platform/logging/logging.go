package logging

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey struct{}

// NewLogger builds the process-wide logger. Production gets JSON, everything
// else gets the text handler at debug level.
func NewLogger(isProduction bool) *slog.Logger {
	var handler slog.Handler
	if isProduction {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.New(handler)
}

// IntoCtx stores logger in ctx so request-scoped attributes travel with it.
func IntoCtx(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromCtx returns the logger stored in ctx, or slog.Default when none is set.
func FromCtx(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
