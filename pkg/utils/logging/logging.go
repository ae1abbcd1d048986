package logging

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

type ctxKey struct{}

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Default returns the process-wide logger. It discards output until the CLI
// configures it with SetDefault.
func Default() *slog.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger
func SetDefault(logger *slog.Logger) {
	if logger == nil {
		return
	}
	defaultLogger.Store(logger)
}

// With embeds logger in ctx
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From returns the logger embedded in ctx, falling back to Default
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}
