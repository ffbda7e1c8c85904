// Package log carries a slog.Logger through contexts so library code never
// writes to a global it does not own.
package log

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey struct{}

// Initialize installs a text handler at the given level as the process-wide
// default logger.
func Initialize(level slog.Level) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
