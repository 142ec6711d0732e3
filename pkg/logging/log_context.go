package logging

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// GetLogger returns the logger carried by ctx, or the global logger.
func GetLogger(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.L()
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// ForFile returns a context whose logger tags every entry with path.
func ForFile(ctx context.Context, path string) context.Context {
	return WithLogger(ctx, GetLogger(ctx).With(FileField(path)))
}

// ForType returns a context whose logger tags every entry with the type being derived.
func ForType(ctx context.Context, name string) context.Context {
	return WithLogger(ctx, GetLogger(ctx).With(TypeField(name)))
}
