package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type loggerKey struct{}

// WithLogger attaches logger to ctx. A nil ctx is treated as
// context.Background().
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithFields attaches a child of the context logger that carries keyvals on
// every entry.
func WithFields(ctx context.Context, keyvals ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(keyvals...))
}

// FromContext returns the logger attached to ctx, or Default().
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}
