package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-qti2tex/internal/logging"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

// DefaultCommandTimeout bounds commands that do not set their own timeout.
const DefaultCommandTimeout = 30 * time.Second

// EnsureContext returns ctx, or context.Background when nil.
func EnsureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// WithCommandTimeout applies timeout unless it is zero or negative.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureLogger returns logger, or a no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	return logging.Ensure(logger)
}
