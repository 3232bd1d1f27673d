// Package logger defines the structured logging contract used across the service.
package logger

import (
	"context"
)

// Logger is the structured logger handed to every component.
// Log methods take a message followed by key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With returns a child logger that always carries the given key-value pairs.
	With(args ...any) Logger

	// WithContext returns a child logger tagged with the request id found in ctx, if any.
	WithContext(ctx context.Context) Logger
}
