package logger

import "context"

// Logger is the leveled logger shared by all pipeline components.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})

	// With returns a logger that prefixes every message with the given
	// component name.
	With(component string) Logger
}
