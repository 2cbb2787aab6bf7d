package log

import "log/slog"

// Option configures the slog.HandlerOptions a Logger is built with.
type Option func(*slog.HandlerOptions)

// WithLevel sets the minimum level a Logger will emit.
func WithLevel(level Level) Option {
	return func(o *slog.HandlerOptions) { o.Level = slog.Level(level) }
}
