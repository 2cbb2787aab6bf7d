package log

import (
	"context"
	"io"
	"log/slog"
)

// Level extends slog.Level with Trace, used for parse-issue diagnostics
// a caller only wants when debugging a failed parse.
type Level slog.Level

// LevelTrace sits one step below slog.LevelDebug.
const LevelTrace Level = Level(slog.LevelDebug - 4)

// Logger wraps *slog.Logger to add the Trace level; every other method
// a caller needs is already exposed through the embedded *slog.Logger.
type Logger struct {
	*slog.Logger
}

// Make builds a Logger writing JSON-formatted records to w. A nil w
// discards all output.
func Make(w io.Writer, opts ...Option) Logger {
	if w == nil {
		w = io.Discard
	}
	hopts := &slog.HandlerOptions{Level: slog.LevelInfo}
	for _, opt := range opts {
		opt(hopts)
	}
	return Logger{slog.New(slog.NewJSONHandler(w, hopts))}
}

// TraceContext logs msg at Trace level.
func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	if l.Logger == nil {
		return
	}
	l.LogAttrs(ctx, slog.Level(LevelTrace), msg, attrs...)
}

// Trace logs msg at Trace level using a background context.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.TraceContext(context.Background(), msg, attrs...)
}
