// Package log builds the [log/slog] loggers used by the renderer and the
// command line tool.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON))
//	ctx.SetLogger(logger.Logger)
package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Logger is a [slog.Logger] that remembers the configuration it was built
// from.
type Logger struct {
	*slog.Logger
	config
}

// Make creates a new [Logger] that writes to w. Without options it uses
// [DefaultFormat], [DefaultLevel] and [DefaultTimeLayout].
func Make(w io.Writer, opts ...Option) Logger {
	cfg := newConfig(w, opts...)

	return Logger{
		config: cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// Wrap returns a new [Logger] built from the current configuration with
// opts applied on top.
func (l Logger) Wrap(opts ...Option) Logger {
	cfg := l.config.with(opts...)

	return Logger{
		config: cfg,
		Logger: slog.New(cfg.handler()),
	}
}

// Level returns the current minimum log level.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	return l.level
}

// Format returns the current log output format.
func (l Logger) Format() Format {
	if l.Logger == nil {
		return DefaultFormat
	}

	return l.format
}

// Trace logs a message at Trace level.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.TraceContext(context.Background(), msg, attrs...)
}

// TraceContext logs a message at Trace level with the provided context.
func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	// Silently return for zero value loggers
	if l.Logger == nil || !l.Enabled(ctx, slog.Level(LevelTrace)) {
		return
	}

	var pcs [1]uintptr
	// 1=runtime.Callers, 2=TraceContext, 3=caller (or Trace)
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), slog.Level(LevelTrace), msg, pcs[0])
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}
