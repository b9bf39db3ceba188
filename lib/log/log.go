// Package log is a context wrapper around slog.Logger
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
)

type loggerKey struct{}

func from(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// With returns ctx with l attached. Every log call in this package
// reads the logger back out of the context.
func With(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// WithDefault attaches the standard stderr logger. DEBUG=1 in the
// environment lowers the level to debug.
func WithDefault(ctx context.Context) context.Context {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") == "1" {
		level = slog.LevelDebug
	}
	return With(ctx, New(os.Stderr, level))
}

// WithTB attaches a logger that writes through t.Log.
func WithTB(ctx context.Context, tb testing.TB) context.Context {
	return With(ctx, New(&tbWriter{tb: tb}, slog.LevelDebug))
}

// New builds the logger used across the CLI: pretty single-line
// records, filtered by level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewLevelHandler(level, NewPrettyHandler(w)))
}

func Debug(ctx context.Context, msg string, args ...any) {
	from(ctx).DebugContext(ctx, msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	from(ctx).InfoContext(ctx, msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	from(ctx).WarnContext(ctx, msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	from(ctx).ErrorContext(ctx, msg, args...)
}
