package store

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with storage-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithBucket adds a bucket field to the logger.
func (l *Logger) WithBucket(bucket string) *Logger {
	return &Logger{
		Logger: l.Logger.With("bucket", bucket),
	}
}

// WithPath adds a storage path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// LogRetry logs a retry of a blob operation after a server-side failure.
func (l *Logger) LogRetry(ctx context.Context, op, path string, status int, attempt uint32, delay time.Duration) {
	l.WarnContext(ctx, "retrying after server error",
		"op", op,
		"path", path,
		"status", status,
		"attempt", attempt,
		"delay", delay,
	)
}

// LogGet logs a blob fetch.
func (l *Logger) LogGet(ctx context.Context, path string, size int, found bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "get failed",
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "get completed",
			"path", path,
			"size", size,
			"found", found,
		)
	}
}

// LogPut logs a blob write.
func (l *Logger) LogPut(ctx context.Context, path string, size int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "put failed",
			"path", path,
			"size", size,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "put completed",
			"path", path,
			"size", size,
		)
	}
}

// LogDelete logs a blob deletion.
func (l *Logger) LogDelete(ctx context.Context, path string, deleted bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"path", path,
			"deleted", deleted,
		)
	}
}
