package sisago

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with index-specific helpers so operations
// log with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses the default text handler to stderr.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogBuild logs an index build.
func (l *Logger) LogBuild(ctx context.Context, numShards, numRecords int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"shards", numShards,
			"records", numRecords,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "build completed",
			"shards", numShards,
			"records", numRecords,
		)
	}
}

// LogQuery logs a query operation.
func (l *Logger) LogQuery(ctx context.Context, dist float32, shardID int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"distance", dist,
			"shard", shardID,
		)
	}
}

// LogUnlearn logs an unlearning operation.
func (l *Logger) LogUnlearn(ctx context.Context, identity string, removed, affectedShards int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "unlearn failed",
			"identity", identity,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "unlearn completed",
			"identity", identity,
			"removed_records", removed,
			"affected_shards", affectedShards,
		)
	}
}

// LogVerify logs a forgetting verification.
func (l *Logger) LogVerify(ctx context.Context, identity string, clean bool, offending int) {
	if clean {
		l.DebugContext(ctx, "verify completed",
			"identity", identity,
			"clean", true,
		)
	} else {
		l.WarnContext(ctx, "residual leakage detected",
			"identity", identity,
			"offending_shards", offending,
		)
	}
}
