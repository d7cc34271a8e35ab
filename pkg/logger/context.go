package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	runIDKey  contextKey = "run_id"
	jobIDKey  contextKey = "job_id"
	loggerKey contextKey = "logger"
)

// WithRunID adds run ID to context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// WithJobID adds scheduler job ID to context
func WithJobID(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, jobIDKey, jobID)
}

// WithLogger adds logger to context
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// RunIDFromContext returns the run ID stored in ctx, if any.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey).(string)
	return id
}

// FromContext extracts logger from context with all accumulated fields
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok && l != nil {
		return l
	}

	l := Logger
	if l == nil {
		l = zap.NewNop()
	}

	var fields []zap.Field
	if runID, ok := ctx.Value(runIDKey).(string); ok && runID != "" {
		fields = append(fields, zap.String("run_id", runID))
	}
	if jobID, ok := ctx.Value(jobIDKey).(string); ok && jobID != "" {
		fields = append(fields, zap.String("job_id", jobID))
	}

	if len(fields) > 0 {
		l = l.With(fields...)
	}

	return l
}

// URLField returns a zap field for a tracked product URL
func URLField(url string) zap.Field {
	return zap.String("url", url)
}

// KeyField returns a zap field for a state key
func KeyField(key string) zap.Field {
	return zap.String("key", key)
}

// DurationField returns a zap field for duration in milliseconds
func DurationField(durationMs int64) zap.Field {
	return zap.Int64("duration_ms", durationMs)
}

// CountField returns a zap field for a processed item count
func CountField(count int) zap.Field {
	return zap.Int("count", count)
}

// RequestIDField returns a zap field for an HTTP request ID
func RequestIDField(id string) zap.Field {
	return zap.String("request_id", id)
}
