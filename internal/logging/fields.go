package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent names the subsystem emitting the line.
	FieldComponent = "component"
	// FieldReviewID identifies the review being processed.
	FieldReviewID = "review_id"
	// FieldWorkID identifies the reviewed work.
	FieldWorkID = "work_id"
	// FieldRunID identifies one batch run.
	FieldRunID = "run_id"
	// FieldStage names the pipeline stage.
	FieldStage = "stage"
	// FieldEventType is a stable machine-readable event name.
	FieldEventType = "event_type"
	// FieldErrorHint tells the operator what to check next.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldRequestID correlates API requests.
	FieldRequestID = "request_id"
)

type contextKey int

const (
	runIDKey contextKey = iota
	reviewIDKey
	requestIDKey
)

// WithRunID stores a batch run identifier on ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// WithReviewID stores the review being processed on ctx.
func WithReviewID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, reviewIDKey, id)
}

// WithRequestID stores an API request identifier on ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextFields extracts standardized slog attributes from ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := ctx.Value(runIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if id, ok := ctx.Value(reviewIDKey).(int64); ok {
		fields = append(fields, slog.Int64(FieldReviewID, id))
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		fields = append(fields, slog.String(FieldRequestID, id))
	}
	return fields
}

// WithContext returns logger augmented with the fields stored on ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
