package logging

import (
	"context"
	"log/slog"
	"time"
)

type Attr = slog.Attr

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error renders a nil error as "<nil>" so the key is always present.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

func attrsToArgs(attrs []Attr) []any {
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}
	return args
}

func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger tags logger with a component. A nil logger yields a
// no-op one.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// warnDefaults fill in whatever a degraded-path warning leaves unset.
var warnDefaults = []struct{ key, value string }{
	{FieldErrorHint, "check logs for details"},
	{FieldImpact, "review text processed with reduced output"},
}

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact. Caller-supplied values win.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	set := make(map[string]bool, len(attrs))
	for _, a := range attrs {
		set[a.Key] = true
	}
	if !set[FieldEventType] {
		attrs = append(attrs, String(FieldEventType, eventType))
	}
	for _, d := range warnDefaults {
		if !set[d.key] {
			attrs = append(attrs, String(d.key, d.value))
		}
	}
	logger.Warn(msg, attrsToArgs(attrs)...)
}

// NoopHandler discards everything.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return NoopHandler{} }

func (NoopHandler) WithGroup(string) slog.Handler { return NoopHandler{} }
