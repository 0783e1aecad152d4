package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiGray   = "\x1b[90m"
)

type kv struct {
	key   string
	value slog.Value
}

// consoleHandler writes "ts LEVEL component: [subject] message key=value".
type consoleHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	attrs     []kv
	groups    []string
	addSource bool
	color     bool
}

func newConsoleHandler(w io.Writer, lvl *slog.LevelVar, addSource, color bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource, color: color}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	kvs := make([]kv, 0, record.NumAttrs()+len(h.attrs))
	kvs = append(kvs, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, h.groups, attr)
		return true
	})

	var component, reviewID, stage string
	fields := make([]kv, 0, len(kvs))
	for _, f := range dedupe(kvs) {
		switch f.key {
		case FieldComponent:
			component = attrString(f.value)
			continue
		case FieldReviewID:
			reviewID = attrString(f.value)
			continue
		case FieldStage:
			stage = attrString(f.value)
			continue
		}
		fields = append(fields, f)
	}

	var buf bytes.Buffer
	buf.WriteString(ts.In(time.Local).Format(timestampLayout))
	buf.WriteByte(' ')
	h.writeLevel(&buf, record.Level)
	if component != "" {
		buf.WriteString(component)
		buf.WriteString(": ")
	}
	if subject := formatSubject(reviewID, stage); subject != "" {
		buf.WriteString("[")
		buf.WriteString(subject)
		buf.WriteString("] ")
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	buf.WriteString(msg)
	for _, f := range fields {
		buf.WriteByte(' ')
		buf.WriteString(f.key)
		buf.WriteByte('=')
		buf.WriteString(formatValue(f.value))
	}
	if h.addSource && record.PC != 0 {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&buf, " (%s:%d)", filepath.Base(src.File), src.Line)
		}
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) writeLevel(buf *bytes.Buffer, level slog.Level) {
	label := levelLabel(level)
	padded := label + strings.Repeat(" ", 6-len(label))
	if !h.color {
		buf.WriteString(padded)
		return
	}
	buf.WriteString(levelColor(level))
	buf.WriteString(label)
	buf.WriteString(ansiReset)
	buf.WriteString(padded[len(label):])
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]kv(nil), h.attrs...)
	for _, a := range attrs {
		flattenAttr(&clone.attrs, h.groups, a)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func formatSubject(reviewID, stage string) string {
	switch {
	case reviewID != "" && stage != "":
		return "review " + reviewID + " · " + stage
	case reviewID != "":
		return "review " + reviewID
	default:
		return stage
	}
}

// dedupe keeps the last value for each key in first-seen order.
func dedupe(kvs []kv) []kv {
	index := make(map[string]int, len(kvs))
	out := make([]kv, 0, len(kvs))
	for _, f := range kvs {
		if i, ok := index[f.key]; ok {
			out[i] = f
			continue
		}
		index[f.key] = len(out)
		out = append(out, f)
	}
	return out
}

func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(append([]string(nil), prefix...), attr.Key)
		}
		for _, a := range attr.Value.Group() {
			flattenAttr(dst, next, a)
		}
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(prefix, ".") + "." + key
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiBlue
	default:
		return ansiGray
	}
}

func attrString(v slog.Value) string {
	v = v.Resolve()
	if v.Kind() == slog.KindString {
		return v.String()
	}
	return formatValue(v)
}

func formatValue(v slog.Value) string {
	v = v.Resolve()
	var s string
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().In(time.Local).Format(timestampLayout)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			s = err.Error()
		} else {
			s = fmt.Sprint(v.Any())
		}
	default:
		s = v.String()
	}
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return false
}
