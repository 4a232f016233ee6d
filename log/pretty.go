package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyState is shared by both pretty handlers. It carries the attributes
// and groups bound by WithAttrs and WithGroup.
type prettyState struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	groups []string
	attrs  []slog.Attr // already qualified by the groups active when bound
}

func makePrettyState(w io.Writer, opts *slog.HandlerOptions) prettyState {
	return prettyState{opts: *opts, mu: &sync.Mutex{}, w: w}
}

func (s prettyState) enabled(level slog.Level) bool {
	lowest := slog.LevelInfo
	if s.opts.Level != nil {
		lowest = s.opts.Level.Level()
	}

	return level >= lowest
}

func (s prettyState) withAttrs(attrs []slog.Attr) prettyState {
	if len(attrs) == 0 {
		return s
	}

	bound := make([]slog.Attr, 0, len(s.attrs)+len(attrs))
	bound = append(bound, s.attrs...)

	for _, a := range attrs {
		bound = append(bound, s.qualify(a))
	}

	s.attrs = bound

	return s
}

func (s prettyState) withGroup(name string) prettyState {
	if name == "" {
		return s
	}

	s.groups = append(s.groups[:len(s.groups):len(s.groups)], name)

	return s
}

// qualify nests a inside the groups currently open.
func (s prettyState) qualify(a slog.Attr) slog.Attr {
	for i := len(s.groups) - 1; i >= 0; i-- {
		a = slog.Attr{Key: s.groups[i], Value: slog.GroupValue(a)}
	}

	return a
}

// builtin returns the time, level, source and message attributes of r after
// ReplaceAttr, dropping any that were replaced with an empty attribute.
func (s prettyState) builtin(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		attrs = append(attrs, slog.Time(slog.TimeKey, r.Time))
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if s.opts.AddSource {
		if src := r.Source(); src != nil {
			attrs = append(attrs,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	attrs = append(attrs, slog.String(slog.MessageKey, r.Message))

	if s.opts.ReplaceAttr == nil {
		return attrs
	}

	kept := attrs[:0]

	for _, a := range attrs {
		a = s.opts.ReplaceAttr(nil, a)
		if a.Key != "" {
			kept = append(kept, a)
		}
	}

	return kept
}

// record returns every user attribute of r, bound ones first.
func (s prettyState) record(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(s.attrs)+r.NumAttrs())
	attrs = append(attrs, s.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, s.qualify(a))

		return true
	})

	return attrs
}

func (s prettyState) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.w.Write(buf.Bytes())

	return err
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

// levelName returns the name for a level attribute value, which ReplaceAttr
// may already have turned into a string.
func levelName(v slog.Value) (name, color string) {
	if level, ok := v.Any().(slog.Level); ok {
		return strings.ToUpper(Level(level).String()), levelColor(level)
	}

	name = v.String()

	return name, levelColor(slog.Level(ParseLevel(name)))
}

// prettyTextHandler implements a colorized text handler for log messages.
// Grouped attributes are written with dotted keys.
type prettyTextHandler struct {
	prettyState
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{makePrettyState(w, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.builtin(r) {
		if a.Key == slog.LevelKey {
			name, color := levelName(a.Value)
			h.writeKey(buf, a.Key)
			buf.WriteString(color + name + colorReset)

			continue
		}

		h.writeAttr(buf, "", a)
	}

	for _, a := range h.record(r) {
		h.writeAttr(buf, "", a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func (h *prettyTextHandler) writeKey(buf *bytes.Buffer, key string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(colorGray)
	buf.WriteString(key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	if a.Value.Kind() == slog.KindGroup {
		// Inline groups have no key of their own.
		if a.Key == "" {
			key = prefix
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, key, ga)
		}

		return
	}

	h.writeKey(buf, key)
	writeTextValue(buf, a.Value)
}

func writeTextValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(colorCyan)
		buf.WriteString(v.String())

	case slog.KindInt64:
		buf.WriteString(colorYellow)
		buf.WriteString(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		buf.WriteString(colorYellow)
		buf.WriteString(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		buf.WriteString(colorYellow)
		buf.WriteString(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(colorGreen)
		} else {
			buf.WriteString(colorRed)
		}

		buf.WriteString(strconv.FormatBool(v.Bool()))

	case slog.KindDuration:
		buf.WriteString(colorMagenta)
		buf.WriteString(v.Duration().String())

	case slog.KindTime:
		buf.WriteString(colorBlue)
		buf.WriteString(v.Time().String())

	default:
		if err, ok := v.Any().(error); ok {
			buf.WriteString(colorRed)
			buf.WriteString(err.Error())

			break
		}

		buf.WriteString(colorCyan)
		buf.WriteString(v.String())
	}

	buf.WriteString(colorReset)
}

// prettyJSONHandler implements a pretty-printed JSON handler for log messages.
// Grouped attributes are written as nested objects.
type prettyJSONHandler struct {
	prettyState
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{makePrettyState(w, opts)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")

	first := true

	for _, a := range h.builtin(r) {
		if a.Key == slog.LevelKey {
			name, color := levelName(a.Value)
			h.writeKey(buf, 1, a.Key, &first)
			buf.WriteString(color + name + colorReset)

			continue
		}

		h.writeAttr(buf, 1, a, &first)
	}

	for _, a := range h.record(r) {
		h.writeAttr(buf, 1, a, &first)
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func (h *prettyJSONHandler) writeKey(
	buf *bytes.Buffer,
	depth int,
	key string,
	first *bool,
) {
	if !*first {
		buf.WriteString(",")
	}

	*first = false

	buf.WriteString("\n")
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteString(colorGray)
	buf.WriteString(key)
	buf.WriteString(colorReset)
	buf.WriteString(": ")
}

func (h *prettyJSONHandler) writeAttr(
	buf *bytes.Buffer,
	depth int,
	a slog.Attr,
	first *bool,
) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() != slog.KindGroup {
		h.writeKey(buf, depth, a.Key, first)
		writeTextValue(buf, a.Value)

		return
	}

	group := a.Value.Group()

	// Inline groups merge into the enclosing object.
	if a.Key == "" {
		for _, ga := range group {
			h.writeAttr(buf, depth, ga, first)
		}

		return
	}

	h.writeKey(buf, depth, a.Key, first)
	buf.WriteString("{")

	inner := true
	for _, ga := range group {
		h.writeAttr(buf, depth+1, ga, &inner)
	}

	buf.WriteString("\n")
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteString("}")
}
