package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Error kinds. Every error produced while parsing or evaluating an equation
// matches exactly one of these with [errors.Is].
var (
	ErrSyntax           = NewError("syntax error")
	ErrType             = NewError("type error")
	ErrUnboundVariable  = NewError("unbound variable")
	ErrAssignmentTarget = NewError("cannot assign")
	ErrUnknownFunction  = NewError("unknown function")
	ErrArity            = NewError("argument count mismatch")
	ErrDomain           = NewError("domain error")
	ErrReadInput        = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	kind  *Error      // sentinel this error derives from
	msg   string      // overrides kind.msg when set
	err   error       // wrapped error (for errors.Unwrap)
	attrs []slog.Attr // attributes for structured logging
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
// If err already is (or wraps) an *Error, that error is returned.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	e := &Error{err: err}
	e.kind = e

	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.kind == t.kind
}

// Kind returns the sentinel message of the error, e.g. "type error".
func (e *Error) Kind() string {
	if e.kind == nil {
		return e.msg
	}

	return e.kind.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if k := e.Kind(); k != "" && k != e.msg {
		attrs = append(attrs, slog.String("kind", k))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		kind:  e.kind,
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Msgf returns a copy of e with its message replaced by the formatted text.
// The copy still matches the original sentinel with [errors.Is].
func (e *Error) Msgf(format string, args ...any) *Error {
	return &Error{
		kind:  e.kind,
		msg:   fmt.Sprintf(format, args...),
		err:   e.err,
		attrs: e.attrs,
	}
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// Offset returns the byte offset into the source attached to the error, or -1
// if the error carries no position.
func (e *Error) Offset() int {
	v, ok := e.Attr("offset")
	if !ok || v.Kind() != slog.KindInt64 {
		return -1
	}

	return int(v.Int64())
}

// syntaxError builds an ErrSyntax located at offset.
func syntaxError(offset int, format string, args ...any) *Error {
	return ErrSyntax.
		Msgf("%s at offset %d: %s", ErrSyntax.msg, offset, fmt.Sprintf(format, args...)).
		With(slog.Int("offset", offset))
}

// typeError builds the operand diagnostic shared by operators and built-in
// functions, for example "Invalid add operator on [Boolean Variant of true]".
func typeError(op string, v Value) *Error {
	return ErrType.
		Msgf("Invalid %s operator on %s", op, v.Describe()).
		With(slog.String("operator", op), slog.String("operand", v.Describe()))
}

// FormatSyntaxError renders err with a caret pointing at the offending column
// of src. Errors without a position are returned as plain text.
func FormatSyntaxError(src string, err error) string {
	var ee *Error
	if !errors.As(err, &ee) || ee.Offset() < 0 {
		return err.Error()
	}

	off := min(ee.Offset(), len(src))

	line, col, start := 1, 1, 0
	for i := range off {
		if src[i] == '\n' {
			line++
			col = 1
			start = i + 1
		} else {
			col++
		}
	}

	end := strings.IndexByte(src[start:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += start
	}

	num := strconv.Itoa(line)

	var b strings.Builder

	b.WriteString(ee.Error())
	b.WriteString("\n  ")
	b.WriteString(num)
	b.WriteString(" | ")
	b.WriteString(src[start:end])
	b.WriteString("\n  ")
	b.WriteString(strings.Repeat(" ", len(num)+3+col-1))
	b.WriteString("^")

	return b.String()
}
