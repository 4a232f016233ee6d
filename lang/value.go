package lang

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a [Value] holds.
type Kind uint8

const (
	KindNumeric Kind = iota
	KindBoolean
	KindString
)

// String returns the variant name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "Numeric"
	case KindBoolean:
		return "Boolean"
	case KindString:
		return "String"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the dynamically-typed result of evaluating an expression.
// It holds exactly one of a float64, a bool, or a string, selected by kind.
// The zero Value is Numeric 0.
type Value struct {
	str  string
	num  float64
	kind Kind
	b    bool
}

// Number returns a Numeric value.
func Number(f float64) Value { return Value{kind: KindNumeric, num: f} }

// Int returns a Numeric value holding i.
func Int(i int) Value { return Number(float64(i)) }

// Int64 returns a Numeric value holding i.
func Int64(i int64) Value { return Number(float64(i)) }

// Millis returns a Numeric value holding a timestamp in milliseconds since the
// Unix epoch.
func Millis(ms int64) Value { return Int64(ms) }

// Text returns a String value.
func Text(s string) Value { return Value{kind: KindString, str: s} }

// Bool returns a Boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// ValueOf converts a host-native Go value into a Value.
//
// Integers and floats become Numeric, bool becomes Boolean, strings and
// [fmt.Stringer] become String, and [time.Time] becomes its epoch milliseconds.
func ValueOf(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case float64:
		return Number(x), nil
	case float32:
		return Number(float64(x)), nil
	case int:
		return Int(x), nil
	case int8:
		return Int64(int64(x)), nil
	case int16:
		return Int64(int64(x)), nil
	case int32:
		return Int64(int64(x)), nil
	case int64:
		return Int64(x), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case bool:
		return Bool(x), nil
	case string:
		return Text(x), nil
	case time.Time:
		return Millis(x.UnixMilli()), nil
	case fmt.Stringer:
		return Text(x.String()), nil
	default:
		return Value{}, ErrType.
			Msgf("cannot convert %T to a value", v).
			With(slog.String("type", fmt.Sprintf("%T", v)))
	}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNumeric reports whether v holds the Numeric variant.
func (v Value) IsNumeric() bool { return v.kind == KindNumeric }

// IsBoolean reports whether v holds the Boolean variant.
func (v Value) IsBoolean() bool { return v.kind == KindBoolean }

// IsString reports whether v holds the String variant.
func (v Value) IsString() bool { return v.kind == KindString }

// Numeric returns v as a float64.
//
// Strings are parsed as decimal numbers and fail with [ErrType] when they do
// not parse. Booleans convert to 1 or 0.
func (v Value) Numeric() (float64, error) {
	switch v.kind {
	case KindNumeric:
		return v.num, nil
	case KindBoolean:
		if v.b {
			return 1, nil
		}

		return 0, nil
	default:
		f, ok := parseDecimal(v.str)
		if !ok {
			return 0, ErrType.
				Msgf("cannot convert %s to Numeric", v.Describe()).
				With(slog.String("operand", v.Describe()))
		}

		return f, nil
	}
}

// Boolean returns v as a bool. Only the Boolean variant converts.
func (v Value) Boolean() (bool, error) {
	if v.kind != KindBoolean {
		return false, ErrType.
			Msgf("cannot convert %s to Boolean", v.Describe()).
			With(slog.String("operand", v.Describe()))
	}

	return v.b, nil
}

// String returns the canonical textual form of v.
func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.str
	default:
		return formatNumber(v.num)
	}
}

// Describe renders v with its variant for diagnostics, for example
// "[Boolean Variant of true]".
func (v Value) Describe() string {
	return "[" + v.kind.String() + " Variant of " + v.String() + "]"
}

// Any returns the Go value held by v: float64, bool, or string.
func (v Value) Any() any {
	switch v.kind {
	case KindBoolean:
		return v.b
	case KindString:
		return v.str
	default:
		return v.num
	}
}

// Equal reports whether v and w hold the same variant and payload.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}

	switch v.kind {
	case KindBoolean:
		return v.b == w.b
	case KindString:
		return v.str == w.str
	default:
		return v.num == w.num
	}
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value { return slog.AnyValue(v.Any()) }

// MarshalYAML renders v as its native scalar.
func (v Value) MarshalYAML() (any, error) { return v.nativeScalar(), nil }

// MarshalJSON renders v as its native scalar.
func (v Value) MarshalJSON() ([]byte, error) { return json.Marshal(v.nativeScalar()) }

// nativeScalar returns Any with integral numbers narrowed to int64 and
// non-finite numbers rendered as text, both of which encoders handle
// consistently.
func (v Value) nativeScalar() any {
	if v.kind != KindNumeric {
		return v.Any()
	}

	switch {
	case math.IsNaN(v.num) || math.IsInf(v.num, 0):
		return formatNumber(v.num)
	case v.num == math.Trunc(v.num) && math.Abs(v.num) < 1<<53:
		return int64(v.num)
	default:
		return v.num
	}
}

// numericOperand reports v as a number for arithmetic and comparison.
// Booleans never qualify.
func (v Value) numericOperand() (float64, bool) {
	switch v.kind {
	case KindNumeric:
		return v.num, true
	case KindString:
		return parseDecimal(v.str)
	default:
		return 0, false
	}
}

// parseDecimal parses s as a plain decimal number. Hexadecimal, infinities,
// NaN, and digit separators are rejected. Text that overflows float64 is
// still numeric and yields ±Inf.
func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return 0, false
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}

	return f, true
}

func formatNumber(f float64) string {
	switch {
	case f == 0:
		return "0"
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}
