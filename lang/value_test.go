package lang

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"integral", Int(3), "3"},
		{"integral from float", Number(3.0), "3"},
		{"negative", Number(-6), "-6"},
		{"fraction", Number(2.5), "2.5"},
		{"small fraction", Number(0.1), "0.1"},
		{"negative zero", Number(math.Copysign(0, -1)), "0"},
		{"large", Number(1e21), "1e+21"},
		{"millis", Millis(1265391075000), "1265391075000"},
		{"infinity", Number(math.Inf(1)), "+Inf"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"text", Text("hello"), "hello"},
		{"zero value", Value{}, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestValue_Predicates(t *testing.T) {
	t.Parallel()

	assert.True(t, Int(1).IsNumeric())
	assert.False(t, Int(1).IsBoolean())
	assert.True(t, Bool(true).IsBoolean())
	assert.True(t, Text("x").IsString())
	assert.True(t, Value{}.IsNumeric())
	assert.Equal(t, KindString, Text("x").Kind())
	assert.Equal(t, "Boolean", KindBoolean.String())
}

func TestValue_Numeric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   Value
		want    float64
		wantErr bool
	}{
		{"numeric", Number(1.5), 1.5, false},
		{"decimal text", Text("2"), 2, false},
		{"padded text", Text(" 2.5 "), 2.5, false},
		{"exponent text", Text("1e3"), 1000, false},
		{"negative text", Text("-4"), -4, false},
		{"true", Bool(true), 1, false},
		{"false", Bool(false), 0, false},
		{"word", Text("abc"), 0, true},
		{"empty", Text(""), 0, true},
		{"hex", Text("0x10"), 0, true},
		{"nan", Text("NaN"), 0, true},
		{"infinity", Text("Inf"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.value.Numeric()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrType)

				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestValue_Boolean(t *testing.T) {
	t.Parallel()

	b, err := Bool(true).Boolean()
	require.NoError(t, err)
	assert.True(t, b)

	for _, v := range []Value{Int(1), Text("true"), Value{}} {
		_, err := v.Boolean()
		require.ErrorIs(t, err, ErrType, "value %s", v.Describe())
	}
}

func TestValue_Describe(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[Boolean Variant of true]", Bool(true).Describe())
	assert.Equal(t, "[Numeric Variant of 3]", Int(3).Describe())
	assert.Equal(t, "[String Variant of a b]", Text("a b").Describe())
}

func TestValue_Equal(t *testing.T) {
	t.Parallel()

	assert.True(t, Int(3).Equal(Number(3)))
	assert.False(t, Int(3).Equal(Text("3")))
	assert.False(t, Bool(true).Equal(Bool(false)))
	assert.True(t, Text("a").Equal(Text("a")))
}

type stringer struct{}

func (stringer) String() string { return "stringer" }

func TestValueOf(t *testing.T) {
	t.Parallel()

	at := time.Date(2010, time.February, 5, 17, 31, 15, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"int", 5, Int(5)},
		{"int64", int64(7), Int(7)},
		{"uint8", uint8(9), Int(9)},
		{"float32", float32(0.5), Number(0.5)},
		{"float64", 2.25, Number(2.25)},
		{"bool", true, Bool(true)},
		{"string", "x", Text("x")},
		{"time", at, Millis(1265391075000)},
		{"value", Text("v"), Text("v")},
		{"stringer", stringer{}, Text("stringer")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ValueOf(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got.Describe())
		})
	}

	_, err := ValueOf(struct{}{})
	require.ErrorIs(t, err, ErrType)

	_, err = ValueOf(nil)
	require.ErrorIs(t, err, ErrType)
}

func TestValue_Marshal(t *testing.T) {
	t.Parallel()

	vars := map[string]Value{
		"a": Int(3),
		"b": Number(2.5),
		"c": Bool(true),
		"d": Text("x"),
	}

	data, err := json.Marshal(vars)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":2.5,"c":true,"d":"x"}`, string(data))

	data, err = yaml.Marshal(vars)
	require.NoError(t, err)
	assert.Equal(t, "a: 3\nb: 2.5\nc: true\nd: x\n", string(data))
}
