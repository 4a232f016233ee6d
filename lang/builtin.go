package lang

import (
	"context"
	"iter"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Variadic marks a [Builtin] that accepts any number of arguments from
// MinArgs upward.
const Variadic = -1

// Builtin describes a function callable from expressions.
type Builtin struct {
	fn      func(*call) (Value, error)
	Name    string
	Doc     string
	Params  []string // parameter names, for signature hints
	MinArgs int
	MaxArgs int // or Variadic
}

// Arity renders the accepted argument counts, e.g. "[1]" or "[0,1]".
func (b *Builtin) Arity() string {
	switch {
	case b.MaxArgs == Variadic:
		return "[" + strconv.Itoa(b.MinArgs) + ",...]"
	case b.MinArgs == b.MaxArgs:
		return "[" + strconv.Itoa(b.MinArgs) + "]"
	default:
		return "[" + strconv.Itoa(b.MinArgs) + "," + strconv.Itoa(b.MaxArgs) + "]"
	}
}

// Signature renders the call form, e.g. "days_in_month([offset])".
func (b *Builtin) Signature() string {
	params := make([]string, len(b.Params))

	for i, p := range b.Params {
		switch {
		case b.MaxArgs == Variadic && i == len(b.Params)-1:
			params[i] = p + "..."
		case i >= b.MinArgs:
			params[i] = "[" + p + "]"
		default:
			params[i] = p
		}
	}

	return b.Name + "(" + strings.Join(params, ", ") + ")"
}

// accepts reports whether n arguments are within the arity range.
func (b *Builtin) accepts(n int) bool {
	return n >= b.MinArgs && (b.MaxArgs == Variadic || n <= b.MaxArgs)
}

// call carries the evaluated arguments and environment of one invocation.
type call struct {
	ctx   context.Context
	clock Clock
	name  string
	args  []Value
}

// number returns argument i as a float64. Booleans are rejected.
func (c *call) number(i int) (float64, error) {
	f, ok := c.args[i].numericOperand()
	if !ok {
		return 0, typeError(c.name, c.args[i]).With(slog.Int("argument", i))
	}

	return f, nil
}

func (c *call) now() time.Time { return c.clock.Now().UTC() }

// builtins is the function registry. It is built once and never modified.
var builtins = sync.OnceValue(func() map[string]*Builtin {
	table := []*Builtin{
		{
			Name: "sqrt", Params: []string{"x"}, MinArgs: 1, MaxArgs: 1,
			Doc: "square root of x",
			fn:  fnSqrt,
		},
		{
			Name: "now", MinArgs: 0, MaxArgs: 0,
			Doc: "current instant in milliseconds since the epoch",
			fn:  func(c *call) (Value, error) { return Millis(c.now().UnixMilli()), nil },
		},
		{
			Name: "day", MinArgs: 0, MaxArgs: 0,
			Doc: "day of the month of the current instant",
			fn:  func(c *call) (Value, error) { return Int(c.now().Day()), nil },
		},
		{
			Name: "month", MinArgs: 0, MaxArgs: 0,
			Doc: "month (1-12) of the current instant",
			fn:  func(c *call) (Value, error) { return Int(int(c.now().Month())), nil },
		},
		{
			Name: "year", MinArgs: 0, MaxArgs: 0,
			Doc: "calendar year of the current instant",
			fn:  func(c *call) (Value, error) { return Int(c.now().Year()), nil },
		},
		{
			Name: "days_in_month", Params: []string{"offset"}, MinArgs: 0, MaxArgs: 1,
			Doc: "days in the current month, or the month offset months away",
			fn:  fnDaysInMonth,
		},
		{
			Name: "iso", Params: []string{"date"}, MinArgs: 1, MaxArgs: 1,
			Doc: "milliseconds since the epoch of an ISO-8601 date",
			fn:  fnISO,
		},
		{
			Name: "days_before_now", Params: []string{"instant"}, MinArgs: 1, MaxArgs: 1,
			Doc: "whole days from instant until now",
			fn:  func(c *call) (Value, error) { return c.elapsed(msPerDay) },
		},
		{
			Name: "hours_before_now", Params: []string{"instant"}, MinArgs: 1, MaxArgs: 1,
			Doc: "whole hours from instant until now",
			fn:  func(c *call) (Value, error) { return c.elapsed(msPerHour) },
		},
		{
			Name: "abs", Params: []string{"x"}, MinArgs: 1, MaxArgs: 1,
			Doc: "absolute value of x",
			fn:  mathFunc(math.Abs),
		},
		{
			Name: "floor", Params: []string{"x"}, MinArgs: 1, MaxArgs: 1,
			Doc: "greatest integer not above x",
			fn:  mathFunc(math.Floor),
		},
		{
			Name: "ceil", Params: []string{"x"}, MinArgs: 1, MaxArgs: 1,
			Doc: "least integer not below x",
			fn:  mathFunc(math.Ceil),
		},
		{
			Name: "round", Params: []string{"x"}, MinArgs: 1, MaxArgs: 1,
			Doc: "x rounded half away from zero",
			fn:  mathFunc(math.Round),
		},
		{
			Name: "pow", Params: []string{"x", "y"}, MinArgs: 2, MaxArgs: 2,
			Doc: "x raised to the power y",
			fn:  fnPow,
		},
		{
			Name: "min", Params: []string{"x"}, MinArgs: 1, MaxArgs: Variadic,
			Doc: "smallest argument",
			fn:  extremum(func(a, b float64) bool { return b < a }),
		},
		{
			Name: "max", Params: []string{"x"}, MinArgs: 1, MaxArgs: Variadic,
			Doc: "largest argument",
			fn:  extremum(func(a, b float64) bool { return b > a }),
		},
		{
			Name: "len", Params: []string{"s"}, MinArgs: 1, MaxArgs: 1,
			Doc: "number of characters in the text of s",
			fn: func(c *call) (Value, error) {
				return Int(utf8.RuneCountInString(c.args[0].String())), nil
			},
		},
		{
			Name: "upper", Params: []string{"s"}, MinArgs: 1, MaxArgs: 1,
			Doc: "text of s in upper case",
			fn: func(c *call) (Value, error) {
				return Text(strings.ToUpper(c.args[0].String())), nil
			},
		},
		{
			Name: "lower", Params: []string{"s"}, MinArgs: 1, MaxArgs: 1,
			Doc: "text of s in lower case",
			fn: func(c *call) (Value, error) {
				return Text(strings.ToLower(c.args[0].String())), nil
			},
		},
	}

	m := make(map[string]*Builtin, len(table))
	for _, b := range table {
		m[b.Name] = b
	}

	return m
})

// LookupBuiltin returns the built-in function with the given name.
func LookupBuiltin(name string) (*Builtin, bool) {
	b, ok := builtins()[name]

	return b, ok
}

// Builtins returns all built-in functions ordered by name.
func Builtins() iter.Seq[*Builtin] {
	return func(yield func(*Builtin) bool) {
		table := builtins()

		for _, name := range slices.Sorted(maps.Keys(table)) {
			if !yield(table[name]) {
				return
			}
		}
	}
}

func fnSqrt(c *call) (Value, error) {
	x, err := c.number(0)
	if err != nil {
		return Value{}, err
	}

	if x < 0 {
		return Value{}, ErrDomain.
			Msgf("sqrt of negative number %s", formatNumber(x)).
			With(slog.Float64("x", x))
	}

	return Number(math.Sqrt(x)), nil
}

func fnPow(c *call) (Value, error) {
	x, err := c.number(0)
	if err != nil {
		return Value{}, err
	}

	y, err := c.number(1)
	if err != nil {
		return Value{}, err
	}

	return Number(math.Pow(x, y)), nil
}

func mathFunc(fn func(float64) float64) func(*call) (Value, error) {
	return func(c *call) (Value, error) {
		x, err := c.number(0)
		if err != nil {
			return Value{}, err
		}

		return Number(fn(x)), nil
	}
}

// extremum returns a function selecting the argument for which better
// reports true against the running choice.
func extremum(better func(cur, next float64) bool) func(*call) (Value, error) {
	return func(c *call) (Value, error) {
		best, err := c.number(0)
		if err != nil {
			return Value{}, err
		}

		for i := 1; i < len(c.args); i++ {
			x, err := c.number(i)
			if err != nil {
				return Value{}, err
			}

			if better(best, x) {
				best = x
			}
		}

		return Number(best), nil
	}
}
