package lang

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// Exec evaluates the tree rooted at n against store.
//
// A nil store is replaced by an empty, ephemeral [MapStore]. The clock is the
// one given with [WithClock], or else the process-wide provider.
func Exec(ctx context.Context, n Node, store Store, opts ...Option) (Value, error) {
	return makeConfig(opts...).exec(ctx, n, n.String(), store)
}

// exec evaluates n, which was parsed from src.
func (c config) exec(
	ctx context.Context,
	n Node,
	src string,
	store Store,
) (result Value, err error) {
	ctx, span := c.startSpan(ctx, SpanEvaluate, sourceAttrs(src)...)
	defer func() { endSpan(span, err) }()

	if store == nil {
		store = make(MapStore)
	}

	if c.clock == nil {
		c.clock = defaultClock()
	}

	e := &evalContext{ctx: ctx, store: store, config: c}

	result, err = e.eval(n)
	if err != nil {
		c.logger.DebugContext(ctx, "evaluate failed", slog.Any("error", err))

		return Value{}, err
	}

	span.SetAttributes(attribute.String("vscript.result.kind", result.Kind().String()))

	c.logger.TraceContext(ctx, "evaluate complete",
		slog.String("kind", result.Kind().String()),
		slog.Any("result", result))

	return result, nil
}

// evalContext holds the state of one evaluation.
type evalContext struct {
	ctx   context.Context
	store Store
	config
}

// eval evaluates n and its children depth first, left to right.
func (e *evalContext) eval(n Node) (Value, error) {
	switch n := n.(type) {
	case *NumberLiteral:
		return Number(n.Value), nil

	case *StringLiteral:
		return Text(n.Value), nil

	case *BooleanLiteral:
		return Bool(n.Value), nil

	case *VariableReference:
		v, ok := e.store.Get(n.Name)
		if !ok {
			return Value{}, ErrUnboundVariable.
				Msgf("unbound variable %q", n.Name).
				With(slog.String("name", n.Name), slog.Int("offset", n.Offset))
		}

		return v, nil

	case *UnaryOp:
		v, err := e.eval(n.Operand)
		if err != nil {
			return Value{}, err
		}

		return unary(n.Op, v)

	case *BinaryOp:
		l, err := e.eval(n.Left)
		if err != nil {
			return Value{}, err
		}

		r, err := e.eval(n.Right)
		if err != nil {
			return Value{}, err
		}

		return binary(n.Op, l, r)

	case *Assignment:
		return e.assign(n)

	case *FunctionCall:
		return e.call(n)

	default:
		return Value{}, ErrType.Msgf("unsupported node %T", n)
	}
}

func (e *evalContext) assign(n *Assignment) (Value, error) {
	target, ok := n.Target.(*VariableReference)
	if !ok {
		return Value{}, ErrAssignmentTarget.
			Msgf("cannot assign to %s", n.Target).
			With(slog.String("target", n.Target.String()), slog.Int("offset", n.Offset))
	}

	v, err := e.eval(n.Value)
	if err != nil {
		return Value{}, err
	}

	e.store.Set(target.Name, v)

	return v, nil
}

func (e *evalContext) call(n *FunctionCall) (Value, error) {
	b, ok := LookupBuiltin(n.Name)
	if !ok {
		return Value{}, ErrUnknownFunction.
			Msgf("unknown function %q", n.Name).
			With(slog.String("name", n.Name), slog.Int("offset", n.Offset))
	}

	if !b.accepts(len(n.Args)) {
		return Value{}, ErrArity.
			Msgf("%s expects %s arguments, got %d", n.Name, b.Arity(), len(n.Args)).
			With(
				slog.String("name", n.Name),
				slog.String("arity", b.Arity()),
				slog.Int("got", len(n.Args)),
			)
	}

	if err := context.Cause(e.ctx); err != nil {
		return Value{}, err
	}

	args := make([]Value, len(n.Args))

	for i, arg := range n.Args {
		v, err := e.eval(arg)
		if err != nil {
			return Value{}, err
		}

		args[i] = v
	}

	e.logger.TraceContext(e.ctx, "call",
		slog.String("name", n.Name),
		slog.Int("args", len(args)))

	return b.fn(&call{ctx: e.ctx, clock: e.clock, name: n.Name, args: args})
}

func unary(op Op, v Value) (Value, error) {
	switch op {
	case OpNeg:
		f, ok := v.numericOperand()
		if !ok {
			return Value{}, typeError(op.Name(), v)
		}

		return Number(-f), nil

	case OpNot:
		if !v.IsBoolean() {
			return Value{}, typeError(op.Name(), v)
		}

		return Bool(!v.b), nil

	default:
		return Value{}, ErrType.Msgf("%s is not a unary operator", op.Name())
	}
}

func binary(op Op, l, r Value) (Value, error) {
	switch op {
	case OpAdd:
		return add(l, r)
	case OpSub, OpMul, OpDiv:
		return arithmetic(op, l, r)
	case OpAnd, OpOr:
		return logical(op, l, r)
	case OpEq, OpNotEq, OpLess, OpLessEq, OpGreater, OpGreaterEq:
		return compare(op, l, r)
	default:
		return Value{}, ErrType.Msgf("%s is not a binary operator", op.Name())
	}
}

// add is the single rule for "+": Booleans are rejected, two numeric
// operands (including numeric text) are summed, and anything else is
// concatenated as text.
func add(l, r Value) (Value, error) {
	for _, v := range [...]Value{l, r} {
		if v.IsBoolean() {
			return Value{}, typeError(OpAdd.Name(), v)
		}
	}

	a, aok := l.numericOperand()
	b, bok := r.numericOperand()

	if aok && bok {
		return Number(a + b), nil
	}

	return Text(l.String() + r.String()), nil
}

func arithmetic(op Op, l, r Value) (Value, error) {
	a, ok := l.numericOperand()
	if !ok {
		return Value{}, typeError(op.Name(), l)
	}

	b, ok := r.numericOperand()
	if !ok {
		return Value{}, typeError(op.Name(), r)
	}

	switch op {
	case OpSub:
		return Number(a - b), nil
	case OpMul:
		return Number(a * b), nil
	default:
		return Number(a / b), nil
	}
}

func logical(op Op, l, r Value) (Value, error) {
	for _, v := range [...]Value{l, r} {
		if !v.IsBoolean() {
			return Value{}, typeError(op.Name(), v)
		}
	}

	if op == OpAnd {
		return Bool(l.b && r.b), nil
	}

	return Bool(l.b || r.b), nil
}

// compare orders numeric operands numerically and text lexically. Booleans
// only support equality with other Booleans. Numeric comparison follows
// IEEE-754, so NaN is unordered and only != holds for it.
func compare(op Op, l, r Value) (Value, error) {
	var c int

	a, aok := l.numericOperand()
	b, bok := r.numericOperand()

	switch {
	case aok && bok:
		return compareNumbers(op, a, b), nil

	case l.IsBoolean() && r.IsBoolean() && (op == OpEq || op == OpNotEq):
		if l.b != r.b {
			c = 1
		}

	case l.IsBoolean():
		return Value{}, typeError(op.Name(), l)

	case r.IsBoolean():
		return Value{}, typeError(op.Name(), r)

	default:
		c = strings.Compare(l.String(), r.String())
	}

	switch op {
	case OpEq:
		return Bool(c == 0), nil
	case OpNotEq:
		return Bool(c != 0), nil
	case OpLess:
		return Bool(c < 0), nil
	case OpLessEq:
		return Bool(c <= 0), nil
	case OpGreater:
		return Bool(c > 0), nil
	default:
		return Bool(c >= 0), nil
	}
}

func compareNumbers(op Op, a, b float64) Value {
	switch op {
	case OpEq:
		return Bool(a == b)
	case OpNotEq:
		return Bool(a != b)
	case OpLess:
		return Bool(a < b)
	case OpLessEq:
		return Bool(a <= b)
	case OpGreater:
		return Bool(a > b)
	default:
		return Bool(a >= b)
	}
}
