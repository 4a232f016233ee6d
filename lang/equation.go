package lang

import (
	"context"
	"log/slog"
)

// Equation is a parsed expression bound to a clock, ready to be evaluated any
// number of times.
//
// An Equation is immutable after construction. It may be evaluated
// concurrently as long as each evaluation uses its own [Store] (or a store
// that synchronizes itself, such as [SyncStore]).
type Equation struct {
	root Node
	src  string
	cfg  config
}

// New parses src and returns an Equation. Parsing is eager; malformed input
// fails here with [ErrSyntax].
//
// Unless [WithClock] is given, the equation binds the process-wide clock
// provider current at the time of the call.
func New(ctx context.Context, src string, opts ...Option) (*Equation, error) {
	cfg := makeConfig(opts...)
	if cfg.clock == nil {
		cfg.clock = defaultClock()
	}

	root, err := cfg.parse(ctx, src)
	if err != nil {
		return nil, err
	}

	return &Equation{root: root, src: src, cfg: cfg}, nil
}

// MustNew is like [New] but panics if src does not parse.
func MustNew(src string, opts ...Option) *Equation {
	eq, err := New(context.Background(), src, opts...)
	if err != nil {
		panic(err)
	}

	return eq
}

// Evaluate evaluates the equation against a new, empty store that is
// discarded afterward.
func (e *Equation) Evaluate(ctx context.Context) (Value, error) {
	return e.EvaluateStore(ctx, make(MapStore))
}

// EvaluateStore evaluates the equation against store. Assignments write
// through to store.
func (e *Equation) EvaluateStore(ctx context.Context, store Store) (Value, error) {
	e.cfg.logger.TraceContext(ctx, "evaluate",
		slog.String("source", e.src))

	return e.cfg.exec(ctx, e.root, e.src, store)
}

// Eval parses src and evaluates it once against store.
func Eval(ctx context.Context, src string, store Store, opts ...Option) (Value, error) {
	eq, err := New(ctx, src, opts...)
	if err != nil {
		return Value{}, err
	}

	return eq.EvaluateStore(ctx, store)
}

// Node returns the root of the parsed tree, for use with [Exec].
func (e *Equation) Node() Node { return e.root }

// Source returns the text the equation was parsed from.
func (e *Equation) Source() string { return e.src }

// Clock returns the clock bound at construction.
func (e *Equation) Clock() Clock { return e.cfg.clock }

// String returns the canonical form of the parsed expression.
func (e *Equation) String() string { return e.root.String() }
