package lang

import (
	"strconv"
	"strings"
)

// Node is an element of a parsed expression tree.
//
// The set of nodes is closed: NumberLiteral, StringLiteral, BooleanLiteral,
// VariableReference, UnaryOp, BinaryOp, Assignment, and FunctionCall.
// Every node has exactly one parent.
type Node interface {
	// Pos returns the byte offset of the node in the source.
	Pos() int
	// String renders the node as an expression that parses back to an
	// equivalent tree.
	String() string

	node()
}

// Op identifies a unary or binary operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpEq
	OpNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpNeg
	OpNot
)

var opInfo = [...]struct {
	name   string
	symbol string
	prec   int
}{
	OpOr:        {"or", "||", precOr},
	OpAnd:       {"and", "&&", precAnd},
	OpEq:        {"equal", "==", precCompare},
	OpNotEq:     {"not equal", "!=", precCompare},
	OpLess:      {"less", "<", precCompare},
	OpLessEq:    {"less or equal", "<=", precCompare},
	OpGreater:   {"greater", ">", precCompare},
	OpGreaterEq: {"greater or equal", ">=", precCompare},
	OpAdd:       {"add", "+", precAdditive},
	OpSub:       {"subtract", "-", precAdditive},
	OpMul:       {"multiply", "*", precMultiplicative},
	OpDiv:       {"divide", "/", precMultiplicative},
	OpNeg:       {"negate", "-", precUnary},
	OpNot:       {"not", "!", precUnary},
}

// Binding strength, weakest first.
const (
	precAssign = iota + 1
	precOr
	precAnd
	precCompare
	precAdditive
	precMultiplicative
	precUnary
	precPrimary
)

// Name returns the word used for op in diagnostics, e.g. "add".
func (o Op) Name() string {
	if o < 0 || int(o) >= len(opInfo) {
		return "Op(" + strconv.Itoa(int(o)) + ")"
	}

	return opInfo[o].name
}

// Symbol returns the source spelling of op, e.g. "+".
func (o Op) Symbol() string {
	if o < 0 || int(o) >= len(opInfo) {
		return "?"
	}

	return opInfo[o].symbol
}

func (o Op) String() string { return o.Symbol() }

func (o Op) precedence() int { return opInfo[o].prec }

// NumberLiteral is a numeric constant.
type NumberLiteral struct {
	Value  float64
	Offset int
}

// StringLiteral is a double-quoted string constant.
type StringLiteral struct {
	Value  string
	Offset int
}

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Offset int
	Value  bool
}

// VariableReference reads a binding from the store.
type VariableReference struct {
	Name   string
	Offset int
}

// UnaryOp applies OpNeg or OpNot to its operand.
type UnaryOp struct {
	Operand Node
	Offset  int
	Op      Op
}

// BinaryOp combines two operands.
type BinaryOp struct {
	Left   Node
	Right  Node
	Offset int
	Op     Op
}

// Assignment writes the value of its right side to the store.
// Target is a *VariableReference, or a *BooleanLiteral which fails when
// evaluated.
type Assignment struct {
	Target Node
	Value  Node
	Offset int
}

// FunctionCall invokes a built-in function.
type FunctionCall struct {
	Name   string
	Args   []Node
	Offset int
}

func (n *NumberLiteral) Pos() int     { return n.Offset }
func (n *StringLiteral) Pos() int     { return n.Offset }
func (n *BooleanLiteral) Pos() int    { return n.Offset }
func (n *VariableReference) Pos() int { return n.Offset }
func (n *UnaryOp) Pos() int           { return n.Offset }
func (n *BinaryOp) Pos() int          { return n.Offset }
func (n *Assignment) Pos() int        { return n.Offset }
func (n *FunctionCall) Pos() int      { return n.Offset }

func (*NumberLiteral) node()     {}
func (*StringLiteral) node()     {}
func (*BooleanLiteral) node()    {}
func (*VariableReference) node() {}
func (*UnaryOp) node()           {}
func (*BinaryOp) node()          {}
func (*Assignment) node()        {}
func (*FunctionCall) node()      {}

func (n *NumberLiteral) String() string     { return formatNumber(n.Value) }
func (n *StringLiteral) String() string     { return `"` + n.Value + `"` }
func (n *BooleanLiteral) String() string    { return strconv.FormatBool(n.Value) }
func (n *VariableReference) String() string { return n.Name }

func (n *UnaryOp) String() string {
	return n.Op.Symbol() + wrap(n.Operand, precUnary, false)
}

func (n *BinaryOp) String() string {
	p := n.Op.precedence()

	return wrap(n.Left, p, false) + " " + n.Op.Symbol() + " " + wrap(n.Right, p, true)
}

func (n *Assignment) String() string {
	return n.Target.String() + " = " + n.Value.String()
}

func (n *FunctionCall) String() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.String()
	}

	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

// wrap renders child, parenthesized when it binds looser than the parent.
// Right operands of equal precedence are parenthesized because every binary
// operator is left-associative.
func wrap(child Node, parent int, right bool) string {
	p := precedenceOf(child)
	if p < parent || (right && p == parent && p != precUnary) {
		return "(" + child.String() + ")"
	}

	return child.String()
}

func precedenceOf(n Node) int {
	switch n := n.(type) {
	case *Assignment:
		return precAssign
	case *BinaryOp:
		return n.Op.precedence()
	case *UnaryOp:
		return precUnary
	default:
		return precPrimary
	}
}

// Walk calls fn for n and each of its descendants in depth-first order,
// stopping early when fn returns false.
func Walk(n Node, fn func(Node) bool) bool {
	if !fn(n) {
		return false
	}

	switch n := n.(type) {
	case *UnaryOp:
		return Walk(n.Operand, fn)
	case *BinaryOp:
		return Walk(n.Left, fn) && Walk(n.Right, fn)
	case *Assignment:
		return Walk(n.Target, fn) && Walk(n.Value, fn)
	case *FunctionCall:
		for _, arg := range n.Args {
			if !Walk(arg, fn) {
				return false
			}
		}
	}

	return true
}

// Variables returns the distinct variable names n reads or assigns, in order
// of first appearance.
func Variables(n Node) []string {
	var names []string

	seen := map[string]bool{}

	Walk(n, func(n Node) bool {
		if v, ok := n.(*VariableReference); ok && !seen[v.Name] {
			seen[v.Name] = true
			names = append(names, v.Name)
		}

		return true
	})

	return names
}
