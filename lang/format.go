package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// TreeNode is the structured form of a [Node] used when rendering a parsed
// expression as YAML or JSON.
type TreeNode struct {
	Value   *Value      `json:"value,omitempty"   yaml:"value,omitempty"`
	Operand *TreeNode   `json:"operand,omitempty" yaml:"operand,omitempty"`
	Left    *TreeNode   `json:"left,omitempty"    yaml:"left,omitempty"`
	Right   *TreeNode   `json:"right,omitempty"   yaml:"right,omitempty"`
	Target  *TreeNode   `json:"target,omitempty"  yaml:"target,omitempty"`
	Expr    *TreeNode   `json:"expr,omitempty"    yaml:"expr,omitempty"`
	Type    string      `json:"type"              yaml:"type"`
	Op      string      `json:"op,omitempty"      yaml:"op,omitempty"`
	Name    string      `json:"name,omitempty"    yaml:"name,omitempty"`
	Args    []*TreeNode `json:"args,omitempty"    yaml:"args,omitempty"`
	Pos     int         `json:"pos"               yaml:"pos"`
}

// Tree converts n into its structured form.
func Tree(n Node) *TreeNode {
	t := &TreeNode{Pos: n.Pos()}

	switch n := n.(type) {
	case *NumberLiteral:
		v := Number(n.Value)
		t.Type, t.Value = "number", &v
	case *StringLiteral:
		v := Text(n.Value)
		t.Type, t.Value = "string", &v
	case *BooleanLiteral:
		v := Bool(n.Value)
		t.Type, t.Value = "boolean", &v
	case *VariableReference:
		t.Type, t.Name = "variable", n.Name
	case *UnaryOp:
		t.Type, t.Op, t.Operand = "unary", n.Op.Name(), Tree(n.Operand)
	case *BinaryOp:
		t.Type, t.Op = "binary", n.Op.Name()
		t.Left, t.Right = Tree(n.Left), Tree(n.Right)
	case *Assignment:
		t.Type, t.Target, t.Expr = "assign", Tree(n.Target), Tree(n.Value)
	case *FunctionCall:
		t.Type, t.Name = "call", n.Name
		for _, arg := range n.Args {
			t.Args = append(t.Args, Tree(arg))
		}
	}

	return t
}

// FormatYAML writes the structured form of n as YAML.
func FormatYAML(ctx context.Context, w io.Writer, n Node, indent int) error {
	return EncodeYAML(ctx, w, Tree(n), indent)
}

// FormatJSON writes the structured form of n as JSON.
func FormatJSON(w io.Writer, n Node, indent int) error {
	return EncodeJSON(w, Tree(n), indent)
}

// EncodeYAML writes v as YAML. An indent of zero or less selects flow style.
func EncodeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// EncodeJSON writes v as JSON followed by a newline. An indent of zero or
// less writes compact JSON.
func EncodeJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}
