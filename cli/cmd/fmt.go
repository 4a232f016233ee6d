package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/vscript/lang"
)

// Fmt parses an expression and prints its tree.
type Fmt struct {
	As        string `default:"infix" enum:"infix,yaml,json" help:"Output form (${enum})."         short:"a"`
	Indent    int    `default:"2"     help:"Indent width for yaml and json; 0 selects compact output." short:"i"`
	Variables bool   `help:"Print only the variables the expression reads or assigns, one per line."`

	Expr []string `arg:"" help:"Expression to format; multiple arguments are joined with spaces, '-' reads stdin." name:"expr"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts, err := bindingsFrom(ctx).Options()
	if err != nil {
		return err
	}

	src := strings.Join(f.Expr, " ")

	var node lang.Node
	if src == stdinSource {
		node, err = lang.ParseReader(ctx, Stdin(ctx), opts...)
	} else {
		node, err = lang.Parse(ctx, src, opts...)
	}

	if err != nil {
		return lang.WrapError(err).With(
			slog.String("command", "fmt"),
			slog.String("expr", src),
		)
	}

	w := Stdout(ctx)

	switch {
	case f.Variables:
		for _, name := range lang.Variables(node) {
			if _, err = fmt.Fprintln(w, name); err != nil {
				break
			}
		}
	case f.As == "" || f.As == "infix":
		_, err = fmt.Fprintln(w, node.String())
	case f.As == "yaml":
		err = lang.FormatYAML(ctx, w, node, f.Indent)
	case f.As == "json":
		err = lang.FormatJSON(w, node, f.Indent)
	default:
		return ErrOutputFormat.With(slog.String("format", f.As))
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", f.As))
	}

	return nil
}
