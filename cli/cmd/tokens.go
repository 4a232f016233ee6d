package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/ardnew/vscript/lang"
)

// Tokens prints the token stream of an expression.
type Tokens struct {
	Expr []string `arg:"" help:"Expression to tokenize; multiple arguments are joined with spaces, '-' reads stdin." name:"expr"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	src := strings.Join(t.Expr, " ")

	if src == stdinSource {
		data, err := io.ReadAll(Stdin(ctx))
		if err != nil {
			return lang.ErrReadInput.Wrap(err).With(slog.String("command", "tokens"))
		}

		src = string(data)
	}

	tw := tabwriter.NewWriter(Stdout(ctx), 0, 4, 2, ' ', 0)

	for tok, err := range lang.Tokenize(src) {
		if err != nil {
			tw.Flush()

			return lang.WrapError(err).With(
				slog.String("command", "tokens"),
				slog.String("expr", src),
			)
		}

		if tok.Kind == lang.TokenEOF {
			break
		}

		fmt.Fprintf(tw, "%d\t%s\t%q\n", tok.Pos, tok.Kind, tok.Text)
	}

	if err := tw.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
