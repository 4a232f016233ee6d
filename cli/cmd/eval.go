package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/readahead"

	"github.com/ardnew/vscript/lang"
	"github.com/ardnew/vscript/log"
)

// Eval evaluates expressions in order against one shared store.
type Eval struct {
	Output     string   `default:"text" enum:"text,json,yaml" help:"Result format (${enum})."          short:"o"`
	Expr       []string `arg:""         help:"Expression(s) to evaluate; read from stdin, one per line, if none." name:"expr" optional:""`
	PrintStore bool     `help:"Print the final variable store as YAML."`
}

// result is one evaluated expression, in the structured output formats.
type result struct {
	Expr  string      `json:"expr"  yaml:"expr"`
	Kind  string      `json:"kind"  yaml:"kind"`
	Value *lang.Value `json:"value" yaml:"value"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	bind := bindingsFrom(ctx)

	store, err := bind.Store(ctx)
	if err != nil {
		return err
	}

	opts, err := bind.Options()
	if err != nil {
		return err
	}

	exprs := withErr(slices.Values(e.Expr))
	if len(e.Expr) == 0 {
		exprs = readLines(Stdin(ctx))
	}

	id := uuid.New()
	logger := log.With(slog.String("eval_id", id.String()))
	opts = append(opts, lang.WithLogger(logger))

	w := Stdout(ctx)
	i := 0

	for src, err := range exprs {
		if err != nil {
			return err
		}

		v, err := lang.Eval(ctx, src, store, opts...)
		if err != nil {
			return lang.WrapError(err).With(
				slog.String("command", "eval"),
				slog.String("eval_id", id.String()),
				slog.Int("index", i),
				slog.String("expr", src),
			)
		}

		logger.DebugContext(ctx, "evaluated",
			slog.String("expr", src), slog.Any("value", v))

		if err := e.write(ctx, w, result{Expr: src, Kind: v.Kind().String(), Value: &v}); err != nil {
			return err
		}

		i++
	}

	if i == 0 {
		return ErrNoExpression
	}

	if e.PrintStore {
		if err := lang.EncodeYAML(ctx, w, store, 2); err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("format", "yaml"))
		}
	}

	return nil
}

func (e *Eval) write(ctx context.Context, w io.Writer, r result) error {
	var err error

	switch e.Output {
	case "", "text":
		_, err = fmt.Fprintln(w, r.Value.String())
	case "json":
		err = lang.EncodeJSON(w, r, 0)
	case "yaml":
		// A document per result keeps the stream parseable.
		if _, err = io.WriteString(w, "---\n"); err == nil {
			err = lang.EncodeYAML(ctx, w, r, 2)
		}
	default:
		return ErrOutputFormat.With(slog.String("format", e.Output))
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", e.Output))
	}

	return nil
}

// readLines yields the non-blank lines of r, trimmed, as they arrive. Input is
// read ahead in the background while earlier lines are evaluated. A read
// failure is yielded last with an empty line.
func readLines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ra := readahead.NewReader(r)
		defer ra.Close()

		scanner := bufio.NewScanner(ra)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				if !yield(line, nil) {
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			yield("", lang.ErrReadInput.Wrap(err))
		}
	}
}

// withErr adapts a sequence that cannot fail to the shape of [readLines].
func withErr[T any](seq iter.Seq[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for v := range seq {
			if !yield(v, nil) {
				return
			}
		}
	}
}
