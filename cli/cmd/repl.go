package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/vscript/cli/cmd/repl"
	"github.com/ardnew/vscript/lang"
	"github.com/ardnew/vscript/log"
)

// Repl starts an interactive session against a persistent store seeded with
// the global bindings.
type Repl struct {
	NoHistory  bool `help:"Do not read or write the history file."`
	PrintStore bool `help:"Print the final variable store as YAML on exit."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
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

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	logger := log.With(slog.String("command", "repl"))

	err = repl.Run(ctx, store, cacheDir, logger,
		repl.WithEvalOptions(opts...),
		repl.WithDecoder(decodeBindings),
	)
	if err != nil {
		return err
	}

	if r.PrintStore {
		if err := lang.EncodeYAML(ctx, Stdout(ctx), store, 2); err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("format", "yaml"))
		}
	}

	return nil
}
