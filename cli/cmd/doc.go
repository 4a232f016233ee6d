// Package cmd implements the vscript subcommands: eval, fmt, tokens, funcs,
// repl, init and version.
//
// Every evaluating command shares the global [Bindings] flags, retrieved from
// the context installed by [WithBindings]. Results are written to the writer
// installed by [WithStdout] so that commands can be exercised in tests
// without touching the process streams.
package cmd
