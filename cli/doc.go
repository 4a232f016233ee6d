// Package cli contains the command line interface for vscript.
//
// # Usage
//
// Expressions given without a subcommand are evaluated in order against one
// shared store, so assignments carry over:
//
//	vscript 'price = 4.5' 'price * qty' --var qty=3
//
// Variables are seeded from YAML or JSON binding files and --var flags.
// Nested mappings flatten into dotted names:
//
//	vscript --vars movie.yaml 'movie.price * 2'
//
// Relative binding file names are searched in the working directory, the
// configuration directory, and then the directories listed in VSCRIPT_PATH.
//
// # Configuration
//
// Flags may be set in <config dir>/vscript/config.yaml (or config.json).
// Each top-level key names a flag, spelled with hyphens or underscores:
//
//	log-level: debug
//	vars: [prices.yaml]
//	now: 2024-03-01T00:00:00Z
//
// The init subcommand writes this file from the current flag values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//   - --log-file: Write logs to a size-rotated file
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o vscript .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/vscript/pprof)
package cli
