// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured once at creation time using functional options and
// are cheap to copy. The zero [Logger] discards everything.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("evaluated", slog.String("source", src))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// Writing to a size-rotated file instead of a stream:
//
//	logger := log.Make(nil, log.WithRotation(log.Rotation{Path: "vscript.log"}))
//	defer logger.Close()
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Trace sits below Debug and is used for
// per-node evaluation detail.
//
// # Package Logger
//
// The package-level functions write through a default logger on stderr that
// [Config] reconfigures in place. Context-unaware functions use
// [DefaultContextProvider], which returns [context.TODO] by default.
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText] are supported, each in a plain and
// a colorized pretty variant selected by [WithPretty]. Attributes that
// implement [slog.LogValuer] are resolved, and groups are rendered as dotted
// keys in text and nested objects in JSON.
package log
