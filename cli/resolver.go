package cli

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML configuration
// files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Each top-level key names a flag. Keys may spell word separators with
// either hyphens or underscores:
//
//	log-level: debug
//	log_format: text
//	log-pretty: false
//	vars: [prices.yaml, ./local.json]
//	var: {tax: 0.0825}
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug --log-format=text --no-log-pretty
//	--vars=prices.yaml,./local.json --var=tax=0.0825
//
// Command-line flags override config file values. A file that is empty or not
// a mapping resolves nothing.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var raw map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &raw)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return config{}, nil
			}

			return nil, err
		}

		cfg := make(config, len(raw))
		for key, val := range raw {
			cfg[strings.ReplaceAll(key, "_", "-")] = flagValue(val)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found; return nil to let Kong use defaults.
	return nil, nil
}

// flagValue converts a decoded YAML value to a form Kong's mappers accept.
// Kong requires numbers as strings for parsing.
func flagValue(v any) any {
	switch v := v.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = flagValue(e)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			if b, ok := e.(bool); ok {
				out[k] = strconv.FormatBool(b)
			} else {
				out[k] = flagValue(e)
			}
		}

		return out
	default:
		return v
	}
}
