package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/vscript/log"
	"github.com/ardnew/vscript/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(fileAttr(confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalContext(ctx, configValues(ktx),
		yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.With(fileAttr(confPath)).Wrap(err)
	}

	if err := os.MkdirAll(filepath.Dir(confPath), 0o755); err != nil {
		return ErrWriteConfig.With(fileAttr(confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o644); err != nil {
		return ErrWriteConfig.With(fileAttr(confPath)).Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
		slog.Int("keys", len(configValues(ktx))),
	)

	return nil
}

// configValues collects the current value of every global flag in
// declaration order, omitting empty values. Command flags are not written.
func configValues(ktx *kong.Context) yaml.MapSlice {
	ignore := []string{"help", profile.Tag}

	var out yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v, ok := configValue(ktx.FlagValue(flag)); ok {
			out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return out
}

// configValue normalizes a flag value for YAML output.
func configValue(val any) (any, bool) {
	switch v := val.(type) {
	case nil:
		return nil, false
	case string:
		return v, v != ""
	case []string:
		return v, len(v) > 0
	case map[string]string:
		return v, len(v) > 0
	case bool, int, int64, uint, uint64, float64:
		return v, true
	default:
		if s, ok := v.(interface{ String() string }); ok {
			str := s.String()

			return str, str != ""
		}

		return v, true
	}
}
