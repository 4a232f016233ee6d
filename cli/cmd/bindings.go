package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/vscript/lang"
	"github.com/ardnew/vscript/log"
)

// Bindings holds the global flags that seed the variable store and fix the
// clock of every evaluating command.
type Bindings struct {
	Vars []string          `help:"YAML or JSON binding file(s), or '-' for stdin." name:"vars" placeholder:"FILE" sep:","`
	Var  map[string]string `help:"Bind a variable (repeatable)."                   name:"var"  placeholder:"KEY=VALUE"`
	Now  string            `help:"Fix the current instant (RFC3339 or epoch ms)."  name:"now"`
}

// Store loads the binding files in order, then applies --var bindings, into a
// new store. Later bindings replace earlier ones.
func (b *Bindings) Store(ctx context.Context) (lang.MapStore, error) {
	store := make(lang.MapStore)

	files, err := resolveBindingFiles(ctx, b.Vars)
	if err != nil {
		return nil, err
	}
	defer closeAll(files)

	for _, file := range files {
		n, err := loadBindings(ctx, store, file)
		if err != nil {
			return nil, err
		}

		log.DebugContext(ctx, "bindings loaded",
			fileAttr(file.name), slog.Int("count", n))
	}

	for _, key := range slices.Sorted(maps.Keys(b.Var)) {
		if err := validKey(key); err != nil {
			return nil, err
		}

		store.Set(key, scalarValue(b.Var[key]))
	}

	return store, nil
}

// Options returns the evaluation options implied by the flags: the fixed
// clock of --now, if any, and the default logger.
func (b *Bindings) Options() ([]lang.Option, error) {
	opts := []lang.Option{lang.WithLogger(log.Default())}

	if strings.TrimSpace(b.Now) == "" {
		return opts, nil
	}

	ms, err := parseInstant(b.Now)
	if err != nil {
		return nil, ErrInvalidNow.Wrap(err).With(slog.String("now", b.Now))
	}

	return append(opts, lang.WithClock(lang.FixedClock(ms))), nil
}

// parseInstant accepts epoch milliseconds or an ISO-8601 date-time.
func parseInstant(s string) (int64, error) {
	s = strings.TrimSpace(s)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}

	t, err := lang.ParseISO(s)
	if err != nil {
		return 0, err
	}

	return t.UnixMilli(), nil
}

// loadBindings decodes one YAML or JSON mapping into store and returns the
// number of keys bound. Nested mappings flatten into dotted keys.
func loadBindings(ctx context.Context, store lang.Store, file bindingFile) (int, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return 0, ErrReadBindings.Wrap(err).With(fileAttr(file.name))
	}

	var doc map[string]any

	if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
		return 0, ErrReadBindings.Wrap(err).With(fileAttr(file.name))
	}

	flat := make(map[string]any)

	if err := flatten(flat, "", doc); err != nil {
		return 0, ErrInvalidBinding.Wrap(err).With(fileAttr(file.name))
	}

	for key, raw := range flat {
		if err := validKey(key); err != nil {
			return 0, err.With(fileAttr(file.name))
		}

		v, err := lang.ValueOf(raw)
		if err != nil {
			return 0, ErrInvalidBinding.Wrap(err).
				With(fileAttr(file.name), slog.String("key", key))
		}

		store.Set(key, v)
	}

	return len(flat), nil
}

// flatten copies the scalars of doc into dst, joining nested mapping keys
// with dots. Sequences and nulls have no value representation.
func flatten(dst map[string]any, prefix string, doc map[string]any) error {
	for key, raw := range doc {
		if prefix != "" {
			key = prefix + "." + key
		}

		switch v := raw.(type) {
		case map[string]any:
			if err := flatten(dst, key, v); err != nil {
				return err
			}

		case nil:
			return fmt.Errorf("%s: null has no value", key)

		case []any:
			return fmt.Errorf("%s: sequences are not supported", key)

		default:
			dst[key] = v
		}
	}

	return nil
}

// validKey reports an error unless key can be referenced from an expression.
func validKey(key string) *Error {
	if key == "" || key == "true" || key == "false" {
		return ErrInvalidBinding.With(slog.String("key", key))
	}

	for tok, err := range lang.Tokenize(key) {
		if err != nil || (tok.Kind != lang.TokenIdent && tok.Kind != lang.TokenEOF) ||
			(tok.Kind == lang.TokenIdent && tok.Text != key) {
			return ErrInvalidBinding.With(slog.String("key", key))
		}
	}

	return nil
}

// scalarValue infers the value of a --var binding the way a YAML scalar is
// typed: numbers and booleans keep their kind, anything else is text.
func scalarValue(s string) lang.Value {
	var raw any

	if err := yaml.Unmarshal([]byte(s), &raw); err == nil {
		switch raw.(type) {
		case uint64, int64, int, float64, bool:
			if v, err := lang.ValueOf(raw); err == nil {
				return v
			}
		}
	}

	return lang.Text(s)
}

// decodeBindings reads one binding document into a new store.
func decodeBindings(ctx context.Context, r io.Reader) (lang.MapStore, error) {
	store := make(lang.MapStore)

	file := bindingFile{ReadCloser: io.NopCloser(r), name: "<edit>"}
	if _, err := loadBindings(ctx, store, file); err != nil {
		return nil, err
	}

	return store, nil
}
