package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/vscript/lang"
)

func TestBindingsStore(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", `
movie:
  price: 7.5
  title: Arrival
  rated: true
qty: 2
`)
	override := writeFile(t, dir, "override.json", `{"qty": 3, "movie": {"price": 9}}`)

	b := &Bindings{
		Vars: []string{base, override},
		Var:  map[string]string{"qty": "4", "name": "Ann", "flag": "false"},
	}

	store, err := b.Store(t.Context())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		key  string
		want lang.Value
	}{
		{"movie.price", lang.Number(9)},
		{"movie.title", lang.Text("Arrival")},
		{"movie.rated", lang.Bool(true)},
		{"qty", lang.Number(4)},
		{"name", lang.Text("Ann")},
		{"flag", lang.Bool(false)},
	}

	for _, tt := range tests {
		got, ok := store.Get(tt.key)
		if !ok {
			t.Errorf("%s is unbound", tt.key)

			continue
		}

		if !got.Equal(tt.want) {
			t.Errorf("%s = %s, want %s", tt.key, got.Describe(), tt.want.Describe())
		}
	}

	if _, ok := store.Get("movie"); ok {
		t.Error("nested mapping should not bind its own key")
	}
}

func TestBindingsStoreStdin(t *testing.T) {
	ctx := WithStdin(t.Context(), strings.NewReader("x: 1\n"))

	store, err := (&Bindings{Vars: []string{"-"}}).Store(ctx)
	if err != nil {
		t.Fatal(err)
	}

	if v, ok := store.Get("x"); !ok || !v.Equal(lang.Number(1)) {
		t.Errorf("x = %v (bound %v), want 1", v, ok)
	}
}

func TestBindingsStoreInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		vars    map[string]string
		want    error
	}{
		{name: "sequence", content: "list: [1, 2]\n", want: ErrInvalidBinding},
		{name: "null", content: "nothing: null\n", want: ErrInvalidBinding},
		{name: "bad_key", content: "\"a b\": 1\n", want: ErrInvalidBinding},
		{name: "keyword_key", content: "\"true\": 1\n", want: ErrInvalidBinding},
		{name: "not_yaml", content: "a: [\n", want: ErrReadBindings},
		{name: "bad_var", vars: map[string]string{"1x": "1"}, want: ErrInvalidBinding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bindings{Var: tt.vars}

			if tt.content != "" {
				b.Vars = []string{writeFile(t, t.TempDir(), "vars.yaml", tt.content)}
			}

			_, err := b.Store(t.Context())
			if !errors.Is(err, tt.want) {
				t.Errorf("Store() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBindingsOptions(t *testing.T) {
	tests := []struct {
		now     string
		wantMs  int64
		fixed   bool
		wantErr bool
	}{
		{now: "", fixed: false},
		{now: "1700000000000", wantMs: 1700000000000, fixed: true},
		{now: "2024-03-01T00:00:00Z", wantMs: 1709251200000, fixed: true},
		{now: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.now, func(t *testing.T) {
			opts, err := (&Bindings{Now: tt.now}).Options()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidNow) {
					t.Errorf("Options() error = %v, want ErrInvalidNow", err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if !tt.fixed {
				return
			}

			eq, err := lang.New(t.Context(), "now()", opts...)
			if err != nil {
				t.Fatal(err)
			}

			v, err := eq.Evaluate(t.Context())
			if err != nil {
				t.Fatal(err)
			}

			if !v.Equal(lang.Int64(tt.wantMs)) {
				t.Errorf("now() = %s, want %d", v, tt.wantMs)
			}
		})
	}
}

func TestValidKey(t *testing.T) {
	valid := []string{"x", "movie.price", "_tmp", "a1.b2"}
	invalid := []string{"", "1x", "a b", "a-b", "true", "false", "x+y", `"s"`}

	for _, key := range valid {
		if err := validKey(key); err != nil {
			t.Errorf("validKey(%q) = %v, want nil", key, err)
		}
	}

	for _, key := range invalid {
		if err := validKey(key); err == nil {
			t.Errorf("validKey(%q) = nil, want error", key)
		}
	}
}

func TestScalarValue(t *testing.T) {
	tests := []struct {
		in   string
		want lang.Value
	}{
		{"42", lang.Number(42)},
		{"-1.5", lang.Number(-1.5)},
		{"true", lang.Bool(true)},
		{"hello", lang.Text("hello")},
		{"", lang.Text("")},
		{"2024-03-01", lang.Text("2024-03-01")},
	}

	for _, tt := range tests {
		if got := scalarValue(tt.in); !got.Equal(tt.want) {
			t.Errorf("scalarValue(%q) = %s, want %s", tt.in, got.Describe(), tt.want.Describe())
		}
	}
}

func TestDecodeBindings(t *testing.T) {
	store, err := decodeBindings(t.Context(), strings.NewReader("a.b: 1\nc: {d: x}\n"))
	if err != nil {
		t.Fatal(err)
	}

	if got := store.Keys(); len(got) != 2 || got[0] != "a.b" || got[1] != "c.d" {
		t.Errorf("Keys() = %v, want [a.b c.d]", got)
	}
}
