package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/vscript/lang"
)

// runEval executes e with the given bindings and stdin, returning its output.
func runEval(t *testing.T, e *Eval, b *Bindings, stdin string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	ctx := WithStdout(t.Context(), &out)
	ctx = WithStdin(ctx, strings.NewReader(stdin))
	ctx = WithBindings(ctx, b)

	err := e.Run(ctx)

	return out.String(), err
}

func TestEvalText(t *testing.T) {
	tests := []struct {
		name string
		expr []string
		vars map[string]string
		now  string
		want string
	}{
		{name: "arithmetic", expr: []string{"1 + 2 * 3"}, want: "7\n"},
		{name: "shared_store", expr: []string{"x = 4", "x * x"}, want: "4\n16\n"},
		{name: "var_flag", expr: []string{"qty * 2"}, vars: map[string]string{"qty": "3"}, want: "6\n"},
		{name: "concat", expr: []string{`"n=" + 5`}, want: "n=5\n"},
		{name: "fixed_clock", expr: []string{"year()", "month()"}, now: "2024-03-15T12:00:00Z", want: "2024\n3\n"},
		{name: "boolean", expr: []string{"1 < 2 && !false"}, want: "true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runEval(t, &Eval{Expr: tt.expr}, &Bindings{Var: tt.vars, Now: tt.now}, "")
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEvalStdin(t *testing.T) {
	got, err := runEval(t, &Eval{}, &Bindings{}, "a = 2\n\n  a + 1  \n")
	if err != nil {
		t.Fatal(err)
	}

	if got != "2\n3\n" {
		t.Errorf("output = %q, want %q", got, "2\n3\n")
	}
}

func TestEvalNoExpression(t *testing.T) {
	_, err := runEval(t, &Eval{}, &Bindings{}, "\n  \n")
	if !errors.Is(err, ErrNoExpression) {
		t.Errorf("error = %v, want ErrNoExpression", err)
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want error
	}{
		{name: "syntax", expr: "1 +", want: lang.ErrSyntax},
		{name: "unbound", expr: "missing + 1", want: lang.ErrUnboundVariable},
		{name: "type", expr: "true * 2", want: lang.ErrType},
		{name: "unknown_function", expr: "nope(1)", want: lang.ErrUnknownFunction},
		{name: "arity", expr: "sqrt(1, 2)", want: lang.ErrArity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runEval(t, &Eval{Expr: []string{tt.expr}}, &Bindings{}, "")
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestEvalStopsAtFirstError(t *testing.T) {
	got, err := runEval(t, &Eval{Expr: []string{"1", "bad +", "2"}}, &Bindings{}, "")
	if err == nil {
		t.Fatal("expected error")
	}

	if got != "1\n" {
		t.Errorf("output = %q, want only the first result", got)
	}
}

func TestEvalJSON(t *testing.T) {
	got, err := runEval(t,
		&Eval{Output: "json", Expr: []string{`upper("a")`, "2 > 1"}},
		&Bindings{}, "")
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), got)
	}

	var first struct {
		Expr  string `json:"expr"`
		Kind  string `json:"kind"`
		Value any    `json:"value"`
	}

	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}

	if first.Expr != `upper("a")` || first.Kind != "String" || first.Value != "A" {
		t.Errorf("first = %+v", first)
	}
}

func TestEvalYAML(t *testing.T) {
	got, err := runEval(t, &Eval{Output: "yaml", Expr: []string{"1.5 * 2"}}, &Bindings{}, "")
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Expr  string  `yaml:"expr"`
		Kind  string  `yaml:"kind"`
		Value float64 `yaml:"value"`
	}

	if err := yaml.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatalf("invalid YAML %q: %v", got, err)
	}

	if doc.Kind != "Numeric" || doc.Value != 3 {
		t.Errorf("doc = %+v", doc)
	}
}

func TestEvalPrintStore(t *testing.T) {
	got, err := runEval(t,
		&Eval{PrintStore: true, Expr: []string{"total = price * 2"}},
		&Bindings{Var: map[string]string{"price": "5"}}, "")
	if err != nil {
		t.Fatal(err)
	}

	_, doc, ok := strings.Cut(got, "10\n")
	if !ok {
		t.Fatalf("output %q lacks the result", got)
	}

	var store map[string]any
	if err := yaml.Unmarshal([]byte(doc), &store); err != nil {
		t.Fatalf("invalid store YAML %q: %v", doc, err)
	}

	if len(store) != 2 {
		t.Errorf("store = %v, want price and total", store)
	}
}

func TestEvalOutputFormat(t *testing.T) {
	_, err := runEval(t, &Eval{Output: "xml", Expr: []string{"1"}}, &Bindings{}, "")
	if !errors.Is(err, ErrOutputFormat) {
		t.Errorf("error = %v, want ErrOutputFormat", err)
	}
}

func TestReadLines(t *testing.T) {
	var got []string

	for line, err := range readLines(strings.NewReader(" a \n\nb\r\n")) {
		if err != nil {
			t.Fatal(err)
		}

		got = append(got, line)
	}

	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("readLines() = %q", got)
	}
}

func TestReadLinesError(t *testing.T) {
	var last error

	for _, err := range readLines(iotest.ErrReader(errors.New("boom"))) {
		last = err
	}

	if !errors.Is(last, lang.ErrReadInput) {
		t.Errorf("error = %v, want ErrReadInput", last)
	}
}

func TestReadLinesBreak(t *testing.T) {
	n := 0

	for range readLines(strings.NewReader("1\n2\n3\n")) {
		n++

		break
	}

	if n != 1 {
		t.Errorf("yielded %d lines after break, want 1", n)
	}
}

func TestEvalStdinStopsAtFirstError(t *testing.T) {
	got, err := runEval(t, &Eval{}, &Bindings{}, "1 + 1\nnope\n3\n")
	if !errors.Is(err, lang.ErrUnboundVariable) {
		t.Fatalf("error = %v, want ErrUnboundVariable", err)
	}

	if got != "2\n" {
		t.Errorf("output = %q, want only the first result", got)
	}

	if idx, ok := lang.WrapError(err).Attr("index"); !ok || idx.Int64() != 1 {
		t.Errorf("index attr = %v (found %t), want 1", idx, ok)
	}
}
