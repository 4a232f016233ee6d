package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no_call", "price", 5, "", 0, false},
		{"open_paren", "pow(", 4, "pow", 0, true},
		{"first_arg", "pow(2", 5, "pow", 0, true},
		{"second_arg", "pow(2,", 6, "pow", 1, true},
		{"second_arg_value", "pow(2, 3", 8, "pow", 1, true},
		{"closed", "pow(2, 3)", 9, "", 0, false},
		{"nested_inner", "max(1, sqrt(", 12, "sqrt", 0, true},
		{"nested_back_to_outer", "max(1, sqrt(4), ", 16, "max", 2, true},
		{"grouping_paren", "2 * (1 + ", 9, "", 0, false},
		{"space_before_paren", "pow (1,", 7, "pow", 1, true},
		{"comma_in_string", `len("a,b`, 8, "len", 0, true},
		{"paren_in_string", `upper(")", `, 10, "upper", 1, true},
		{"cursor_mid_input", "pow(1, 2)", 5, "pow", 0, true},
		{"after_operator", "x + abs(", 8, "abs", 0, true},
		{"dotted_name", "a.b(", 4, "a.b", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if got.name != tt.wantName || got.argIndex != tt.wantIndex ||
				got.inCall != tt.wantInCall {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want {%s %d %v}",
					tt.input, tt.cursor, got, tt.wantName, tt.wantIndex, tt.wantInCall)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	tests := []struct {
		name       string
		wantSig    string
		wantParams []string
	}{
		{"pow", "pow(x, y)", []string{"x", "y"}},
		{"days_in_month", "days_in_month([offset])", []string{"[offset]"}},
		{"max", "max(x...)", []string{"...x"}},
		{"now", "now()", []string{}},
		{"unknown", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, params := getSignature(tt.name)
			if sig != tt.wantSig {
				t.Errorf("signature = %q, want %q", sig, tt.wantSig)
			}

			if !slices.Equal(params, tt.wantParams) {
				t.Errorf("params = %q, want %q", params, tt.wantParams)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	if got := renderSignatureHint("", nil, 0); got != "" {
		t.Errorf("empty signature rendered %q", got)
	}

	tests := []struct {
		sig    string
		params []string
		arg    int
	}{
		{"pow(x, y)", []string{"x", "y"}, 1},
		{"max(x...)", []string{"...x"}, 4},
		{"now()", nil, 0},
	}

	for _, tt := range tests {
		got := renderSignatureHint(tt.sig, tt.params, tt.arg)

		name := tt.sig[:strings.Index(tt.sig, "(")]
		if !strings.Contains(got, name) {
			t.Errorf("hint %q lacks function name %q", got, name)
		}

		for _, p := range tt.params {
			if !strings.Contains(got, p) {
				t.Errorf("hint %q lacks parameter %q", got, p)
			}
		}
	}
}
