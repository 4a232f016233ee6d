package lang

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"
)

var fuzzSeeds = []string{
	"4-3-2",
	"2+3*4",
	"-1.0*(2.5+3.5)",
	"3+movie.price*sqrt(4)>=13.0",
	"true&&true",
	"!(false||true)",
	`"2"+1`,
	"a=b=-1",
	`days_before_now("2010-02-01")`,
	"f(1, g(2), x)",
	"((((1))))",
	`"unterminated`,
	"a & b",
	"1e",
	".5",
}

// FuzzTokenize checks that tokenizing never panics and that every token lies
// within the source.
func FuzzTokenize(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		errs := 0

		for tok, err := range Tokenize(input) {
			if err != nil {
				errs++

				if !errors.Is(err, ErrSyntax) {
					t.Errorf("unexpected error kind for %q: %v", input, err)
				}

				continue
			}

			if tok.Pos < 0 || tok.Pos > len(input) {
				t.Errorf("token %v out of range in %q", tok, input)
			}

			if tok.Kind != TokenEOF && tok.Kind != TokenString &&
				input[tok.Pos:tok.Pos+len(tok.Text)] != tok.Text {
				t.Errorf("token %v does not match source %q", tok, input)
			}
		}

		if errs > 1 {
			t.Errorf("%d errors yielded for %q", errs, input)
		}
	})
}

// FuzzParse checks that parsing never panics, that failures are syntax
// errors, and that accepted input has a canonical form that parses back to
// itself.
func FuzzParse(f *testing.F) {
	for _, seed := range fuzzSeeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		ctx := context.Background()

		n, err := Parse(ctx, input)
		if err != nil {
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("unexpected error kind for %q: %v", input, err)
			}

			return
		}

		again, err := Parse(ctx, n.String())
		if err != nil {
			t.Fatalf("canonical form %q of %q does not parse: %v", n.String(), input, err)
		}

		if again.String() != n.String() {
			t.Errorf("canonical form unstable: %q -> %q", n.String(), again.String())
		}

		// Evaluation may fail, but never panics.
		_, _ = Exec(ctx, n, nil, WithClock(FixedClock(fixedMillis)))
	})
}
