package lang

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize returns the token sequence of src.
//
// The sequence is lazy and may be ranged over any number of times; each range
// restarts at the beginning of src. It ends after the [TokenEOF] token, or
// after yielding the first error (a syntax error carrying the offset).
func Tokenize(src string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l := lexer{src: src}

		for {
			tok, err := l.next()
			if err != nil {
				yield(Token{Kind: TokenEOF, Pos: l.pos}, err)

				return
			}

			if !yield(tok, nil) || tok.Kind == TokenEOF {
				return
			}
		}
	}
}

// lexer holds the scanning state over a source string.
type lexer struct {
	src string
	pos int
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])

	return r
}

func (l *lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.src) {
		return 0
	}

	return l.src[l.pos+n]
}

func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size

	return r
}

func (l *lexer) skipWhitespace() {
	for !l.eof() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// next scans one token.
func (l *lexer) next() (Token, error) {
	l.skipWhitespace()

	start := l.pos
	if l.eof() {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}

	emit := func(kind TokenKind, n int) (Token, error) {
		l.pos += n

		return Token{Kind: kind, Text: l.src[start:l.pos], Pos: start}, nil
	}

	c := l.src[l.pos]
	two := l.peekAt(1)

	switch {
	case c == '"':
		return l.scanString()
	case isDigit(c), c == '.' && isDigit(two):
		return l.scanNumber()
	case isIdentStart(l.peek()):
		return l.scanIdent()
	}

	switch c {
	case '+':
		return emit(TokenPlus, 1)
	case '-':
		return emit(TokenMinus, 1)
	case '*':
		return emit(TokenStar, 1)
	case '/':
		return emit(TokenSlash, 1)
	case '(':
		return emit(TokenLParen, 1)
	case ')':
		return emit(TokenRParen, 1)
	case ',':
		return emit(TokenComma, 1)
	case '=':
		if two == '=' {
			return emit(TokenEq, 2)
		}

		return emit(TokenAssign, 1)
	case '!':
		if two == '=' {
			return emit(TokenNotEq, 2)
		}

		return emit(TokenNot, 1)
	case '<':
		if two == '=' {
			return emit(TokenLessEq, 2)
		}

		return emit(TokenLess, 1)
	case '>':
		if two == '=' {
			return emit(TokenGreaterEq, 2)
		}

		return emit(TokenGreater, 1)
	case '&':
		if two == '&' {
			return emit(TokenAnd, 2)
		}
	case '|':
		if two == '|' {
			return emit(TokenOr, 2)
		}
	}

	return Token{}, syntaxError(start, "unexpected character %q", l.peek())
}

// scanString scans a double-quoted string. There are no escape sequences; the
// first closing quote ends the literal.
func (l *lexer) scanString() (Token, error) {
	start := l.pos
	l.pos++ // opening quote

	end := strings.IndexByte(l.src[l.pos:], '"')
	if end < 0 {
		l.pos = len(l.src)

		return Token{}, syntaxError(start, "unterminated string")
	}

	text := l.src[l.pos : l.pos+end]
	l.pos += end + 1

	return Token{Kind: TokenString, Text: text, Pos: start}, nil
}

// scanNumber scans digits with an optional fraction and exponent.
func (l *lexer) scanNumber() (Token, error) {
	start := l.pos

	for !l.eof() && isDigit(l.src[l.pos]) {
		l.pos++
	}

	if l.peekAt(0) == '.' {
		l.pos++

		for !l.eof() && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}

	if e := l.peekAt(0); e == 'e' || e == 'E' {
		n := 1
		if s := l.peekAt(1); s == '+' || s == '-' {
			n++
		}

		if isDigit(l.peekAt(n)) {
			l.pos += n

			for !l.eof() && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
	}

	return Token{Kind: TokenNumber, Text: l.src[start:l.pos], Pos: start}, nil
}

// scanIdent scans an identifier. Dots are part of identifiers so that
// namespaced variables like movie.price form a single token.
func (l *lexer) scanIdent() (Token, error) {
	start := l.pos

	for !l.eof() && isIdentPart(l.peek()) {
		l.advance()
	}

	return Token{Kind: TokenIdent, Text: l.src[start:l.pos], Pos: start}, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }

func isIdentPart(r rune) bool {
	return r == '_' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
