package lang

import "strconv"

// TokenKind identifies the lexical class of a [Token].
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenString
	TokenIdent

	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenLParen    // (
	TokenRParen    // )
	TokenComma     // ,
	TokenAssign    // =
	TokenEq        // ==
	TokenNotEq     // !=
	TokenLess      // <
	TokenLessEq    // <=
	TokenGreater   // >
	TokenGreaterEq // >=
	TokenAnd       // &&
	TokenOr        // ||
	TokenNot       // !
)

var tokenText = [...]string{
	TokenEOF:       "end of input",
	TokenNumber:    "number",
	TokenString:    "string",
	TokenIdent:     "identifier",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenComma:     ",",
	TokenAssign:    "=",
	TokenEq:        "==",
	TokenNotEq:     "!=",
	TokenLess:      "<",
	TokenLessEq:    "<=",
	TokenGreater:   ">",
	TokenGreaterEq: ">=",
	TokenAnd:       "&&",
	TokenOr:        "||",
	TokenNot:       "!",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenText) {
		return tokenText[k]
	}

	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a lexical unit of an expression. Pos is the byte offset of the
// token's first character in the source.
type Token struct {
	Text string
	Pos  int
	Kind TokenKind
}

// String describes the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return t.Kind.String()
	case TokenNumber, TokenIdent:
		return t.Kind.String() + " " + strconv.Quote(t.Text)
	case TokenString:
		return "string \"" + t.Text + "\""
	default:
		return strconv.Quote(t.Text)
	}
}
