package lang

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
)

// Parse parses src into an expression tree.
func Parse(ctx context.Context, src string, opts ...Option) (Node, error) {
	return makeConfig(opts...).parse(ctx, src)
}

// ParseReader parses the expression read from r.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return Parse(ctx, string(data), opts...)
}

func (c config) parse(ctx context.Context, src string) (root Node, err error) {
	ctx, span := c.startSpan(ctx, SpanParse, sourceAttrs(src)...)
	defer func() { endSpan(span, err) }()

	next, stop := iter.Pull2(Tokenize(src))
	defer stop()

	p := &parser{next: next, end: len(src), maxDepth: c.maxDepth}

	root, err = p.parseRoot()
	if err != nil {
		c.logger.DebugContext(ctx, "parse failed",
			slog.String("source", src),
			slog.Any("error", err))

		return nil, err
	}

	count := 0

	Walk(root, func(Node) bool { count++; return true })

	span.SetAttributes(attribute.Int("vscript.nodes", count))

	c.logger.TraceContext(ctx, "parse complete",
		slog.String("source", src),
		slog.Int("node_count", count))

	return root, nil
}

// parser is a precedence-climbing parser over a pulled token stream with one
// token of lookahead.
type parser struct {
	next     func() (Token, error, bool)
	tok      Token
	end      int
	depth    int
	maxDepth int
}

// advance moves to the next token.
func (p *parser) advance() error {
	tok, err, ok := p.next()
	if err != nil {
		return err
	}

	if !ok {
		tok = Token{Kind: TokenEOF, Pos: p.end}
	}

	p.tok = tok

	return nil
}

// expect consumes a token of the given kind or fails.
func (p *parser) expect(kind TokenKind) error {
	if p.tok.Kind != kind {
		return p.unexpected("expected " + strconv.Quote(kind.String()))
	}

	return p.advance()
}

func (p *parser) unexpected(detail string) *Error {
	err := syntaxError(p.tok.Pos, "unexpected %s", p.tok)
	if detail != "" {
		err = err.Msgf("%s, %s", err.msg, detail)
	}

	return err.With(slog.String("token", p.tok.Text))
}

// enter guards recursion into a nested construct.
func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return syntaxError(p.tok.Pos, "expression nested deeper than %d", p.maxDepth).
			With(slog.Int("max_depth", p.maxDepth))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// parseRoot parses a complete expression followed by end of input.
func (p *parser) parseRoot() (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.tok.Kind == TokenEOF {
		return nil, syntaxError(p.tok.Pos, "empty expression")
	}

	root, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}

	if p.tok.Kind != TokenEOF {
		return nil, p.unexpected("expected end of input")
	}

	return root, nil
}

// parseAssignment parses: Or ('=' Assignment)?.
func (p *parser) parseAssignment() (Node, error) {
	left, err := p.parseBinary(precOr)
	if err != nil {
		return nil, err
	}

	if p.tok.Kind != TokenAssign {
		return left, nil
	}

	pos := p.tok.Pos

	switch left.(type) {
	case *VariableReference, *BooleanLiteral:
	default:
		return nil, syntaxError(pos, "invalid assignment target %s", left).
			With(slog.String("target", left.String()))
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}

	return &Assignment{Target: left, Value: value, Offset: pos}, nil
}

var binaryOps = map[TokenKind]Op{
	TokenOr:        OpOr,
	TokenAnd:       OpAnd,
	TokenEq:        OpEq,
	TokenNotEq:     OpNotEq,
	TokenLess:      OpLess,
	TokenLessEq:    OpLessEq,
	TokenGreater:   OpGreater,
	TokenGreaterEq: OpGreaterEq,
	TokenPlus:      OpAdd,
	TokenMinus:     OpSub,
	TokenStar:      OpMul,
	TokenSlash:     OpDiv,
}

// parseBinary parses a left-associative chain of binary operators binding at
// least as tightly as minPrec.
func (p *parser) parseBinary(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, ok := binaryOps[p.tok.Kind]
		if !ok || op.precedence() < minPrec {
			return left, nil
		}

		pos := p.tok.Pos

		if err := p.advance(); err != nil {
			return nil, err
		}

		right, err := p.parseBinary(op.precedence() + 1)
		if err != nil {
			return nil, err
		}

		left = &BinaryOp{Op: op, Left: left, Right: right, Offset: pos}
	}
}

// parseUnary parses: ('-' | '!') Unary | Primary.
func (p *parser) parseUnary() (Node, error) {
	var op Op

	switch p.tok.Kind {
	case TokenMinus:
		op = OpNeg
	case TokenNot:
		op = OpNot
	default:
		return p.parsePrimary()
	}

	pos := p.tok.Pos

	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return &UnaryOp{Op: op, Operand: operand, Offset: pos}, nil
}

// parsePrimary parses a literal, variable, call, or parenthesized expression.
func (p *parser) parsePrimary() (Node, error) {
	tok := p.tok

	switch tok.Kind {
	case TokenNumber:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, syntaxError(tok.Pos, "invalid number %q", tok.Text)
		}

		return &NumberLiteral{Value: f, Offset: tok.Pos}, p.advance()

	case TokenString:
		return &StringLiteral{Value: tok.Text, Offset: tok.Pos}, p.advance()

	case TokenIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.tok.Kind == TokenLParen {
			return p.parseCall(tok)
		}

		switch tok.Text {
		case "true", "false":
			return &BooleanLiteral{Value: tok.Text == "true", Offset: tok.Pos}, nil
		}

		return &VariableReference{Name: tok.Text, Offset: tok.Pos}, nil

	case TokenLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}

		if err := p.enter(); err != nil {
			return nil, err
		}
		defer p.leave()

		inner, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}

		return inner, p.expect(TokenRParen)

	default:
		return nil, p.unexpected("")
	}
}

// parseCall parses the argument list of a call to name. The current token is
// the opening parenthesis.
func (p *parser) parseCall(name Token) (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	call := &FunctionCall{Name: name.Text, Offset: name.Pos}

	if p.tok.Kind == TokenRParen {
		return call, p.advance()
	}

	for {
		arg, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}

		call.Args = append(call.Args, arg)

		switch p.tok.Kind {
		case TokenComma:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case TokenRParen:
			return call, p.advance()
		default:
			return nil, p.unexpected(`expected "," or ")"`)
		}
	}
}
