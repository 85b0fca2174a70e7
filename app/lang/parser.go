package lang

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

const expectedOperand = "number, variable, =sum, =total, =avg, =average, =prev, =subtotal, or ("

// Parser holds the state for parsing a token stream.
type Parser struct {
	tokens []Token
	pos    int
}

// ParseLine lexes and parses a single line without evaluating it.
// Returns a nil Statement for blank and comment-only lines.
func ParseLine(line string) (Statement, error) {
	return Parse(Lex(line))
}

// Parse parses a single line (given as a token slice) into a Statement.
// Comment tokens are discarded first. Returns nil for empty lines.
func Parse(tokens []Token) (Statement, error) {
	p := &Parser{tokens: withoutComments(tokens)}
	if p.peek().Type == TOKEN_EOF {
		return nil, nil
	}

	// Assignment: identifier-sequence "=" expression
	if name, nameRange, n := p.identSequence(p.pos); n > 0 && p.at(p.pos+n).Type == TOKEN_EQUALS {
		p.pos += n + 1
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expectEnd(); err != nil {
			return nil, err
		}
		return &Assignment{Name: name, NameRange: nameRange, Value: value}, nil
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

func withoutComments(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Type != TOKEN_COMMENT {
			out = append(out, t)
		}
	}
	return out
}

func (p *Parser) at(i int) Token {
	if i >= len(p.tokens) {
		end := 0
		if len(p.tokens) > 0 {
			end = p.tokens[len(p.tokens)-1].Range.End()
		}
		return Token{Type: TOKEN_EOF, Range: Range{Start: end}}
	}
	return p.tokens[i]
}

func (p *Parser) peek() Token {
	return p.at(p.pos)
}

func (p *Parser) advance() Token {
	t := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

// expectEnd reports any tokens left after a complete statement.
func (p *Parser) expectEnd() error {
	if p.peek().Type == TOKEN_EOF {
		return nil
	}
	first := p.peek()
	last := first
	for i := p.pos; i < len(p.tokens) && p.tokens[i].Type != TOKEN_EOF; i++ {
		last = p.tokens[i]
	}
	return &ParseError{Kind: ErrInvalidExpression, Token: first, Range: Cover(first.Range, last.Range), HasRange: true}
}

// IsOperatorWord reports whether an identifier acts as an infix keyword.
func IsOperatorWord(lit string) bool {
	switch strings.ToLower(lit) {
	case "mod", "of", "on", "off":
		return true
	}
	return false
}

// AssignmentTarget returns how many leading tokens name the target of an
// assignment, or 0 if the tokens do not start with "name =".
func AssignmentTarget(tokens []Token) int {
	p := &Parser{tokens: tokens}
	if _, _, n := p.identSequence(0); n > 0 && p.at(n).Type == TOKEN_EQUALS {
		return n
	}
	return 0
}

// identSequence collects the run of identifier tokens starting at i and joins
// them with single spaces. The run stops before an infix keyword (mod, of, on,
// off) unless that keyword is the first word. Returns n == 0 if tokens[i] is
// not an identifier.
func (p *Parser) identSequence(i int) (name string, r Range, n int) {
	var words []string
	for tok := p.at(i + n); tok.Type == TOKEN_WORD; tok = p.at(i + n) {
		if n > 0 && IsOperatorWord(tok.Literal) {
			break
		}
		if n == 0 {
			r = tok.Range
		} else {
			r = Cover(r, tok.Range)
		}
		words = append(words, tok.Literal)
		n++
	}
	return strings.Join(words, " "), r, n
}

func (p *Parser) parseExpression() (Expr, error) {
	return p.parseAdditive()
}

// parseAdditive: multiplicative ( ("+" | "-" | "on" | "off") multiplicative )*
func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.Type == TOKEN_WORD {
			var kind AdjustKind
			switch strings.ToLower(tok.Literal) {
			case "on":
				kind = AdjustOn
			case "off":
				kind = AdjustOff
			default:
				return left, nil
			}
			p.advance()
			right, err := p.parseMultiplicative()
			if err != nil {
				return nil, err
			}
			left = &PercentAdjustExpr{Kind: kind, Percent: left, Base: right, Range: Cover(left.Span(), right.Span())}
			continue
		}

		if tok.Type != TOKEN_PLUS && tok.Type != TOKEN_MINUS {
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		span := Cover(left.Span(), right.Span())

		// "x + 5%" and "x - 5%" adjust x by a percentage of itself.
		if _, ok := right.(*PercentExpr); ok {
			kind := AdjustOn
			if tok.Type == TOKEN_MINUS {
				kind = AdjustOff
			}
			left = &PercentAdjustExpr{Kind: kind, Percent: right, Base: left, Range: span}
			continue
		}

		op := OpAdd
		if tok.Type == TOKEN_MINUS {
			op = OpSub
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right, Range: span}
	}
}

// parseMultiplicative: exponent ( ("*" | "/" | "mod" | "of") exponent )*
func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseExponent()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		var op BinaryOp
		switch {
		case tok.Type == TOKEN_WORD && strings.EqualFold(tok.Literal, "of"):
			p.advance()
			right, err := p.parseExponent()
			if err != nil {
				return nil, err
			}
			left = &PercentOfExpr{Percent: left, Base: right, Range: Cover(left.Span(), right.Span())}
			continue
		case tok.Type == TOKEN_WORD && strings.EqualFold(tok.Literal, "mod"):
			op = OpMod
		case tok.Type == TOKEN_STAR:
			op = OpMul
		case tok.Type == TOKEN_SLASH:
			op = OpDiv
		default:
			return left, nil
		}

		p.advance()
		right, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		span := Cover(left.Span(), right.Span())

		// "x * 5%" is shorthand for "5% of x".
		if _, ok := right.(*PercentExpr); ok && op == OpMul {
			left = &PercentOfExpr{Percent: right, Base: left, Range: span}
			continue
		}
		left = &BinaryExpr{Op: op, Left: left, Right: right, Range: span}
	}
}

// parseExponent: unary ( "^" exponent )?   (right-associative)
func (p *Parser) parseExponent() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != TOKEN_CARET {
		return left, nil
	}
	p.advance()
	right, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	return &BinaryExpr{Op: OpPow, Left: left, Right: right, Range: Cover(left.Span(), right.Span())}, nil
}

// parseUnary: "-" unary | postfix
func (p *Parser) parseUnary() (Expr, error) {
	if p.peek().Type == TOKEN_MINUS {
		minus := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operand: operand, Range: Cover(minus.Range, operand.Span())}, nil
	}
	return p.parsePostfix()
}

// parsePostfix: primary "%"*
func (p *Parser) parsePostfix() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TOKEN_PERCENT {
		pct := p.advance()
		expr = &PercentExpr{Expr: expr, Range: Cover(expr.Span(), pct.Range)}
	}
	return expr, nil
}

// parsePrimary: number | currency number | identifier-sequence | aggregate | "(" expression ")"
func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.peek()

	switch tok.Type {
	case TOKEN_NUMBER:
		p.advance()
		return &NumberLit{Value: parseDecimal(tok.Literal), Range: tok.Range}, nil

	case TOKEN_CURRENCY:
		p.advance()
		num := p.peek()
		if num.Type == TOKEN_EOF {
			return nil, &ParseError{Kind: ErrUnexpectedEOF}
		}
		if num.Type != TOKEN_NUMBER {
			return nil, unexpected(num, "number after currency symbol")
		}
		p.advance()
		return &CurrencyLit{Value: parseDecimal(num.Literal), Symbol: tok.Literal, Range: Cover(tok.Range, num.Range)}, nil

	case TOKEN_WORD:
		name, r, n := p.identSequence(p.pos)
		p.pos += n
		return &VarRef{Name: name, Range: r}, nil

	case TOKEN_SUM, TOKEN_TOTAL, TOKEN_AVG, TOKEN_AVERAGE, TOKEN_PREV:
		p.advance()
		return &AggregateRef{Kind: aggregateKind(tok.Type), Range: tok.Range}, nil

	case TOKEN_SUBTOTAL:
		p.advance()
		return &SubtotalRef{Range: tok.Range}, nil

	case TOKEN_LPAREN:
		p.advance() // consume '('
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		closing := p.peek()
		if closing.Type == TOKEN_EOF {
			return nil, &ParseError{Kind: ErrUnexpectedEOF}
		}
		if closing.Type != TOKEN_RPAREN {
			return nil, unexpected(closing, ")")
		}
		p.advance() // consume ')'
		return &ParenExpr{Inner: inner, Range: Cover(tok.Range, closing.Range)}, nil

	case TOKEN_EOF:
		return nil, &ParseError{Kind: ErrUnexpectedEOF}

	default:
		return nil, unexpected(tok, expectedOperand)
	}
}

func unexpected(tok Token, expected string) *ParseError {
	return &ParseError{Kind: ErrUnexpectedToken, Expected: expected, Token: tok, Range: tok.Range, HasRange: true}
}

func aggregateKind(t TokenType) AggregateKind {
	switch t {
	case TOKEN_SUM:
		return AggSum
	case TOKEN_TOTAL:
		return AggTotal
	case TOKEN_AVG:
		return AggAvg
	case TOKEN_AVERAGE:
		return AggAverage
	default:
		return AggPrev
	}
}

// parseDecimal converts a number literal to a decimal. Commas are thousands
// separators. Malformed text yields zero.
func parseDecimal(lit string) *apd.Decimal {
	s := strings.ReplaceAll(lit, ",", "")
	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return new(apd.Decimal)
	}
	return d
}
