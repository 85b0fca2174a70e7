package lang

import "fmt"

// TokenType represents the type of a lexer token.
type TokenType int

const (
	TOKEN_NUMBER TokenType = iota
	TOKEN_WORD
	TOKEN_CURRENCY
	TOKEN_PLUS
	TOKEN_MINUS
	TOKEN_STAR
	TOKEN_SLASH
	TOKEN_CARET
	TOKEN_PERCENT
	TOKEN_EQUALS
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_COMMENT
	TOKEN_SUM
	TOKEN_TOTAL
	TOKEN_AVG
	TOKEN_AVERAGE
	TOKEN_PREV
	TOKEN_SUBTOTAL
	TOKEN_ILLEGAL
	TOKEN_EOF
)

var tokenNames = [...]string{
	TOKEN_NUMBER:   "number",
	TOKEN_WORD:     "identifier",
	TOKEN_CURRENCY: "currency symbol",
	TOKEN_PLUS:     "+",
	TOKEN_MINUS:    "-",
	TOKEN_STAR:     "*",
	TOKEN_SLASH:    "/",
	TOKEN_CARET:    "^",
	TOKEN_PERCENT:  "%",
	TOKEN_EQUALS:   "=",
	TOKEN_LPAREN:   "(",
	TOKEN_RPAREN:   ")",
	TOKEN_COMMENT:  "comment",
	TOKEN_SUM:      "=sum",
	TOKEN_TOTAL:    "=total",
	TOKEN_AVG:      "=avg",
	TOKEN_AVERAGE:  "=average",
	TOKEN_PREV:     "=prev",
	TOKEN_SUBTOTAL: "=subtotal",
	TOKEN_ILLEGAL:  "illegal character",
	TOKEN_EOF:      "end of line",
}

func (t TokenType) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// IsAggregate reports whether t is one of the =keyword tokens.
func (t TokenType) IsAggregate() bool {
	return t >= TOKEN_SUM && t <= TOKEN_SUBTOTAL
}

// Range is a half-open span measured in UTF-16 code units.
type Range struct {
	Start int
	Len   int
}

// End returns the offset one past the last code unit.
func (r Range) End() int { return r.Start + r.Len }

// Offset returns r shifted by n code units.
func (r Range) Offset(n int) Range { return Range{Start: r.Start + n, Len: r.Len} }

// Cover returns the smallest range spanning both a and b.
func Cover(a, b Range) Range {
	start := min(a.Start, b.Start)
	return Range{Start: start, Len: max(a.End(), b.End()) - start}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End())
}

// Token represents a single lexer token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int   // byte offset in the input
	Range   Range // UTF-16 span relative to the start of the line
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q, %d)", t.Type, t.Literal, t.Pos)
}
