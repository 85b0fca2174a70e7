package lang

import (
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// aggregateKeywords are matched immediately after '='. Longer keywords that
// share a prefix with a shorter one come first.
var aggregateKeywords = []struct {
	word string
	typ  TokenType
}{
	{"subtotal", TOKEN_SUBTOTAL},
	{"average", TOKEN_AVERAGE},
	{"total", TOKEN_TOTAL},
	{"sum", TOKEN_SUM},
	{"avg", TOKEN_AVG},
	{"prev", TOKEN_PREV},
}

type lexer struct {
	input  string
	pos    int // byte offset
	off    int // UTF-16 offset
	tokens []Token
}

// Lex tokenizes a single line of input into a slice of tokens.
// The result always ends with a TOKEN_EOF token.
func Lex(input string) []Token {
	l := &lexer{input: input}
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])

		// Skip whitespace
		if r == ' ' || r == '\t' || r == '\r' || r == '\n' {
			l.advance(r, size)
			continue
		}

		switch {
		case r == '#':
			l.lexComment()
		case isDigit(r) || (r == '.' && l.digitAt(l.pos+size)):
			l.lexNumber()
		case isWordStart(r):
			l.lexWord()
		case r == '=':
			l.lexEquals()
		default:
			l.lexSymbol(r, size)
		}
	}
	l.tokens = append(l.tokens, Token{Type: TOKEN_EOF, Pos: l.pos, Range: Range{Start: l.off}})
	return l.tokens
}

func (l *lexer) advance(r rune, size int) {
	l.pos += size
	l.off += utf16Len(r)
}

func (l *lexer) emit(typ TokenType, startPos, startOff int) {
	l.tokens = append(l.tokens, Token{
		Type:    typ,
		Literal: l.input[startPos:l.pos],
		Pos:     startPos,
		Range:   Range{Start: startOff, Len: l.off - startOff},
	})
}

func (l *lexer) digitAt(pos int) bool {
	if pos >= len(l.input) {
		return false
	}
	return isDigit(rune(l.input[pos]))
}

// lexComment consumes '#' and everything up to the end of the line.
func (l *lexer) lexComment() {
	startPos, startOff := l.pos, l.off
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if r == '\n' || r == '\r' {
			break
		}
		l.advance(r, size)
	}
	l.emit(TOKEN_COMMENT, startPos, startOff)
}

// lexNumber consumes digits with at most one decimal point. Commas are
// accepted anywhere inside the run and dropped when the value is parsed.
func (l *lexer) lexNumber() {
	startPos, startOff := l.pos, l.off
	seenDot := false
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case isDigit(rune(ch)), ch == ',':
		case ch == '.' && !seenDot:
			seenDot = true
		default:
			l.emit(TOKEN_NUMBER, startPos, startOff)
			return
		}
		l.advance(rune(ch), 1)
	}
	l.emit(TOKEN_NUMBER, startPos, startOff)
}

func (l *lexer) lexWord() {
	startPos, startOff := l.pos, l.off
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isWordContinue(r) {
			break
		}
		l.advance(r, size)
	}
	l.emit(TOKEN_WORD, startPos, startOff)
}

// lexEquals emits either a plain '=' or one of the =keyword aggregate tokens.
func (l *lexer) lexEquals() {
	startPos, startOff := l.pos, l.off
	l.advance('=', 1)
	rest := l.input[l.pos:]
	for _, kw := range aggregateKeywords {
		n := len(kw.word)
		if len(rest) < n || !strings.EqualFold(rest[:n], kw.word) {
			continue
		}
		if next, _ := utf8.DecodeRuneInString(rest[n:]); n < len(rest) && isWordContinue(next) {
			continue
		}
		l.pos += n
		l.off += n
		l.emit(kw.typ, startPos, startOff)
		return
	}
	l.emit(TOKEN_EQUALS, startPos, startOff)
}

func (l *lexer) lexSymbol(r rune, size int) {
	startPos, startOff := l.pos, l.off
	l.advance(r, size)
	var typ TokenType
	switch r {
	case '+':
		typ = TOKEN_PLUS
	case '-':
		typ = TOKEN_MINUS
	case '*', '×':
		typ = TOKEN_STAR
	case '/':
		typ = TOKEN_SLASH
	case '^':
		typ = TOKEN_CARET
	case '%':
		typ = TOKEN_PERCENT
	case '(':
		typ = TOKEN_LPAREN
	case ')':
		typ = TOKEN_RPAREN
	case '$', '€', '£', '¥':
		typ = TOKEN_CURRENCY
	default:
		typ = TOKEN_ILLEGAL
	}
	l.emit(typ, startPos, startOff)
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1 // invalid UTF-8 decodes to RuneError, one code unit
}

// UTF16Len returns the length of s in UTF-16 code units.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16Len(r)
	}
	return n
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWordStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isWordContinue(r rune) bool {
	return isWordStart(r) || isDigit(r)
}
