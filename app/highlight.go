package main

import (
	"image/color"

	"lime/app/lang"
)

// TokenKind represents the category of a syntax token.
type TokenKind int

const (
	TokenPlain TokenKind = iota
	TokenKeyword
	TokenNumber
	TokenComment
	TokenOperator
	TokenVariable
	TokenEquals
	TokenParen
	TokenError
)

// Token is a span of text with a syntax category.
type Token struct {
	Text string
	Kind TokenKind
}

// tokenColors maps token kinds to colors. Dark-theme oriented.
var tokenColors = map[TokenKind]color.NRGBA{
	TokenPlain:    {R: 0xD4, G: 0xD4, B: 0xD4, A: 0xFF}, // light gray
	TokenKeyword:  {R: 0x56, G: 0x9C, B: 0xD6, A: 0xFF}, // blue
	TokenNumber:   {R: 0xB5, G: 0xCE, B: 0xA8, A: 0xFF}, // green
	TokenComment:  {R: 0x6A, G: 0x99, B: 0x55, A: 0xFF}, // dark green
	TokenOperator: {R: 0xD4, G: 0xD4, B: 0xD4, A: 0xFF}, // light gray
	TokenVariable: {R: 0x9C, G: 0xDB, B: 0xFE, A: 0xFF}, // light blue
	TokenEquals:   {R: 0xD4, G: 0xD4, B: 0xD4, A: 0xFF}, // light gray
	TokenParen:    {R: 0xFF, G: 0xD7, B: 0x00, A: 0xFF}, // yellow
	TokenError:    {R: 0xF4, G: 0x47, B: 0x47, A: 0xFF}, // red
}

// TokenColor returns the color for a token kind.
func TokenColor(kind TokenKind) color.NRGBA {
	if c, ok := tokenColors[kind]; ok {
		return c
	}
	return tokenColors[TokenPlain]
}

// langTokenToHighlight maps a lang.TokenType to a highlight TokenKind.
// Words are left plain; Tokenize decides which of them are variables.
func langTokenToHighlight(t lang.TokenType) TokenKind {
	switch {
	case t == lang.TOKEN_NUMBER, t == lang.TOKEN_CURRENCY:
		return TokenNumber
	case t.IsAggregate():
		return TokenKeyword
	case t == lang.TOKEN_COMMENT:
		return TokenComment
	case t == lang.TOKEN_PLUS, t == lang.TOKEN_MINUS, t == lang.TOKEN_STAR, t == lang.TOKEN_SLASH,
		t == lang.TOKEN_CARET, t == lang.TOKEN_PERCENT:
		return TokenOperator
	case t == lang.TOKEN_LPAREN, t == lang.TOKEN_RPAREN:
		return TokenParen
	case t == lang.TOKEN_EQUALS:
		return TokenEquals
	case t == lang.TOKEN_ILLEGAL:
		return TokenError
	default:
		return TokenPlain
	}
}

// Tokenize splits a line into highlighted tokens using the lang lexer.
// Concatenating the Text of the result reproduces line.
func Tokenize(line string) []Token {
	if line == "" {
		return nil
	}

	langTokens := lang.Lex(line)
	target := lang.AssignmentTarget(langTokens)
	var result []Token
	lastEnd := 0

	for i, lt := range langTokens {
		if lt.Type == lang.TOKEN_EOF {
			break
		}

		// Whitespace between tokens
		if lt.Pos > lastEnd {
			result = append(result, Token{Text: line[lastEnd:lt.Pos], Kind: TokenPlain})
		}

		kind := langTokenToHighlight(lt.Type)
		if lt.Type == lang.TOKEN_WORD {
			switch {
			case i < target:
				kind = TokenVariable
			case lang.IsOperatorWord(lt.Literal):
				kind = TokenKeyword
			}
		}

		result = append(result, Token{Text: lt.Literal, Kind: kind})
		lastEnd = lt.Pos + len(lt.Literal)
	}

	if lastEnd < len(line) {
		result = append(result, Token{Text: line[lastEnd:], Kind: TokenPlain})
	}

	return result
}
