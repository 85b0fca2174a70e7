package lang

import (
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Error kinds. Both ParseError and EvalError match these with errors.Is.
var (
	ErrUnexpectedToken   = errors.New("unexpected token")
	ErrUnexpectedEOF     = errors.New("unexpected end of input")
	ErrInvalidExpression = errors.New("invalid expression")
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrDivisionByZero    = errors.New("division by zero")
	ErrTypeMismatch      = errors.New("type mismatch")
)

// Message keys. Each is also the English text.
const (
	msgUnexpectedToken   = "Unexpected token, expected %s"
	msgUnexpectedEOF     = "Unexpected end of input"
	msgInvalidExpression = "Invalid expression"
	msgUndefinedVariable = "Undefined variable: %s"
	msgDivisionByZero    = "Division by zero"

	msgUnknownCurrency     = "Unknown currency symbol %s"
	msgDifferentCurrencies = "Cannot add values with different currencies"
	msgDifferentUnits      = "Cannot add values with different units"
	msgUnsupportedMul      = "Unsupported unit multiplication"
	msgUnsupportedDiv      = "Unsupported unit division"
	msgModuloUnits         = "Modulo operation only supported for unitless values"
	msgModuloInvalid       = "Modulo result is not a valid number"
	msgExponentUnit        = "Exponent cannot have a unit"
	msgPowerInvalid        = "Power result is not a valid number"
	msgNotANumber          = "Result is not a valid number"
)

func init() {
	de := language.German
	for key, text := range map[string]string{
		msgUnexpectedToken:     "Unerwartetes Zeichen, erwartet: %s",
		msgUnexpectedEOF:       "Unerwartetes Zeilenende",
		msgInvalidExpression:   "Ungültiger Ausdruck",
		msgUndefinedVariable:   "Unbekannte Variable: %s",
		msgDivisionByZero:      "Division durch null",
		msgUnknownCurrency:     "Unbekanntes Währungssymbol %s",
		msgDifferentCurrencies: "Werte in verschiedenen Währungen können nicht addiert werden",
		msgDifferentUnits:      "Werte mit verschiedenen Einheiten können nicht addiert werden",
		msgUnsupportedMul:      "Multiplikation dieser Einheiten wird nicht unterstützt",
		msgUnsupportedDiv:      "Division dieser Einheiten wird nicht unterstützt",
		msgModuloUnits:         "Modulo ist nur für Werte ohne Einheit möglich",
		msgModuloInvalid:       "Das Modulo-Ergebnis ist keine gültige Zahl",
		msgExponentUnit:        "Der Exponent darf keine Einheit haben",
		msgPowerInvalid:        "Das Ergebnis der Potenz ist keine gültige Zahl",
		msgNotANumber:          "Das Ergebnis ist keine gültige Zahl",
	} {
		_ = message.SetString(de, key, text)
	}
}

var englishPrinter = message.NewPrinter(language.English)

// ParseError reports a line that could not be parsed.
type ParseError struct {
	Kind     error // ErrUnexpectedToken, ErrUnexpectedEOF or ErrInvalidExpression
	Expected string
	Token    Token
	Range    Range
	HasRange bool
}

func (e *ParseError) Error() string {
	return e.Localize(englishPrinter)
}

// Localize renders the message with the given printer.
func (e *ParseError) Localize(p *message.Printer) string {
	switch e.Kind {
	case ErrUnexpectedToken:
		return p.Sprintf(msgUnexpectedToken, e.Expected)
	case ErrUnexpectedEOF:
		return p.Sprintf(msgUnexpectedEOF)
	default:
		return p.Sprintf(msgInvalidExpression)
	}
}

func (e *ParseError) Is(target error) bool { return e.Kind == target }

// Span returns the offending source range, if any.
func (e *ParseError) Span() (Range, bool) { return e.Range, e.HasRange }

// EvalError represents an evaluation error.
type EvalError struct {
	Kind     error // ErrUndefinedVariable, ErrDivisionByZero or ErrTypeMismatch
	Name     string
	Msg      string // message key for type mismatches
	Args     []any
	Range    Range
	HasRange bool
}

func (e *EvalError) Error() string {
	return e.Localize(englishPrinter)
}

// Localize renders the message with the given printer.
func (e *EvalError) Localize(p *message.Printer) string {
	switch e.Kind {
	case ErrUndefinedVariable:
		return p.Sprintf(msgUndefinedVariable, e.Name)
	case ErrDivisionByZero:
		return p.Sprintf(msgDivisionByZero)
	default:
		return p.Sprintf(e.Msg, e.Args...)
	}
}

func (e *EvalError) Is(target error) bool { return e.Kind == target }

// Span returns the source range the error refers to, if any.
func (e *EvalError) Span() (Range, bool) { return e.Range, e.HasRange }

func undefinedVariable(name string, r Range) *EvalError {
	return &EvalError{Kind: ErrUndefinedVariable, Name: name, Range: r, HasRange: true}
}

func divisionByZero(r Range) *EvalError {
	return &EvalError{Kind: ErrDivisionByZero, Range: r, HasRange: true}
}

func typeMismatch(r Range, msg string, args ...any) *EvalError {
	return &EvalError{Kind: ErrTypeMismatch, Msg: msg, Args: args, Range: r, HasRange: true}
}

// LocalizeError renders an engine error in the given language. Errors that
// did not come from this package fall back to Error().
func LocalizeError(err error, tag language.Tag) string {
	p := message.NewPrinter(tag)
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Localize(p)
	}
	var ee *EvalError
	if errors.As(err, &ee) {
		return ee.Localize(p)
	}
	return err.Error()
}

// isUndefinedPrev reports whether err says =prev has nothing to read.
func isUndefinedPrev(err error) bool {
	var ee *EvalError
	return errors.As(err, &ee) && ee.Kind == ErrUndefinedVariable && ee.Name == AggPrev.DisplayName()
}
