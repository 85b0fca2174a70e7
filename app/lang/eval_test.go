package lang

import (
	"errors"
	"testing"
)

func TestEvalLine(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2 + 3", "5"},
		{"10 - 3", "7"},
		{"4 * 5", "20"},
		{"4 × 5", "20"},
		{"10 / 4", "2.5"},
		{"10 / 3", "3.3333333333"},
		{"2 / 3", "0.6666666667"},
		{"-5", "-5"},
		{"--5", "5"},
		{"(2 + 3) * 4", "20"},
		{"3.14", "3.14"},
		{"1.5 + 2.5", "4"},
		{"0.1 + 0.2", "0.3"},
		{"2 ^ 10", "1,024"},
		{"2 ^ 3 ^ 2", "512"},
		{"1,000,000 / 8", "125,000"},
		{"5 mod 2", "1"},
		{"-5 mod 2", "-1"},
		{"5 mod -2", "1"},
		{"-5 mod -2", "-1"},
		{"7.5 mod 2", "1.5"},
		{"50%", "50%"},
		{"20% of 10", "2"},
		{"5% on 30", "31.5"},
		{"5% off 30", "28.5"},
		{"40 - 6%", "37.6"},
		{"40 + 10%", "44"},
		{"10 * 20%", "2"},
		{"$10", "$10"},
		{"$1,234.50", "$1,234.5"},
		{"$10 + 5", "$15"},
		{"5 + $10", "$15"},
		{"$10 * 3", "$30"},
		{"$10 / 4", "$2.5"},
		{"$10 / $4", "2.5"},
		{"€3 ^ 2", "€9"},
		{"-$50", "$-50"},
		{"$20 - $70", "$-50"},
		{"20% of $50", "$10"},
		{"10% off $80", "$72"},
		{"$100 + 10%", "$110"},
		{"£100 - 25%", "£75"},
		{"¥500 + ¥1", "¥501"},
		{"5% on $0", "$0"},
		{"$5 - 5%", "$4.75"},
		{"$10 / €4", "2.5"},
	}

	for _, tt := range tests {
		val, err := EvalLine(tt.input, NewEnv())
		if err != nil {
			t.Errorf("EvalLine(%q) error: %v", tt.input, err)
			continue
		}
		if got := val.String(); got != tt.want {
			t.Errorf("EvalLine(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestVariables(t *testing.T) {
	env := NewEnv()

	val, err := EvalLine("x = 10", env)
	if err != nil {
		t.Fatalf("assignment error: %v", err)
	}
	if val.String() != "10" {
		t.Errorf("x = 10 gave %q, want 10", val.String())
	}

	val, err = EvalLine("x + 5", env)
	if err != nil {
		t.Fatalf("x + 5 error: %v", err)
	}
	if val.String() != "15" {
		t.Errorf("x + 5 = %q, want 15", val.String())
	}

	// Names are case-sensitive.
	if _, err := EvalLine("X + 5", env); !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("X + 5 error = %v, want undefined variable", err)
	}
}

func TestMultiWordVariables(t *testing.T) {
	env := NewEnv()

	if _, err := EvalLine("my favorite number = 42", env); err != nil {
		t.Fatalf("assignment error: %v", err)
	}
	val, err := EvalLine("my favorite number * 2", env)
	if err != nil {
		t.Fatalf("my favorite number * 2 error: %v", err)
	}
	if val.String() != "84" {
		t.Errorf("my favorite number * 2 = %q, want 84", val.String())
	}

	if _, err := EvalLine("sales tax = 8%", env); err != nil {
		t.Fatalf("assignment error: %v", err)
	}
	if _, err := EvalLine("price = $50", env); err != nil {
		t.Fatalf("assignment error: %v", err)
	}
	val, err = EvalLine("sales tax of price", env)
	if err != nil {
		t.Fatalf("sales tax of price error: %v", err)
	}
	if val.String() != "$4" {
		t.Errorf("sales tax of price = %q, want $4", val.String())
	}
}

func TestEmptyLine(t *testing.T) {
	for _, input := range []string{"", "  ", "# comment"} {
		_, err := EvalLine(input, NewEnv())
		if !errors.Is(err, ErrEmpty) {
			t.Errorf("EvalLine(%q) error = %v, want ErrEmpty", input, err)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		input string
		kind  error
		msg   string
	}{
		{"1 / 0", ErrDivisionByZero, "Division by zero"},
		{"5 mod 0", ErrDivisionByZero, "Division by zero"},
		{"missing + 1", ErrUndefinedVariable, "Undefined variable: missing"},
		{"=sum", ErrUndefinedVariable, "Undefined variable: =sum"},
		{"=average", ErrUndefinedVariable, "Undefined variable: =average"},
		{"=prev", ErrUndefinedVariable, "Undefined variable: =prev"},
		{"=subtotal", ErrUndefinedVariable, "Undefined variable: =subtotal"},
		{"$5 + €5", ErrTypeMismatch, "Cannot add values with different currencies"},
		{"5 m", ErrInvalidExpression, "Invalid expression"},
		{"$5 * $5", ErrTypeMismatch, "Unsupported unit multiplication"},
		{"$5 / 5%", ErrTypeMismatch, "Unsupported unit division"},
		{"$5 mod 2", ErrTypeMismatch, "Modulo operation only supported for unitless values"},
		{"2 ^ $2", ErrTypeMismatch, "Exponent cannot have a unit"},
		{"(0 - 8) ^ 0.5", ErrTypeMismatch, "Power result is not a valid number"},
	}

	for _, tt := range tests {
		_, err := EvalLine(tt.input, NewEnv())
		if err == nil {
			t.Errorf("EvalLine(%q) succeeded, want error", tt.input)
			continue
		}
		if !errors.Is(err, tt.kind) {
			t.Errorf("EvalLine(%q) error = %v, want kind %v", tt.input, err, tt.kind)
		}
		if tt.msg != "" && err.Error() != tt.msg {
			t.Errorf("EvalLine(%q) message = %q, want %q", tt.input, err.Error(), tt.msg)
		}
	}
}

func TestEvalErrorRange(t *testing.T) {
	_, err := EvalLine("1 + missing", NewEnv())
	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("got %v, want *EvalError", err)
	}
	r, ok := ee.Span()
	if !ok || r != (Range{Start: 4, Len: 7}) {
		t.Errorf("span = %v, %v; want [4,11), true", r, ok)
	}
}

func TestAggregateSlots(t *testing.T) {
	env := NewEnv()
	env.SetAggregate(SlotSum, WithUnit(newDecimal(t, "60"), USD))
	env.SetAggregate(SlotAvg, Scalar(newDecimal(t, "20")))
	env.SetAggregate(SlotPrev, Scalar(newDecimal(t, "7")))

	tests := []struct {
		input string
		want  string
	}{
		{"=sum", "$60"},
		{"=total", "$60"},
		{"=avg", "20"},
		{"=average * 2", "40"},
		{"=prev + 1", "8"},
	}
	for _, tt := range tests {
		val, err := EvalLine(tt.input, env)
		if err != nil {
			t.Errorf("EvalLine(%q) error: %v", tt.input, err)
			continue
		}
		if got := val.String(); got != tt.want {
			t.Errorf("EvalLine(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	// A user variable cannot shadow a slot.
	env.Set("=sum", Scalar(newDecimal(t, "1")))
	if val, _ := EvalLine("=sum", env); val.String() != "$60" {
		t.Errorf("=sum after Set(\"=sum\") = %q, want $60", val.String())
	}
}

func TestEvaluatorPrecision(t *testing.T) {
	ev := NewEvaluator(NewEnv(), 5)
	stmt, err := ParseLine("1 / 3")
	if err != nil {
		t.Fatal(err)
	}
	val, err := ev.Eval(stmt)
	if err != nil {
		t.Fatal(err)
	}
	if got := val.String(); got != "0.33333" {
		t.Errorf("1 / 3 at precision 5 = %q, want 0.33333", got)
	}
}
