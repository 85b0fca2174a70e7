package lang

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

// displays returns each line's display string, or "!" for lines with errors.
func displays(res EvaluationResult) []string {
	out := make([]string, len(res.Lines))
	for i, l := range res.Lines {
		if l.Err != nil {
			out[i] = "!"
			continue
		}
		out[i] = l.Display()
	}
	return out
}

func TestEvaluateAll(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
		sum  string
	}{
		{"sum", "10\n20\n30\n=sum", []string{"10", "20", "30", "60"}, "60"},
		{"total", "10\n20\n=total", []string{"10", "20", "30"}, "30"},
		{"average", "10\n20\n=avg\n=average", []string{"10", "20", "15", "15"}, "30"},
		{"currency sum", "$100\n50\n=sum", []string{"$100", "50", "$150"}, "150"},
		{"mixed currencies", "$100\n€50\n=sum", []string{"$100", "€50", "150"}, "150"},
		{"empty aggregate", "=sum\n=avg", []string{"0", "0"}, "0"},
		{"aggregate ignores errors", "10\n1 / 0\nfoo +\n=sum", []string{"10", "!", "!", "10"}, "10"},
		{"blank and comment lines", "10\n\n# note\n20\n=sum", []string{"10", "", "", "20", "30"}, "30"},
		{"prev", "5\n=prev * 2", []string{"5", "10"}, "5"},
		{"prev first line", "=prev + 10", []string{""}, "0"},
		{"prev skips blanks", "7\n\n=prev", []string{"7", "", "7"}, "7"},
		{"prev chains", "1\n=prev + 1\n=prev + 1", []string{"1", "2", "3"}, "1"},
		{"prev skips errors", "4\nnope\n=prev", []string{"4", "!", "4"}, "4"},
		{"subtotal", "$10\n$20\n=subtotal\n5\n15\n=subtotal", []string{"$10", "$20", "$30", "5", "15", "20"}, "50"},
		{"subtotal at start", "=subtotal\n10", []string{"0", "10"}, "10"},
		{"subtotal leaves sum", "10\n20\n=subtotal\n5", []string{"10", "20", "30", "5"}, "35"},
		{"subtotal plus", "10\n=subtotal + 5", []string{"10", "15"}, "10"},
		{"subtotal assigned", "10\n20\npartial = =subtotal\npartial * 2", []string{"10", "20", "30", "60"}, "30"},
		{"subtotal after aggregate", "10\n=sum\n=subtotal", []string{"10", "10", "10"}, "10"},
		{"multi-word", "my favorite number = 42\nmy favorite number * 2", []string{"42", "84"}, "126"},
		{"taint chain", "a = 10\nb = =total\nc = b + 5\na + c", []string{"10", "10", "15", "25"}, "10"},
		{"forward taint", "c = b + 5\nb = =total\n3", []string{"!", "3", "3"}, "3"},
		{"percent lines", "20% of 10\n5% on 30\n40 - 6%\n10 * 20%", []string{"2", "31.5", "37.6", "2"}, "73.1"},
		{"mod lines", "5 mod 2\n-5 mod 2\n5 mod -2\n-5 mod -2\n5 mod 0", []string{"1", "-1", "1", "-1", "!"}, "0"},
	}

	for _, tt := range tests {
		res := NewEngine().EvaluateAll(tt.doc)
		got := displays(res)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("%s: EvaluateAll(%q) = %q, want %q", tt.name, tt.doc, got, tt.want)
		}
		if s := FormatDecimal(res.Sum); s != tt.sum {
			t.Errorf("%s: sum = %s, want %s", tt.name, s, tt.sum)
		}
	}
}

func TestForwardTaintDisplay(t *testing.T) {
	// b is assigned from an aggregate below c, so c reads it before it exists.
	res := NewEngine().EvaluateAll("c = b + 5\nb = =total\n3")
	if !errors.Is(res.Lines[0].Err, ErrUndefinedVariable) {
		t.Errorf("line 1 error = %v, want undefined variable", res.Lines[0].Err)
	}
	if got := res.Lines[2].Display(); got != "3" {
		t.Errorf("line 3 = %q, want 3", got)
	}
}

func TestPrevEmptyHasNoError(t *testing.T) {
	res := NewEngine().EvaluateAll("=prev + 10")
	l := res.Lines[0]
	if l.Value != nil || l.Err != nil {
		t.Errorf("=prev on first line = %v, %v; want nil, nil", l.Value, l.Err)
	}
	if l.ErrorMessage() != "" {
		t.Errorf("ErrorMessage() = %q, want empty", l.ErrorMessage())
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		doc  string
		want int
	}{
		{"", 1},
		{"1", 1},
		{"1\n", 2},
		{"1\n2\n3", 3},
		{"\n\n", 3},
		{"1\r\n2", 2},
		{"1\r2\n3", 3},
		{"1\u20282\u20293", 3},
		{"1\u00852\v3\f4", 4},
	}
	for _, tt := range tests {
		res := NewEngine().EvaluateAll(tt.doc)
		if len(res.Lines) != tt.want {
			t.Errorf("EvaluateAll(%q) gave %d lines, want %d", tt.doc, len(res.Lines), tt.want)
		}
		for i, l := range res.Lines {
			if l.Index != i {
				t.Errorf("EvaluateAll(%q) line %d has index %d", tt.doc, i, l.Index)
			}
		}
	}
}

func TestLineRanges(t *testing.T) {
	res := NewEngine().EvaluateAll("€5\r\nab\n\n😀 = 1")
	want := []Range{
		{Start: 0, Len: 2},
		{Start: 4, Len: 2},
		{Start: 7, Len: 0},
		{Start: 8, Len: 6},
	}
	for i, r := range want {
		if res.Lines[i].Range != r {
			t.Errorf("line %d range = %v, want %v", i, res.Lines[i].Range, r)
		}
	}
}

func TestErrorRange(t *testing.T) {
	res := NewEngine().EvaluateAll("1\n2 + missing")
	r, ok := res.Lines[1].ErrorRange()
	if !ok || r != (Range{Start: 6, Len: 7}) {
		t.Errorf("ErrorRange = %v, %v; want [6,13), true", r, ok)
	}

	res = NewEngine().EvaluateAll("1 +")
	if _, ok := res.Lines[0].ErrorRange(); ok {
		t.Errorf("end of input error should have no range")
	}
	if _, ok := (LineResult{}).ErrorRange(); ok {
		t.Errorf("line without error should have no range")
	}
}

func TestIdempotent(t *testing.T) {
	doc := "rent = $1,200\nfood = $300\n=sum\ntip = 15% of food\n=prev\n=subtotal\nbad +"
	e := NewEngine()
	first := displays(e.EvaluateAll(doc))
	second := displays(e.EvaluateAll(doc))
	e.Reset()
	third := displays(e.EvaluateAll(doc))
	fresh := displays(NewEngine().EvaluateAll(doc))
	for _, got := range [][]string{second, third, fresh} {
		if strings.Join(got, "|") != strings.Join(first, "|") {
			t.Errorf("re-evaluation = %q, want %q", got, first)
		}
	}
}

func TestNoLeakBetweenDocuments(t *testing.T) {
	e := NewEngine()
	e.EvaluateAll("x = 5")
	res := e.EvaluateAll("x")
	if !errors.Is(res.Lines[0].Err, ErrUndefinedVariable) {
		t.Errorf("x after new document = %v, want undefined variable", res.Lines[0].Err)
	}
}

func TestEngineVars(t *testing.T) {
	e := NewEngine()
	res := e.EvaluateAll("a = 1\nb c = $2\nd = =sum")
	if got := strings.Join(e.Names(), ","); got != "a,b c,d" {
		t.Errorf("Names() = %q, want a,b c,d", got)
	}
	if res.Lines[0].UnitCode() != "" || res.Lines[1].UnitCode() != "USD" || res.Lines[2].UnitCode() != "USD" {
		t.Errorf("unit codes = %q %q %q", res.Lines[0].UnitCode(), res.Lines[1].UnitCode(), res.Lines[2].UnitCode())
	}
	vars := e.Vars()
	if len(vars) != 3 {
		t.Fatalf("Vars() = %v, want 3 entries", vars)
	}
	if got := vars["b c"].String(); got != "$2" {
		t.Errorf("b c = %q, want $2", got)
	}
	if got := vars["d"].String(); got != "$3" {
		t.Errorf("d = %q, want $3", got)
	}
	e.Reset()
	if len(e.Vars()) != 0 || len(e.Names()) != 0 {
		t.Errorf("Vars() after Reset = %v, want empty", e.Vars())
	}
}

func TestEngineOptions(t *testing.T) {
	e := NewEngine(WithLanguage(language.German), WithPrecision(4))
	if e.Language() != language.German {
		t.Errorf("Language() = %v, want de", e.Language())
	}
	res := e.EvaluateAll("1 / 0\n2 / 3")
	if got := res.Lines[0].ErrorMessage(); got != "Division durch null" {
		t.Errorf("ErrorMessage() = %q, want German", got)
	}
	if got := res.Lines[1].Display(); got != "0.6667" {
		t.Errorf("2 / 3 at precision 4 = %q, want 0.6667", got)
	}

	// A zero precision keeps the default.
	if got := NewEngine(WithPrecision(0)).EvaluateAll("1 / 3").Lines[0].Display(); got != "0.3333333333" {
		t.Errorf("1 / 3 = %q, want 0.3333333333", got)
	}
}

func TestUsage(t *testing.T) {
	tests := []struct {
		input string
		agg   bool
		prev  bool
		sub   bool
		vars  string
	}{
		{"1 + 2", false, false, false, ""},
		{"a + b c", false, false, false, "a,b c"},
		{"x = =sum * rate", true, false, false, "rate"},
		{"-(=prev) % of y", true, true, false, "y"},
		{"5% on =subtotal", false, false, true, ""},
	}
	for _, tt := range tests {
		stmt, err := ParseLine(tt.input)
		if err != nil {
			t.Errorf("ParseLine(%q) error: %v", tt.input, err)
			continue
		}
		u := Analyze(stmt)
		if u.Aggregate != tt.agg || u.Prev != tt.prev || u.Subtotal != tt.sub {
			t.Errorf("Analyze(%q) = agg %v prev %v sub %v, want %v %v %v", tt.input, u.Aggregate, u.Prev, u.Subtotal, tt.agg, tt.prev, tt.sub)
		}
		var names []string
		for _, n := range []string{"a", "b c", "rate", "y", "x"} {
			if u.Vars[n] {
				names = append(names, n)
			}
		}
		if got := strings.Join(names, ","); got != tt.vars {
			t.Errorf("Analyze(%q) vars = %q, want %q", tt.input, got, tt.vars)
		}
	}
}
