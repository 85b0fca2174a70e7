package lang

import (
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"
	"golang.org/x/text/language"
)

// LineResult is the outcome of one document line. At most one of Value and
// Err is set; both are nil for blank lines, comments and a =prev with no
// history.
type LineResult struct {
	Index int
	Range Range // absolute, in UTF-16 code units
	Value *Value
	Err   error

	lang language.Tag
}

// Display returns the formatted value, or "" when there is none.
func (r LineResult) Display() string {
	if r.Value == nil {
		return ""
	}
	return r.Value.String()
}

// UnitCode returns the ISO 4217 code of a currency result, or "".
func (r LineResult) UnitCode() string {
	if r.Value == nil {
		return ""
	}
	return r.Value.Unit.Code()
}

// ErrorMessage returns the error in the engine's language, or "".
func (r LineResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return LocalizeError(r.Err, r.lang)
}

// ErrorRange returns the absolute source range of the error, if it has one.
func (r LineResult) ErrorRange() (Range, bool) {
	s, ok := r.Err.(interface{ Span() (Range, bool) })
	if !ok {
		return Range{}, false
	}
	rng, has := s.Span()
	if !has {
		return Range{}, false
	}
	return rng.Offset(r.Range.Start), true
}

// EvaluationResult holds one LineResult per document line plus the sum of
// every line that does not read an aggregate.
type EvaluationResult struct {
	Lines []LineResult
	Sum   *apd.Decimal
}

// Option configures an Engine.
type Option func(*Engine)

// WithPrecision sets the number of significant digits used for arithmetic.
func WithPrecision(digits uint32) Option {
	return func(e *Engine) {
		if digits > 0 {
			e.precision = digits
		}
	}
}

// WithLanguage sets the language of error messages.
func WithLanguage(tag language.Tag) Option {
	return func(e *Engine) {
		e.lang = tag
	}
}

// Engine evaluates whole documents. An Engine is not safe for concurrent use.
type Engine struct {
	env       *Env
	ev        *Evaluator
	precision uint32
	lang      language.Tag
}

// NewEngine returns an engine with a fresh environment.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{precision: DefaultPrecision, lang: language.English}
	for _, opt := range opts {
		opt(e)
	}
	e.env = NewEnv()
	e.ev = NewEvaluator(e.env, e.precision)
	return e
}

// Language returns the language errors are rendered in.
func (e *Engine) Language() language.Tag { return e.lang }

// Reset clears all variables and aggregate slots.
func (e *Engine) Reset() { e.env.Clear() }

// Vars returns a copy of the variables left by the last evaluation.
func (e *Engine) Vars() map[string]Value { return e.env.Vars() }

// Names returns the variable names left by the last evaluation, sorted.
func (e *Engine) Names() []string { return e.env.Names() }

// docLine is the per-line state carried between passes.
type docLine struct {
	rng      Range
	stmt     Statement
	parseErr error
	usage    Usage
	deferred bool // reads an aggregate-tainted variable
	subDep   bool // reads a subtotal-tainted variable
}

func (l *docLine) assigns() (string, bool) {
	if a, ok := l.stmt.(*Assignment); ok {
		return a.Name, true
	}
	return "", false
}

// EvaluateAll evaluates every line of src against a freshly cleared
// environment.
func (e *Engine) EvaluateAll(src string) EvaluationResult {
	e.Reset()

	lines := parseLines(src)
	markDependencies(lines)

	results := make([]LineResult, len(lines))
	for i, ln := range lines {
		results[i] = LineResult{Index: i, Range: ln.rng, Err: ln.parseErr, lang: e.lang}
	}

	// Pass 1: everything that does not need an aggregate.
	var global accumulator
	for i, ln := range lines {
		if ln.stmt == nil || ln.usage.Aggregate || ln.usage.Subtotal || ln.deferred {
			continue
		}
		e.evalInto(&results[i], ln)
		if results[i].Value != nil {
			global.add(e.ev.calc.ctx, *results[i].Value)
		}
	}
	e.env.SetAggregate(SlotSum, global.total())
	e.env.SetAggregate(SlotAvg, global.average(e.ev.calc.ctx))

	// Pass 2: aggregate readers and their dependents.
	for i, ln := range lines {
		if ln.stmt == nil || !(ln.usage.Aggregate || ln.deferred) {
			continue
		}
		e.setPrev(results, i, ln)
		e.evalInto(&results[i], ln)
	}

	// Pass 3: subtotal segments.
	var seg accumulator
	for i, ln := range lines {
		switch {
		case ln.usage.Subtotal:
			e.env.SetAggregate(SlotSubtotal, seg.total())
			e.setPrev(results, i, ln)
			e.evalInto(&results[i], ln)
			seg = accumulator{}
			continue
		case ln.subDep:
			e.setPrev(results, i, ln)
			e.evalInto(&results[i], ln)
		}
		if !ln.usage.Aggregate && results[i].Value != nil {
			seg.add(e.ev.calc.ctx, *results[i].Value)
		}
	}

	return EvaluationResult{Lines: results, Sum: &global.sum}
}

func (e *Engine) evalInto(res *LineResult, ln *docLine) {
	res.Value, res.Err = nil, nil
	v, err := e.ev.Eval(ln.stmt)
	switch {
	case err == nil:
		res.Value = &v
	case isUndefinedPrev(err):
		// Nothing above to refer to yet.
	default:
		res.Err = err
	}
}

// setPrev points =prev at the nearest earlier line that has a value, or
// clears it so the reference reports as undefined.
func (e *Engine) setPrev(results []LineResult, i int, ln *docLine) {
	if !ln.usage.Prev {
		return
	}
	for j := i - 1; j >= 0; j-- {
		if results[j].Value != nil {
			e.env.SetAggregate(SlotPrev, *results[j].Value)
			return
		}
	}
	e.env.ClearAggregate(SlotPrev)
}

func parseLines(src string) []*docLine {
	var lines []*docLine
	for _, sl := range splitLines(src) {
		ln := &docLine{rng: sl.rng}
		ln.stmt, ln.parseErr = ParseLine(sl.text)
		if ln.parseErr != nil {
			ln.stmt = nil
		}
		ln.usage = Analyze(ln.stmt)
		lines = append(lines, ln)
	}
	return lines
}

// markDependencies propagates aggregate and subtotal taint through
// assignment chains until nothing changes.
func markDependencies(lines []*docLine) {
	tainted := map[string]bool{}
	subTainted := map[string]bool{}
	for _, ln := range lines {
		name, ok := ln.assigns()
		if !ok {
			continue
		}
		if ln.usage.Aggregate || ln.usage.Subtotal {
			tainted[name] = true
		}
		if ln.usage.Subtotal {
			subTainted[name] = true
		}
	}

	for changed := true; changed; {
		changed = false
		for _, ln := range lines {
			if ln.deferred || ln.usage.Aggregate || ln.usage.Subtotal || !ln.usage.References(tainted) {
				continue
			}
			ln.deferred = true
			changed = true
			if name, ok := ln.assigns(); ok {
				tainted[name] = true
			}
		}
	}

	for changed := true; changed; {
		changed = false
		for _, ln := range lines {
			if ln.subDep || ln.usage.Subtotal || !ln.usage.References(subTainted) {
				continue
			}
			ln.subDep = true
			changed = true
			if name, ok := ln.assigns(); ok {
				subTainted[name] = true
			}
		}
	}
}

// accumulator sums line values, tracking a single currency. Mixed
// currencies make the total unitless.
type accumulator struct {
	sum      apd.Decimal
	count    int64
	unit     *Unit
	conflict bool
}

func (a *accumulator) add(ctx *apd.Context, v Value) {
	_, _ = ctx.Add(&a.sum, &a.sum, v.Decimal())
	a.count++
	if !v.Unit.IsCurrency() || a.conflict {
		return
	}
	switch {
	case a.unit == nil:
		a.unit = v.Unit
	case !a.unit.Equal(v.Unit):
		a.unit, a.conflict = nil, true
	}
}

func (a *accumulator) total() Value {
	return WithUnit(new(apd.Decimal).Set(&a.sum), a.unit)
}

func (a *accumulator) average(ctx *apd.Context) Value {
	avg := new(apd.Decimal)
	if a.count > 0 {
		_, _ = ctx.Quo(avg, &a.sum, apd.New(a.count, 0))
	}
	return WithUnit(avg, a.unit)
}

// SplitLines returns the lines of src as EvaluateAll sees them.
func SplitLines(src string) []string {
	sls := splitLines(src)
	out := make([]string, len(sls))
	for i, sl := range sls {
		out[i] = sl.text
	}
	return out
}

type sourceLine struct {
	text string
	rng  Range
}

// splitLines breaks src at every line separator. "\r\n" counts once.
// Ranges are absolute offsets in UTF-16 code units.
func splitLines(src string) []sourceLine {
	var out []sourceLine
	start, off := 0, 0
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		sepLen, sepUnits := 0, 0
		switch r {
		case '\r':
			sepLen, sepUnits = 1, 1
			if i+1 < len(src) && src[i+1] == '\n' {
				sepLen, sepUnits = 2, 2
			}
		case '\n', '\v', '\f', '\u0085', '\u2028', '\u2029':
			sepLen, sepUnits = size, 1
		}
		if sepLen == 0 {
			i += size
			continue
		}
		text := src[start:i]
		n := UTF16Len(text)
		out = append(out, sourceLine{text: text, rng: Range{Start: off, Len: n}})
		off += n + sepUnits
		i += sepLen
		start = i
	}
	text := src[start:]
	out = append(out, sourceLine{text: text, rng: Range{Start: off, Len: UTF16Len(text)}})
	return out
}
