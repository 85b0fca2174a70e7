package lang

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// DisplayDigits is the maximum number of fractional digits shown.
const DisplayDigits = 10

// DefaultPrecision is the number of significant digits arithmetic keeps.
const DefaultPrecision = 34

// Quantity pairs a decimal magnitude with an optional unit.
// A nil Unit means the quantity is dimensionless.
type Quantity struct {
	Magnitude *apd.Decimal
	Unit      *Unit
}

// Value is the result of evaluating an expression. Today every value is a
// quantity.
type Value struct {
	Quantity
}

// Scalar returns a dimensionless value.
func Scalar(d *apd.Decimal) Value {
	return Value{Quantity{Magnitude: d}}
}

// WithUnit returns a value with the given magnitude and unit.
func WithUnit(d *apd.Decimal, u *Unit) Value {
	return Value{Quantity{Magnitude: d, Unit: u}}
}

// Decimal returns the magnitude with the unit stripped.
func (v Value) Decimal() *apd.Decimal {
	if v.Magnitude == nil {
		return new(apd.Decimal)
	}
	return v.Magnitude
}

// Equal reports whether two values have the same magnitude and unit.
func (v Value) Equal(o Value) bool {
	return v.Decimal().Cmp(o.Decimal()) == 0 && v.Unit.Equal(o.Unit)
}

// String formats the value for display: "$1,234.5", "12.5%", "42".
func (v Value) String() string {
	s := FormatDecimal(v.Decimal())
	switch {
	case v.Unit == nil:
		return s
	case v.Unit.IsCurrency():
		return v.Unit.Name + s
	case v.Unit.IsPercent():
		return s + "%"
	default:
		return s + " " + v.Unit.Name
	}
}

// FormatDecimal renders d with at most DisplayDigits fractional digits,
// trailing zeros trimmed and the integer part grouped by thousands.
func FormatDecimal(d *apd.Decimal) string {
	r := new(apd.Decimal).Set(d)
	if r.Form == apd.Finite && r.Exponent < -DisplayDigits {
		ctx := apd.BaseContext.WithPrecision(uint32(r.NumDigits()) + 2)
		ctx.Rounding = apd.RoundHalfEven
		var q apd.Decimal
		if _, err := ctx.Quantize(&q, r, -DisplayDigits); err == nil {
			r.Set(&q)
		}
	}
	r.Reduce(r)
	if r.IsZero() {
		r.Negative = false
	}
	return groupThousands(r.Text('f'))
}

// groupThousands inserts ',' between groups of three integer digits.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}
	var b strings.Builder
	b.WriteString(sign)
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(frac)
	return b.String()
}

var hundred = apd.New(100, 0)

// calc performs unit-aware decimal arithmetic with a fixed context.
type calc struct {
	ctx *apd.Context
}

func newCalc(precision uint32) calc {
	return calc{ctx: apd.BaseContext.WithPrecision(precision)}
}

// additiveUnit decides the unit of a sum. A missing unit adopts the other
// side's unit.
func additiveUnit(a, b *Unit, r Range) (*Unit, error) {
	switch {
	case a == nil:
		return b, nil
	case b == nil, a.Equal(b):
		return a, nil
	case a.IsCurrency() || b.IsCurrency():
		return nil, typeMismatch(r, msgDifferentCurrencies)
	default:
		return nil, typeMismatch(r, msgDifferentUnits)
	}
}

func (c calc) add(a, b Quantity, r Range) (Value, error) {
	unit, err := additiveUnit(a.Unit, b.Unit, r)
	if err != nil {
		return Value{}, err
	}
	res := new(apd.Decimal)
	if _, err := c.ctx.Add(res, a.Magnitude, b.Magnitude); err != nil {
		return Value{}, typeMismatch(r, msgNotANumber)
	}
	return WithUnit(res, unit), nil
}

func (c calc) sub(a, b Quantity, r Range) (Value, error) {
	neg := Quantity{Magnitude: new(apd.Decimal).Neg(b.Magnitude), Unit: b.Unit}
	return c.add(a, neg, r)
}

func (c calc) mul(a, b Quantity, r Range) (Value, error) {
	var unit *Unit
	switch {
	case a.Unit == nil:
		unit = b.Unit
	case b.Unit == nil:
		unit = a.Unit
	default:
		return Value{}, typeMismatch(r, msgUnsupportedMul)
	}
	res := new(apd.Decimal)
	if _, err := c.ctx.Mul(res, a.Magnitude, b.Magnitude); err != nil {
		return Value{}, typeMismatch(r, msgNotANumber)
	}
	return WithUnit(res, unit), nil
}

func (c calc) div(a, b Quantity, r Range) (Value, error) {
	if b.Magnitude.IsZero() {
		return Value{}, divisionByZero(r)
	}
	var unit *Unit
	switch {
	case b.Unit == nil:
		unit = a.Unit
	case a.Unit.IsCurrency() && b.Unit.IsCurrency(), a.Unit.Equal(b.Unit):
		// ratio of like quantities is dimensionless
	default:
		return Value{}, typeMismatch(r, msgUnsupportedDiv)
	}
	res := new(apd.Decimal)
	if _, err := c.ctx.Quo(res, a.Magnitude, b.Magnitude); err != nil {
		return Value{}, typeMismatch(r, msgNotANumber)
	}
	return WithUnit(res, unit), nil
}

// mod uses truncated division: the result takes the sign of the dividend.
func (c calc) mod(a, b Quantity, r Range) (Value, error) {
	if b.Magnitude.IsZero() {
		return Value{}, divisionByZero(r)
	}
	if a.Unit != nil || b.Unit != nil {
		return Value{}, typeMismatch(r, msgModuloUnits)
	}
	res := new(apd.Decimal)
	if _, err := c.ctx.Rem(res, a.Magnitude, b.Magnitude); err != nil || res.Form != apd.Finite {
		return Value{}, typeMismatch(r, msgModuloInvalid)
	}
	return Scalar(res), nil
}

func (c calc) pow(a, b Quantity, r Range) (Value, error) {
	if b.Unit != nil {
		return Value{}, typeMismatch(r, msgExponentUnit)
	}
	res := new(apd.Decimal)
	if _, err := c.ctx.Pow(res, a.Magnitude, b.Magnitude); err != nil || res.Form != apd.Finite {
		return Value{}, typeMismatch(r, msgPowerInvalid)
	}
	if a.Unit.IsCurrency() {
		return WithUnit(res, a.Unit), nil
	}
	return Scalar(res), nil
}

// percentOf computes pct/100 * base.
func (c calc) percentOf(pct, base Quantity, r Range) (Value, error) {
	res := new(apd.Decimal)
	if _, err := c.ctx.Mul(res, pct.Magnitude, base.Magnitude); err != nil {
		return Value{}, typeMismatch(r, msgNotANumber)
	}
	if _, err := c.ctx.Quo(res, res, hundred); err != nil {
		return Value{}, typeMismatch(r, msgNotANumber)
	}
	if base.Unit.IsCurrency() {
		return WithUnit(res, base.Unit), nil
	}
	return Scalar(res), nil
}

// adjust computes base ± pct/100 * base.
func (c calc) adjust(kind AdjustKind, pct, base Quantity, r Range) (Value, error) {
	delta, err := c.percentOf(pct, base, r)
	if err != nil {
		return Value{}, err
	}
	res := new(apd.Decimal)
	if kind == AdjustOn {
		_, err = c.ctx.Add(res, base.Magnitude, delta.Magnitude)
	} else {
		_, err = c.ctx.Sub(res, base.Magnitude, delta.Magnitude)
	}
	if err != nil {
		return Value{}, typeMismatch(r, msgNotANumber)
	}
	switch {
	case base.Unit.IsCurrency():
		return WithUnit(res, base.Unit), nil
	case pct.Unit.IsCurrency():
		return WithUnit(res, pct.Unit), nil
	default:
		return Scalar(res), nil
	}
}
