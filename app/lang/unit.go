package lang

import (
	"github.com/cockroachdb/apd/v3"
	"golang.org/x/text/currency"
)

// UnitKind categorises a unit. Arithmetic never converts between kinds.
type UnitKind int

const (
	UnitScalar UnitKind = iota
	UnitLength
	UnitMass
	UnitCurrency
	UnitPercent
)

func (k UnitKind) String() string {
	switch k {
	case UnitScalar:
		return "scalar"
	case UnitLength:
		return "length"
	case UnitMass:
		return "mass"
	case UnitCurrency:
		return "currency"
	case UnitPercent:
		return "percent"
	}
	return "unknown"
}

// Unit describes a unit of measure.
type Unit struct {
	Name     string
	Kind     UnitKind
	ToBase   *apd.Decimal  // optional factor to the kind's base unit
	Currency currency.Unit // set for UnitCurrency
}

// Equal compares units by name and kind. A nil unit only equals nil.
func (u *Unit) Equal(o *Unit) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.Name == o.Name && u.Kind == o.Kind
}

// IsCurrency reports whether u is a currency unit. Safe on nil.
func (u *Unit) IsCurrency() bool {
	return u != nil && u.Kind == UnitCurrency
}

// IsPercent reports whether u is the percent unit. Safe on nil.
func (u *Unit) IsPercent() bool {
	return u != nil && u.Kind == UnitPercent
}

// Code returns the ISO 4217 code for currency units and "" otherwise.
func (u *Unit) Code() string {
	if !u.IsCurrency() {
		return ""
	}
	return u.Currency.String()
}

func (u *Unit) String() string {
	if u == nil {
		return ""
	}
	return u.Name
}

var (
	USD     = &Unit{Name: "$", Kind: UnitCurrency, Currency: currency.USD}
	EUR     = &Unit{Name: "€", Kind: UnitCurrency, Currency: currency.EUR}
	GBP     = &Unit{Name: "£", Kind: UnitCurrency, Currency: currency.GBP}
	JPY     = &Unit{Name: "¥", Kind: UnitCurrency, Currency: currency.JPY}
	Percent = &Unit{Name: "%", Kind: UnitPercent}
)

var currencyBySymbol = map[string]*Unit{
	"$": USD,
	"€": EUR,
	"£": GBP,
	"¥": JPY,
}

// LookupCurrency returns the currency unit for a symbol, or nil.
func LookupCurrency(symbol string) *Unit {
	return currencyBySymbol[symbol]
}
