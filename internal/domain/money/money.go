// Package money holds currency amounts as integer minor units (cents).
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type Amount int64

var (
	hundred  = decimal.NewFromInt(100)
	minUnits = decimal.NewFromInt(math.MinInt64)
	maxUnits = decimal.NewFromInt(math.MaxInt64)
)

var ErrOutOfRange = errors.New("amount out of range")

func FromMajor(units int64) Amount {
	return Amount(units * 100)
}

// FromDecimal rounds half away from zero to the nearest cent and fails with
// ErrOutOfRange when the result does not fit in an Amount.
func FromDecimal(d decimal.Decimal) (Amount, error) {
	units := d.Shift(2).Round(0)
	if units.LessThan(minUnits) || units.GreaterThan(maxUnits) {
		return 0, fmt.Errorf("%s: %w", d.String(), ErrOutOfRange)
	}
	return Amount(units.IntPart()), nil
}

func Parse(raw string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	a, err := FromDecimal(d)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return a, nil
}

func MustParse(raw string) Amount {
	a, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

func (a Amount) Float64() float64 {
	f, _ := a.Decimal().Float64()
	return f
}

func (a Amount) Negative() bool {
	return a < 0
}

func (a Amount) Mul(factor decimal.Decimal) (Amount, error) {
	return FromDecimal(a.Decimal().Mul(factor))
}

// Percent returns a × pct / 100 rounded to cents.
func (a Amount) Percent(pct decimal.Decimal) (Amount, error) {
	return FromDecimal(a.Decimal().Mul(pct).Div(hundred))
}

// Sum adds in decimal so an int64 overflow surfaces as ErrOutOfRange instead of wrapping.
func Sum(amounts ...Amount) (Amount, error) {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Decimal())
	}
	return FromDecimal(total)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	v, err := FromDecimal(d)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	*a = v
	return nil
}
