// Package core provides money parsing and handling utilities.
//
// Amounts are decimals so that sums and percentages do not drift the way
// binary floats do when many small expenses are added up.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol prefixes formatted amounts unless configured otherwise.
const DefaultCurrencySymbol = "₹"

// StoredFractionDigits is the precision amounts keep in the data file.
const StoredFractionDigits = 6

type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MoneyFromFloat converts a float amount, mostly useful in tests and fixtures.
func MoneyFromFloat(f float64) Money {
	return Money{Decimal: decimal.NewFromFloat(f)}
}

// Validate rejects amounts that are not positive once rounded to the stored
// precision.
func (m Money) Validate() error {
	if !m.Round(StoredFractionDigits).IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

// Format renders the amount with two fractional digits behind symbol, e.g. "₹12.50".
func (m Money) Format(symbol string) string {
	return symbol + m.StringFixed(2)
}

// ParseAmount parses a user-entered amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. The result
// must stay strictly positive at StoredFractionDigits; anything else yields
// ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-1")    -> ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	m := Money{Decimal: d}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}
