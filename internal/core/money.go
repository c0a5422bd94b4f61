// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents so sums never drift; the decimal
// representation only exists at the boundaries (input parsing and the
// snapshot wire format).
package core

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

var maxCents = decimal.New(1<<63-1, 0)

// MaxAmountCents caps a single amount at 100 billion units. Sums of any
// realistic number of transactions then stay far inside int64.
const MaxAmountCents int64 = 1e13

// ParseAmount converts a decimal string to Money with half-up rounding on the
// third fractional digit.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Zero,
// negative and non-finite values are rejected with a ValidationError.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("12,34")  -> 1234 cents
//	ParseAmount("12.345") -> 1235 cents
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, invalid("amount", ErrInvalidAmount)
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, invalid("amount", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, invalid("amount", ErrInvalidAmount)
	}
	m, err := MoneyFromDecimal(d)
	if err != nil {
		return Money{}, invalid("amount", err)
	}
	if err := m.Validate(); err != nil {
		return Money{}, invalid("amount", err)
	}
	return m, nil
}

// MoneyFromDecimal rounds d to cents. Values outside the int64 cent range
// are rejected.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	cents := d.Shift(2).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: cents.IntPart()}, nil
}

// Validate requires a positive amount no larger than MaxAmountCents.
func (m Money) Validate() error {
	if m.Cents <= 0 || m.Cents > MaxAmountCents {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) IsZero() bool {
	return m.Cents == 0
}

// Decimal returns the exact decimal value of m.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float64 is for spreadsheet cells only; use cents for calculations.
func (m Money) Float64() float64 {
	f, _ := m.Decimal().Float64()
	return f
}

func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both quoted decimal strings and bare numbers.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	parsed, err := MoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
