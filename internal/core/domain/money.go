package domain

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// moneyScale is the fixed number of decimal places every ledger amount carries.
const moneyScale = 2

// Money is an immutable monetary amount held at a fixed scale of two decimal
// places. Inputs are rounded half away from zero exactly once at construction;
// every operation after that is exact, so two amounts are equal only when
// their decimal representations are identical. There is no epsilon anywhere.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney returns the zero amount. The Money zero value is equivalent.
func ZeroMoney() Money {
	return Money{}
}

// MoneyFromDecimal quantizes d to the ledger scale.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{amount: d.Round(moneyScale)}
}

// NewMoneyFromString parses a decimal literal such as "120.50".
func NewMoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return MoneyFromDecimal(d), nil
}

// NewMoneyFromFloat64 converts f to Money. NaN and infinities are rejected
// rather than silently coerced.
func NewMoneyFromFloat64(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}, fmt.Errorf("invalid amount %v: not a finite number", f)
	}
	return MoneyFromDecimal(decimal.NewFromFloat(f)), nil
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount)}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{amount: m.amount.Sub(o.amount)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg()}
}

// Abs returns the absolute value of m.
func (m Money) Abs() Money {
	return Money{amount: m.amount.Abs()}
}

// IsZero reports whether m is exactly zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative reports whether m is strictly below zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsPositive reports whether m is strictly above zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Cmp compares m against o: -1 when m < o, 0 when equal, 1 when m > o.
func (m Money) Cmp(o Money) int {
	return m.amount.Cmp(o.amount)
}

// Equal reports exact equality with o.
func (m Money) Equal(o Money) bool {
	return m.amount.Equal(o.amount)
}

// GreaterThan reports whether m > o.
func (m Money) GreaterThan(o Money) bool {
	return m.amount.GreaterThan(o.amount)
}

// LessThan reports whether m < o.
func (m Money) LessThan(o Money) bool {
	return m.amount.LessThan(o.amount)
}

// Decimal exposes the underlying decimal value, already at ledger scale.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String renders the amount with exactly two decimal places, e.g. "120.50".
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}

// MarshalJSON renders the amount as a quoted decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts a quoted or bare decimal literal and quantizes it.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*m = MoneyFromDecimal(d)
	return nil
}
