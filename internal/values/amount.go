// Package values holds the immutable, self-validating primitives shared by the
// purchase engine: money amounts, customer identity fields, and UUID-backed ids.
package values

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a non-negative monetary value with exact decimal arithmetic.
type Amount struct {
	value decimal.Decimal
}

// NewAmount creates an Amount from a float, as received in API payloads.
func NewAmount(value float64) (Amount, error) {
	d := decimal.NewFromFloat(value)
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("amount must not be negative, got %v", value)
	}
	return Amount{value: d}, nil
}

// NewAmountFromString creates an Amount from its decimal string form.
func NewAmountFromString(value string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("amount must not be negative, got %s", value)
	}
	return Amount{value: d}, nil
}

// Float64 returns the amount as a float, for payload serialization.
func (a Amount) Float64() float64 {
	f, _ := a.value.Float64()
	return f
}

// String renders the amount with two decimal places.
func (a Amount) String() string {
	return a.value.StringFixed(2)
}

// Add returns the sum of two amounts.
func (a Amount) Add(other Amount) Amount {
	return Amount{value: a.value.Add(other.value)}
}

// Equals compares two amounts by numeric value.
func (a Amount) Equals(other Amount) bool {
	return a.value.Equal(other.value)
}

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}
