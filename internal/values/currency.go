package values

import (
	"fmt"
	"strings"
)

// supportedCurrencies is the set of settlement currencies the billers accept.
var supportedCurrencies = map[string]bool{
	"USD": true,
	"EUR": true,
	"GBP": true,
	"CAD": true,
	"AUD": true,
	"CHF": true,
	"DKK": true,
	"NOK": true,
	"SEK": true,
	"JPY": true,
	"ILS": true,
}

// CurrencyCode is an ISO 4217 currency code restricted to supported settlement
// currencies.
type CurrencyCode struct {
	value string
}

// NewCurrencyCode validates and creates a CurrencyCode.
func NewCurrencyCode(value string) (CurrencyCode, error) {
	v := strings.ToUpper(value)
	if !supportedCurrencies[v] {
		return CurrencyCode{}, fmt.Errorf("unsupported currency code %q", value)
	}
	return CurrencyCode{value: v}, nil
}

func (c CurrencyCode) String() string {
	return c.value
}

// IsEmpty reports whether the code is the zero value.
func (c CurrencyCode) IsEmpty() bool {
	return c.value == ""
}

// Equals compares two currency codes.
func (c CurrencyCode) Equals(other CurrencyCode) bool {
	return c.value == other.value
}
