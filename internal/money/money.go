// Package money parses and formats currency amounts.
//
// Amounts are decimal.Decimal values rounded to cents. Raw user input goes
// through Parse and is rendered back with Format.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept on every amount.
const Places = 2

var (
	// ErrInvalidAmount is returned for malformed, zero or negative input.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAmountTooLarge is returned for input above Max.
	ErrAmountTooLarge = errors.New("amount too large")
)

// Max is the largest amount Parse accepts.
var Max = decimal.New(1, 12)

// Parse converts a positive decimal string to an amount.
//
// Both "12.34" and "12,34" are accepted. Extra fractional digits round
// half-up to the cent.
//
//	Parse("12.5")   -> 12.50
//	Parse("12.345") -> 12.35
//	Parse("0")      -> ErrInvalidAmount
func Parse(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if !plain(s) {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	d = d.Round(Places)
	if d.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.GreaterThan(Max) {
		return decimal.Zero, ErrAmountTooLarge
	}
	return d, nil
}

// plain reports whether s is digits with at most one decimal point. Signs
// and exponents are refused.
func plain(s string) bool {
	dot, n := false, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			n++
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return n > 0
}

// Format renders d with exactly two decimals, e.g. "-112.50".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}
