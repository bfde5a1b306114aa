// Package core holds the ledger entities and the pure aggregation
// functions that turn them into derived views. Nothing in this package
// performs I/O; all inputs are already-loaded collections.
package core

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in cents. Calculations stay in integer cents;
// floats appear only at the JSON boundary and in percentages.
type Money struct {
	Cents int64
}

// Float returns the decimal value for display and serialization.
func (m Money) Float() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) Add(o Money) Money        { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money        { return Money{Cents: m.Cents - o.Cents} }
func (m Money) IsPositive() bool         { return m.Cents > 0 }
func (m Money) GreaterThan(o Money) bool { return m.Cents > o.Cents }

// MarshalJSON encodes the amount as a plain 2-decimal number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float(), 'f', 2, 64)), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string,
// with dot or comma separators.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		m.Cents = 0
		return nil
	}
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

// ParseDecimalToCents converts a decimal string to cents with half-up
// rounding on the third decimal place. Both dot (12.34) and comma
// (12,34) separators are accepted; a leading '-' yields negative cents.
//
// Examples:
//
//	ParseDecimalToCents("12.34")  -> 1234
//	ParseDecimalToCents("12,345") -> 1235 (rounds up)
//	ParseDecimalToCents("-5")     -> -500
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}

	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// SumMoney adds a slice of amounts.
func SumMoney(amounts []Money) Money {
	var total Money
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Round2 rounds to two decimal places, the precision used for every
// reported percentage.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PercentOf reports part/whole as a 2-decimal percentage. A non-positive
// whole yields 0 rather than an error: zero-amount budgets, debts, and
// goals report 0%.
func PercentOf(part, whole Money) float64 {
	if whole.Cents <= 0 {
		return 0
	}
	return Round2(float64(part.Cents) / float64(whole.Cents) * 100)
}
