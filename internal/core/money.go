// Package core holds the transaction domain: records, month ranges,
// price handling and the aggregate value types the analytics produce.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is a price in integer cents. Prices are kept as integers so
// that bucket boundary comparisons are exact.
type Money struct {
	Cents int64
}

// ParsePrice converts a decimal string to Money with half-up rounding
// on the third decimal place. Both dot and comma separators are
// accepted. Zero is a valid price; negative values are not.
//
// Examples:
//
//	ParsePrice("329.85") -> 32985 cents
//	ParsePrice("120")    -> 12000 cents
//	ParsePrice("1.005")  -> 101 cents (rounds up)
func ParsePrice(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidPrice
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidPrice
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidPrice
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" && fracPart == "" {
		// bare "." has no digits at all
		return Money{}, ErrInvalidPrice
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidPrice
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidPrice
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidPrice
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return Money{}, ErrInvalidPrice
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
	return Money{Cents: iv*100 + fracCents}, nil
}

// Text renders the canonical two-decimal form ("329.85", "120.00").
// Price substring search matches against exactly this rendering, so it
// must stay in sync with the SQL-side formatting in the storage layer.
func (m Money) Text() string {
	return fmt.Sprintf("%d.%02d", m.Cents/100, m.Cents%100)
}

// Float64 returns the price in currency units. Display only; use
// cents for any comparison or arithmetic.
func (m Money) Float64() float64 {
	return float64(m.Cents) / 100.0
}

// MarshalJSON emits the price as a plain JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Text()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal
// string; the upstream feed uses both over time.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "null" {
		return ErrInvalidPrice
	}
	parsed, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
