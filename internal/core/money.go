// Package core holds the domain model: money, ledger aggregation and
// rental billing arithmetic.
//
// Money is stored as int64 paisa (the minor unit; both supported
// currencies use 2 decimal digits). Rounding happens only when parsing
// user input and when formatting for display, never in between.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor units (paisa for NPR, cents for USD).
type Money struct {
	Paisa int64
}

// ParseAmount converts a decimal string to Money with half-up rounding
// on the third decimal place. Both dot and comma separators are
// accepted. Negative values and malformed input are rejected outright
// rather than coerced, so NaN-like garbage never reaches a total.
//
// Examples:
//
//	ParseAmount("1250")    -> 125000 paisa
//	ParseAmount("12.34")   -> 1234
//	ParseAmount("12,345")  -> 1235 (rounds up)
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Money{}, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return Money{}, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return Money{}, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return Money{}, ErrInvalidAmount
	}
	var frac int64
	if len(fracPart) > 0 {
		frac = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			frac += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				frac++
			}
		}
	}
	return Money{Paisa: iv*100 + frac}, nil
}

// MoneyFromDecimal converts a decimal amount to Money, rounding
// half-up at the second decimal place. This is the single point where
// billing arithmetic meets stored amounts.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{Paisa: d.Shift(2).Round(0).IntPart()}
}

// Decimal returns the exact decimal value of the amount.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Paisa, -2)
}

// Units returns the major-unit value as float64 for display only.
// Use paisa for all computation.
func (m Money) Units() float64 {
	return float64(m.Paisa) / 100.0
}

// Format renders the amount with its currency code, e.g. "NPR 1250.00".
func (m Money) Format(c Currency) string {
	neg := m.Paisa < 0
	p := m.Paisa
	if neg {
		p = -p
	}
	s := fmt.Sprintf("%s %d.%02d", c, p/100, p%100)
	if neg {
		return "-" + s
	}
	return s
}
