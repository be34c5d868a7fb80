// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts from strings
// and converting between satang and baht representations.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseDecimalToSatang converts a decimal string to satang with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive satang.
// Returns an error for invalid formats, negative values, or zero amounts.
//
// Examples:
//   ParseDecimalToSatang("12.34") -> 1234, nil
//   ParseDecimalToSatang("12,34") -> 1234, nil
//   ParseDecimalToSatang("12.345") -> 1234, nil (rounds down)
//   ParseDecimalToSatang("12.346") -> 1235, nil (rounds up)
func ParseDecimalToSatang(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		// Only positive values allowed
		return 0, ErrInvalidAmount
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
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracSatang int64 = 0
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracSatang = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracSatang += d2
			if len(fracPart) > 2 {
				if fracPart[2] >= '5' {
					fracSatang++
				}
			}
		}
	}
	satang := iv*100 + fracSatang
	if satang <= 0 {
		return 0, ErrInvalidAmount
	}
	return satang, nil
}

// Baht returns the baht value as a float64 for display purposes.
// Use satang for calculations to avoid floating-point precision issues.
func (m Money) Baht() float64 {
	return float64(m.Satang) / 100.0
}

// DecimalString renders the amount without a currency symbol: whole baht
// amounts have no fractional part ("100"), others keep two digits ("12.50").
// This matches how amounts are written to the spreadsheet and the CSV export.
func (m Money) DecimalString() string {
	baht := m.Satang / 100
	rem := m.Satang % 100
	if rem < 0 {
		rem = -rem
	}
	if rem == 0 {
		return strconv.FormatInt(baht, 10)
	}
	return strconv.FormatInt(baht, 10) + "." + twoDigits(rem)
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
