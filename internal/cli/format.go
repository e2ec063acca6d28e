// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"math"

	"github.com/dustin/go-humanize"
)

// FormatMoney formats an amount with thousands separators and a currency prefix.
// e.g., (1462500, "IDR", 0) -> "IDR 1,462,500"
func FormatMoney(amount float64, currency string, digits int) string {
	s := humanize.CommafWithDigits(round(amount, digits), digits)
	if currency == "" {
		return s
	}
	return currency + " " + s
}

// FormatPercent formats a fraction as a percentage.
// e.g., 0.25 -> "+25%"
func FormatPercent(fraction float64) string {
	pct := humanize.FtoaWithDigits(round(fraction*100, 2), 2)
	if fraction > 0 {
		return "+" + pct + "%"
	}
	return pct + "%"
}

// FormatMultiplier formats a unit adjustment factor.
// e.g., 0.9 -> "×0.9"
func FormatMultiplier(f float64) string {
	return "×" + humanize.FtoaWithDigits(round(f, 4), 4)
}

// FormatQuantity formats an order quantity with separators.
func FormatQuantity(q float64) string {
	return humanize.CommafWithDigits(round(q, 3), 3)
}

func round(f float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(f*p) / p
}
