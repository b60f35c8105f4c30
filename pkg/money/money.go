package money

import "math"

// ToCents converts an amount to integer cents, rounding half away from zero.
func ToCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromCents converts cents back to a 2-decimal amount.
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// Round2 rounds to 2 decimals, half away from zero.
func Round2(v float64) float64 {
	return FromCents(ToCents(v))
}
