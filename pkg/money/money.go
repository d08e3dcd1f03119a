package money

import "github.com/shopspring/decimal"

// All monetary amounts on the platform are major-unit decimals with two
// fractional digits. Arithmetic stays in decimal form end to end; float64
// never touches a stored amount.

// Round2 rounds to 2 decimal places, half up. Every monetary value passes
// through this before it is persisted or compared.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Cents converts a major-unit amount to integer minor units (e.g. 12.34 -> 1234).
func Cents(d decimal.Decimal) int64 {
	return Round2(d).Shift(2).IntPart()
}

// FromCents converts integer minor units back to a major-unit decimal.
func FromCents(n int64) decimal.Decimal {
	return decimal.New(n, -2)
}

// MinorUnit is the smallest representable amount (one cent).
var MinorUnit = decimal.New(1, -2)
