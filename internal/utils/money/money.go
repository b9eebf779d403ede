// Package money centralizes currency arithmetic rules. All amounts are
// rounded to 2 decimal places before any comparison or storage so that
// repeated charge/payment cycles cannot accumulate floating-point drift.
package money

import "github.com/shopspring/decimal"

// ManualChargeCeiling is the maximum amount accepted for a manual utang
// charge (currency ceiling).
var ManualChargeCeiling = decimal.NewFromInt(10_000_000)

// Round2 normalizes an amount to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Change returns max(0, paid - total), rounded.
func Change(paid, total decimal.Decimal) decimal.Decimal {
	c := Round2(paid.Sub(total))
	if c.IsNegative() {
		return decimal.Zero.Round(2)
	}
	return c
}
