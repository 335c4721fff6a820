// Package money holds the rounding and formatting rules shared by every monetary output.
package money

import (
	"github.com/shopspring/decimal"
)

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// FromFloat converts a simulated float64 amount to a decimal rounded to cents.
func FromFloat(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x).Round(2)
}

// Cents rounds d to two decimal places (half away from zero).
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Annualize converts a monthly amount to an annual one.
func Annualize(monthly decimal.Decimal) decimal.Decimal {
	return monthly.Mul(monthsPerYear)
}

// GrowthFactor turns a percentage rate into a multiplier, 5 -> 1.05.
func GrowthFactor(ratePercent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(ratePercent.Div(hundred))
}

// Percent returns part/whole*100 rounded to cents. A zero whole yields zero.
func Percent(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole))).Round(2)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Format renders d as a dollar amount with two decimals.
func Format(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
