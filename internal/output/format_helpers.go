package output

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-forecaster/pkg/money"
)

// FormatCurrency formats a decimal as USD currency with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return money.Format(amount) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

func intToString(i int) string { return strconv.Itoa(i) }
