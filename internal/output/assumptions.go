package output

import (
	"fmt"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

// GenerateAssumptions lists the modeling assumptions behind a forecast, as rendered in detailed outputs.
func GenerateAssumptions(f domain.ForecastRequest) []string {
	return []string{
		fmt.Sprintf("Annual return: %s%% mean, %s%% volatility (normally distributed)", f.ExpectedReturn.String(), f.Volatility.String()),
		fmt.Sprintf("Inflation: %s%% annually, applied to contributions and withdrawals", f.InflationRate.String()),
		fmt.Sprintf("Contributions of %s/yr until age %d, withdrawals of %s/yr from then on",
			FormatCurrency(f.AnnualContribution), f.RetirementAge, FormatCurrency(f.AnnualWithdrawal)),
		"Withdrawals are indexed by inflation from the start of the forecast",
		"RMDs use the IRS Uniform Lifetime Table; distributions start at 73",
		"IRMAA brackets: 2024 levels held constant",
	}
}
