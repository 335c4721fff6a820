package output

import (
	"github.com/shopspring/decimal"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

// Verdicts reported by AssessForecast.
const (
	VerdictOnTrack = "on track"
	VerdictAtRisk  = "at risk"
)

// Assessment is the plain-language reading of a forecast shown at the top of reports.
type Assessment struct {
	Verdict string
	// Margin is success rate minus the success threshold, in percentage points.
	Margin decimal.Decimal
	// MedianDepletionAge is the first age at which the median balance is zero, or 0 if it never is.
	MedianDepletionAge int
	// SurchargeYears counts projected years with any IRMAA surcharge.
	SurchargeYears int
}

// AssessForecast summarizes a report for display.
// Extracted from the formatters for testability.
func AssessForecast(report *domain.ForecastReport) Assessment {
	a := Assessment{Verdict: VerdictAtRisk, Margin: decimal.Zero}
	if report.Simulation != nil {
		a.Margin = report.Simulation.SuccessRate.Sub(report.Highlights.SuccessThreshold)
		if report.Highlights.MeetsSuccessThreshold {
			a.Verdict = VerdictOnTrack
		}
		for _, ys := range report.Simulation.YearStats {
			if ys.Year > 0 && ys.Median.IsZero() {
				a.MedianDepletionAge = ys.Age
				break
			}
		}
	}
	for _, e := range report.IRMAAProjection {
		if e.Tier > domain.TierStandard {
			a.SurchargeYears++
		}
	}
	return a
}
