package calculation

import (
	"slices"

	"github.com/rpgo/retirement-forecaster/internal/domain"
	"github.com/rpgo/retirement-forecaster/pkg/money"
)

// nearestRank returns sorted[floor(p*n)] without interpolation, clamped to the last element.
func nearestRank(sorted []float64, p float64) float64 {
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Aggregate computes the success rate, final-balance percentiles and per-year statistics of ps.
func Aggregate(ps *PathSet, currentAge int) *domain.SimulationResult {
	buf := make([]float64, 0, ps.NumPaths())

	finals := ps.column(ps.TotalYears(), buf)
	succeeded := 0
	for _, b := range finals {
		if b > 0 {
			succeeded++
		}
	}
	slices.Sort(finals)

	result := &domain.SimulationResult{
		SuccessRate:         money.Percent(succeeded, ps.NumPaths()),
		MedianFinalBalance:  money.FromFloat(nearestRank(finals, 0.5)),
		Percentile10Balance: money.FromFloat(max(0, nearestRank(finals, 0.10))),
		Percentile90Balance: money.FromFloat(nearestRank(finals, 0.90)),
		NumSimulations:      ps.NumPaths(),
		TotalYears:          ps.TotalYears(),
		YearStats:           make([]domain.YearStat, 0, ps.TotalYears()+1),
	}

	for idx := 0; idx <= ps.TotalYears(); idx++ {
		col := ps.column(idx, buf)
		slices.Sort(col)
		result.YearStats = append(result.YearStats, domain.YearStat{
			Year:   idx,
			Age:    currentAge + idx,
			Median: money.FromFloat(nearestRank(col, 0.5)),
			P10:    money.FromFloat(nearestRank(col, 0.10)),
			P90:    money.FromFloat(nearestRank(col, 0.90)),
			Min:    money.FromFloat(col[0]),
			Max:    money.FromFloat(col[len(col)-1]),
		})
	}
	return result
}
