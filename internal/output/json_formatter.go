package output

import (
	"github.com/goccy/go-json"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

// JSONFormatter serializes the whole forecast report as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.ForecastReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// YearStatsJSON emits only the compact year_stats blob, the form a forecast store keeps next to
// the headline figures.
type YearStatsJSON struct{}

func (y YearStatsJSON) Name() string { return "year-stats" }

func (y YearStatsJSON) Format(report *domain.ForecastReport) ([]byte, error) {
	return EncodeYearStats(report.Simulation)
}
