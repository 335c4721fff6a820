package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

// YearStatsCSV writes one row per simulated year with the balance distribution at that year.
type YearStatsCSV struct{}

func (c YearStatsCSV) Name() string { return "csv" }

func (c YearStatsCSV) Format(report *domain.ForecastReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Year", "Age", "Median", "P10", "P90", "Min", "Max"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if report.Simulation != nil {
		for _, ys := range report.Simulation.YearStats {
			row := []string{
				intToString(ys.Year),
				intToString(ys.Age),
				ys.Median.StringFixed(2),
				ys.P10.StringFixed(2),
				ys.P90.StringFixed(2),
				ys.Min.StringFixed(2),
				ys.Max.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
