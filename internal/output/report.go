package output

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

// GenerateReport formats report with the named formatter and writes it to w.
func GenerateReport(w io.Writer, report *domain.ForecastReport, format string) error {
	f, err := LookupFormatter(format)
	if err != nil {
		return err
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("%s formatter: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

// EncodeYearStats returns the compact JSON year_stats blob stored alongside a forecast.
func EncodeYearStats(result *domain.SimulationResult) ([]byte, error) {
	if result == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(result.YearStats)
}
