package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

// RMDScheduleCSV exports the RMD schedule, one row per age.
type RMDScheduleCSV struct{}

func (c RMDScheduleCSV) Name() string { return "rmd-csv" }

func (c RMDScheduleCSV) Format(report *domain.ForecastReport) ([]byte, error) {
	rows := make([][]string, 0, len(report.RMDSchedule))
	for _, e := range report.RMDSchedule {
		rows = append(rows, []string{
			intToString(e.Year),
			intToString(e.Age),
			e.AccountBalance.StringFixed(2),
			e.LifeExpectancyFactor.StringFixed(1),
			e.RMDAmount.StringFixed(2),
			e.TotalWithdrawal.StringFixed(2),
		})
	}
	return writeCSV([]string{"Year", "Age", "AccountBalance", "LifeExpectancyFactor", "RMDAmount", "TotalWithdrawal"}, rows)
}

// IRMAAProjectionCSV exports the IRMAA projection, one row per age.
type IRMAAProjectionCSV struct{}

func (c IRMAAProjectionCSV) Name() string { return "irmaa-csv" }

func (c IRMAAProjectionCSV) Format(report *domain.ForecastReport) ([]byte, error) {
	rows := make([][]string, 0, len(report.IRMAAProjection))
	for _, e := range report.IRMAAProjection {
		rows = append(rows, []string{
			intToString(e.Year),
			intToString(e.Age),
			e.MAGI.StringFixed(2),
			e.RMDIncome.StringFixed(2),
			e.Tier.String(),
			e.PartBMonthly.StringFixed(2),
			e.PartDMonthly.StringFixed(2),
			e.MonthlySurcharge.StringFixed(2),
			e.AnnualSurcharge.StringFixed(2),
		})
	}
	return writeCSV([]string{"Year", "Age", "MAGI", "RMDIncome", "Tier", "PartBMonthly", "PartDMonthly", "MonthlySurcharge", "AnnualSurcharge"}, rows)
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
