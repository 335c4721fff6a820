package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/rpgo/retirement-forecaster/internal/domain"
	"github.com/rpgo/retirement-forecaster/pkg/dateutil"
)

// ConsoleVerboseFormatter renders every simulated year plus the full RMD and IRMAA tables.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console-verbose" }

func (c ConsoleVerboseFormatter) Format(report *domain.ForecastReport) ([]byte, error) {
	var buf bytes.Buffer
	writeSummary(&buf, report)

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "ASSUMPTIONS")
	for _, line := range GenerateAssumptions(report.Forecast) {
		fmt.Fprintf(&buf, "  - %s\n", line)
	}

	if report.Simulation != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "BALANCE PROJECTION")
		if err := writeYearStatsTable(&buf, report.Simulation.YearStats); err != nil {
			return nil, err
		}
	}
	if len(report.RMDSchedule) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "REQUIRED MINIMUM DISTRIBUTIONS")
		if err := WriteRMDTable(&buf, report.RMDSchedule); err != nil {
			return nil, err
		}
	}
	if len(report.IRMAAProjection) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "IRMAA PROJECTION")
		if err := WriteIRMAATable(&buf, report.IRMAAProjection); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// WriteRMDTable renders an RMD schedule as a table.
func WriteRMDTable(w io.Writer, entries []domain.RMDScheduleEntry) error {
	table := tablewriter.NewWriter(w)
	table.Header("Age", "Balance", "Factor", "RMD", "Total Withdrawal")
	for _, e := range entries {
		if err := table.Append(
			intToString(e.Age),
			FormatCurrency(e.AccountBalance),
			e.LifeExpectancyFactor.StringFixed(1),
			FormatCurrency(e.RMDAmount),
			FormatCurrency(e.TotalWithdrawal),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

// WriteIRMAATable renders an IRMAA projection as a table.
func WriteIRMAATable(w io.Writer, entries []domain.IRMAAProjectionEntry) error {
	table := tablewriter.NewWriter(w)
	table.Header("Age", "MAGI", "RMD Income", "Tier", "Monthly", "Annual")
	for _, e := range entries {
		tier := e.Tier.String()
		if !dateutil.IsMedicareEligible(e.Age) {
			tier += " (pre-Medicare)"
		}
		if err := table.Append(
			intToString(e.Age),
			FormatCurrency(e.MAGI),
			FormatCurrency(e.RMDIncome),
			tier,
			FormatCurrency(e.MonthlySurcharge),
			FormatCurrency(e.AnnualSurcharge),
		); err != nil {
			return err
		}
	}
	return table.Render()
}
