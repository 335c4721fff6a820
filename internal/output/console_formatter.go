package output

import (
	"bytes"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/rpgo/retirement-forecaster/internal/domain"
)

// milestoneStep is the year interval shown by the concise console table.
const milestoneStep = 5

// ConsoleFormatter provides a concise console summary: headline figures and milestone years.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.ForecastReport) ([]byte, error) {
	var buf bytes.Buffer
	writeSummary(&buf, report)
	if report.Simulation != nil {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "BALANCE PROJECTION (every 5 years)")
		last := len(report.Simulation.YearStats) - 1
		var milestones []domain.YearStat
		for i, ys := range report.Simulation.YearStats {
			if i%milestoneStep == 0 || i == last {
				milestones = append(milestones, ys)
			}
		}
		if err := writeYearStatsTable(&buf, milestones); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeSummary(w io.Writer, report *domain.ForecastReport) {
	a := AssessForecast(report)
	fmt.Fprintf(w, "RETIREMENT FORECAST: %s\n", report.ForecastName)
	fmt.Fprintln(w, "================================")
	fmt.Fprintf(w, "Report ID: %s  Seed: %d\n", report.ID, report.Seed)
	if sim := report.Simulation; sim != nil {
		fmt.Fprintf(w, "Success rate: %s over %d simulations (%d years)\n", FormatPercentage(sim.SuccessRate), sim.NumSimulations, sim.TotalYears)
		fmt.Fprintf(w, "Final balance: median %s, 10th pct %s, 90th pct %s\n",
			FormatCurrency(sim.MedianFinalBalance), FormatCurrency(sim.Percentile10Balance), FormatCurrency(sim.Percentile90Balance))
	}
	fmt.Fprintf(w, "Verdict: %s (threshold %s, margin %s pts)\n", a.Verdict,
		FormatPercentage(report.Highlights.SuccessThreshold), a.Margin.StringFixed(2))
	if a.MedianDepletionAge > 0 {
		fmt.Fprintf(w, "Median path runs out of money at age %d\n", a.MedianDepletionAge)
	}
	h := report.Highlights
	if h.FirstRMDAge > 0 {
		fmt.Fprintf(w, "First RMD: %s at age %d (total %s)\n", FormatCurrency(h.FirstRMDAmount), h.FirstRMDAge, FormatCurrency(h.TotalRMD))
	}
	if len(report.IRMAAProjection) > 0 {
		fmt.Fprintf(w, "IRMAA: peak MAGI %s, highest tier %s, %d surcharge years, total %s\n",
			FormatCurrency(h.PeakMAGI), h.HighestTier, a.SurchargeYears, FormatCurrency(h.TotalIRMAASurcharge))
	}
}

func writeYearStatsTable(w io.Writer, stats []domain.YearStat) error {
	table := tablewriter.NewWriter(w)
	table.Header("Year", "Age", "P10", "Median", "P90", "Min", "Max")
	for _, ys := range stats {
		if err := table.Append(
			intToString(ys.Year),
			intToString(ys.Age),
			FormatCurrency(ys.P10),
			FormatCurrency(ys.Median),
			FormatCurrency(ys.P90),
			FormatCurrency(ys.Min),
			FormatCurrency(ys.Max),
		); err != nil {
			return err
		}
	}
	return table.Render()
}
