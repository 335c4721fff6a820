package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-forecaster/internal/calculation"
	"github.com/rpgo/retirement-forecaster/internal/domain"
	"github.com/rpgo/retirement-forecaster/internal/output"
)

var rmdReq domain.RMDRequest

var rmdCmd = &cobra.Command{
	Use:   "rmd",
	Short: "Project required minimum distributions for a pre-tax balance",
	Args:  cobra.NoArgs,
	RunE:  runRMD,
}

func init() {
	def := domain.DefaultRMDRequest()
	f := rmdCmd.Flags()
	f.IntVar(&rmdReq.StartingAge, "start-age", def.StartingAge, "First age to project")
	f.IntVar(&rmdReq.EndingAge, "end-age", def.EndingAge, "Last age to project")
	f.IntVar(&rmdReq.BirthYear, "birth-year", 0, "Derive the starting age from a birth year (SECURE 2.0)")
	f.Var(newDecimalValue(&rmdReq.PreTaxBalance, decimal.Zero), "balance", "Pre-tax balance at the starting age")
	f.Var(newDecimalValue(&rmdReq.ExpectedReturn, decimal.Zero), "return", "Expected annual return, percent")
	f.Var(newDecimalValue(&rmdReq.AdditionalWithdrawals, decimal.Zero), "additional", "Withdrawals on top of the RMD each year")
	f.StringP("format", "f", "table", "Output format: table, csv or json")
	_ = rmdCmd.MarkFlagRequired("balance")
	rootCmd.AddCommand(rmdCmd)
}

func runRMD(cmd *cobra.Command, _ []string) error {
	req := rmdReq
	if cmd.Flags().Changed("birth-year") && !cmd.Flags().Changed("start-age") {
		req.StartingAge = 0
	}
	entries, err := calculation.ProjectRMD(req.EffectiveStartingAge(), req.EndingAge, req.PreTaxBalance, req.ExpectedReturn, req.AdditionalWithdrawals)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	return writeTableOrExport(cmd, format, entries,
		func(buf *bytes.Buffer) error { return output.WriteRMDTable(buf, entries) },
		output.RMDScheduleCSV{}, &domain.ForecastReport{RMDSchedule: entries})
}

// writeTableOrExport prints entries as a table, as CSV through csvFormatter, or as JSON.
func writeTableOrExport(cmd *cobra.Command, format string, entries any, table func(*bytes.Buffer) error, csvFormatter output.Formatter, report *domain.ForecastReport) error {
	var buf bytes.Buffer
	switch strings.ToLower(format) {
	case "table", "console", "":
		if err := table(&buf); err != nil {
			return err
		}
	case "csv":
		data, err := csvFormatter.Format(report)
		if err != nil {
			return err
		}
		buf.Write(data)
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	default:
		return fmt.Errorf("%w: %q (use table, csv or json)", output.ErrUnsupportedFormat, format)
	}
	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
