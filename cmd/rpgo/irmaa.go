package main

import (
	"bytes"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-forecaster/internal/calculation"
	"github.com/rpgo/retirement-forecaster/internal/domain"
	"github.com/rpgo/retirement-forecaster/internal/output"
)

var (
	irmaaReq        domain.IRMAARequest
	irmaaStatus     string
	irmaaRMDBalance decimal.Decimal
	irmaaRMDReturn  decimal.Decimal
)

var irmaaCmd = &cobra.Command{
	Use:   "irmaa",
	Short: "Project Medicare IRMAA surcharges, optionally including RMD income",
	Args:  cobra.NoArgs,
	RunE:  runIRMAA,
}

func init() {
	def := domain.DefaultIRMAARequest()
	f := irmaaCmd.Flags()
	f.IntVar(&irmaaReq.StartingAge, "start-age", def.StartingAge, "First age to project")
	f.IntVar(&irmaaReq.EndingAge, "end-age", def.EndingAge, "Last age to project")
	f.Var(newDecimalValue(&irmaaReq.SocialSecurity, decimal.Zero), "social-security", "Annual Social Security income")
	f.Var(newDecimalValue(&irmaaReq.Pension, decimal.Zero), "pension", "Annual pension income")
	f.Var(newDecimalValue(&irmaaReq.InvestmentIncome, decimal.Zero), "investment", "Annual investment income")
	f.Var(newDecimalValue(&irmaaReq.OtherIncome, decimal.Zero), "other", "Other annual income")
	f.StringVar(&irmaaStatus, "status", "single", "Filing status: single or married")
	f.Var(newDecimalValue(&irmaaRMDBalance, decimal.Zero), "rmd-balance", "Pre-tax balance at 73; adds projected RMDs to MAGI")
	f.Var(newDecimalValue(&irmaaRMDReturn, decimal.Zero), "rmd-return", "Expected return of the pre-tax balance, percent")
	f.StringP("format", "f", "table", "Output format: table, csv or json")
	rootCmd.AddCommand(irmaaCmd)
}

func runIRMAA(cmd *cobra.Command, _ []string) error {
	status, err := domain.ParseFilingStatus(irmaaStatus)
	if err != nil {
		return err
	}
	req := irmaaReq
	req.FilingStatus = status

	var rmdEntries []domain.RMDScheduleEntry
	if irmaaRMDBalance.IsPositive() {
		rmdEntries, err = calculation.ProjectRMD(calculation.RMDDistributionAge, max(req.EndingAge, calculation.RMDDistributionAge),
			irmaaRMDBalance, irmaaRMDReturn, decimal.Zero)
		if err != nil {
			return err
		}
	}

	entries, err := calculation.ProjectIRMAA(req.StartingAge, req.EndingAge, req.Schedule(), rmdEntries, req.FilingStatus)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	return writeTableOrExport(cmd, format, entries,
		func(buf *bytes.Buffer) error { return output.WriteIRMAATable(buf, entries) },
		output.IRMAAProjectionCSV{}, &domain.ForecastReport{IRMAAProjection: entries})
}
