package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-forecaster/internal/calculation"
	"github.com/rpgo/retirement-forecaster/internal/config"
	"github.com/rpgo/retirement-forecaster/internal/output"
)

var (
	flagConfig    string
	flagFormat    string
	flagSeed      uint64
	flagWorkers   int
	flagOutputDir string
	flagTimeout   time.Duration
	flagEnvFile   string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Run a forecast plan: Monte Carlo simulation plus optional RMD and IRMAA projections",
	Args:  cobra.NoArgs,
	RunE:  runForecast,
}

func init() {
	forecastCmd.Flags().StringVarP(&flagConfig, "config", "c", "", "Plan file (.yaml, .toml or .json)")
	forecastCmd.Flags().StringVarP(&flagFormat, "format", "f", "console", "Output format (console, console-verbose, csv, rmd-csv, irmaa-csv, html, json, year-stats)")
	forecastCmd.Flags().Uint64Var(&flagSeed, "seed", 0, "Random seed (overrides the plan)")
	forecastCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Simulation workers (default: plan value or one per CPU)")
	forecastCmd.Flags().StringVarP(&flagOutputDir, "output", "o", "", "Write the report to a timestamped file in this directory instead of stdout")
	forecastCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "Abort the forecast after this long (0 = no limit)")
	forecastCmd.Flags().StringVar(&flagEnvFile, "env-file", ".env", "Environment file with RPGO_* overrides")
	_ = forecastCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	formatter, err := output.LookupFormatter(flagFormat)
	if err != nil {
		return err
	}

	parser := &config.InputParser{EnvFile: flagEnvFile}
	pf, err := parser.LoadFromFile(flagConfig)
	if err != nil {
		return err
	}

	level, format := pf.Log.Level, pf.Log.Format
	if cmd.Flags().Changed("log-level") {
		level = flagLogLevel
	}
	if cmd.Flags().Changed("log-format") {
		format = flagLogFormat
	}
	logger, err := setupLogger(cmd.ErrOrStderr(), level, format)
	if err != nil {
		return err
	}

	plan := pf.Plan()
	if cmd.Flags().Changed("seed") {
		plan.Seed = flagSeed
	}
	if cmd.Flags().Changed("workers") {
		plan.Workers = flagWorkers
	}

	engine := calculation.NewForecastEngine()
	engine.SetLogger(logger)
	report, err := engine.RunForecastWithTimeout(cmd.Context(), plan, nil, flagTimeout)
	if err != nil {
		return err
	}

	if flagOutputDir != "" {
		path, err := output.WriteFormatted(formatter, report, flagOutputDir)
		if err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
		return nil
	}
	return output.GenerateReport(cmd.OutOrStdout(), report, formatter.Name())
}
