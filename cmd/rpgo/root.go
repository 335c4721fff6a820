package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-forecaster/internal/calculation"
)

var (
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:           "rpgo",
	Short:         "Retirement forecaster",
	Long:          "Monte Carlo retirement forecasts with RMD and IRMAA projections.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format: text or json")
}

// setupLogger configures the default slog logger on w and returns an engine logger backed by it.
func setupLogger(w io.Writer, level, format string) (calculation.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q (use text or json)", format)
	}
	l := slog.New(handler)
	slog.SetDefault(l)
	return calculation.NewSlogLogger(l), nil
}

// decimalValue adapts a decimal.Decimal to a command-line flag.
type decimalValue struct{ d *decimal.Decimal }

func newDecimalValue(d *decimal.Decimal, def decimal.Decimal) *decimalValue {
	*d = def
	return &decimalValue{d: d}
}

func (v *decimalValue) String() string {
	if v == nil || v.d == nil {
		return "0"
	}
	return v.d.String()
}

func (v *decimalValue) Set(s string) error {
	parsed, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("not a decimal number: %q", s)
	}
	*v.d = parsed
	return nil
}

func (v *decimalValue) Type() string { return "decimal" }
