package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rpgo/retirement-forecaster/internal/config"
)

var exampleCmd = &cobra.Command{
	Use:   "example [path]",
	Short: "Write a starter plan file (.yaml, .toml or .json)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExample,
}

func init() {
	rootCmd.AddCommand(exampleCmd)
}

func runExample(cmd *cobra.Command, args []string) error {
	path := "plan.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	parser := config.NewInputParser()
	if err := parser.SavePlan(parser.CreateExamplePlan(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Example plan written to %s\n", path)
	return nil
}
