// bidbuster screens federal contract award data for procurement red flags.
//
// Installation:
//
//	go build -o bidbuster ./cmd/bidbuster
//
// Usage:
//
//	bidbuster analyze --awards awards.json
//	bidbuster analyze --awards awards.json --transactions txns.json --indicators R001,R004 -o json
//	bidbuster indicators
//	bidbuster config --config thresholds.yaml -o yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version    = "dev"
	outputFmt  string
	configPath string
	logLevel   string
	colorOut   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bidbuster",
		Short: "Screen contract awards for procurement red flags",
		Long: `bidbuster runs a set of statistical red-flag indicators over federal
contract award records and consolidates the results into ranked,
dollar-weighted findings.

Indicators:
  R001  Single-bid competition
  R002  Non-competitive awards
  R003  Contract value splitting
  R004  Vendor concentration
  R005  Excessive modifications
  R006  Price outliers`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, markdown, json, yaml")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or JSON threshold configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&colorOut, "color", false, "Colorize severities in table output")

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(indicatorsCmd())
	rootCmd.AddCommand(configCmd())

	return rootCmd
}
