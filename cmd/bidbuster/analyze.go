package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/dataset"
	"github.com/layonez/bid-buster-sub000/internal/engine"
	"github.com/layonez/bid-buster-sub000/internal/pipeline"
)

func analyzeCmd() *cobra.Command {
	var (
		awardsPath string
		txnsPath   string
		indicatorF string
		recipient   string
		metricsPath string
		concurrent  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the red-flag indicators over an award dataset",
		Long: `Run the enabled indicators over an award dataset, consolidate the
signals into material findings and report entities flagged by more than
one indicator.

Awards are a JSON (or YAML) array of normalized award records. Optional
transaction detail refines modification counts and growth.

Examples:
  # Screen a dataset with default thresholds
  bidbuster analyze --awards awards.json

  # Run two indicators and output JSON
  bidbuster analyze --awards awards.json --indicators R001,R004 -o json

  # Dataset was pulled for a single recipient; suppress tautological concentration
  bidbuster analyze --awards acme.json --recipient "Acme Corp"

  # Keep run counters for a node_exporter textfile collector
  bidbuster analyze --awards awards.json --metrics-file /var/lib/node_exporter/bidbuster.prom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if recipient != "" {
				cfg.Query.Recipient = recipient
			}

			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			in, err := loadInput(logger, awardsPath, txnsPath)
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				Filter:     config.ParseFilter(indicatorF),
				Concurrent: concurrent,
			}
			report, err := pipeline.New(cfg, logger).Run(cmd.Context(), in, opts)
			if err != nil {
				return err
			}
			digest, err := dataset.Digest(awardsPath, txnsPath)
			if err != nil {
				return err
			}
			report.InputDigest = digest
			logger.Info("Report ready", zap.String("input_digest", digest))

			if metricsPath != "" {
				if err := engine.WriteMetrics(metricsPath); err != nil {
					return err
				}
				logger.Info("Metrics written", zap.String("path", metricsPath))
			}
			return outputResult(cmd.OutOrStdout(), report, outputFmt)
		},
	}

	cmd.Flags().StringVarP(&awardsPath, "awards", "a", "", "Award dataset file (required)")
	cmd.Flags().StringVarP(&txnsPath, "transactions", "t", "", "Transaction detail file")
	cmd.Flags().StringVarP(&indicatorF, "indicators", "i", "", "Comma-separated indicator ids to run (default: all enabled)")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Recipient the dataset was filtered to")
	cmd.Flags().StringVar(&metricsPath, "metrics-file", "", "Write Prometheus metrics in text format to this file")
	cmd.Flags().BoolVar(&concurrent, "concurrent", false, "Fold indicators in parallel")
	_ = cmd.MarkFlagRequired("awards")

	return cmd
}

func loadInput(logger *zap.Logger, awardsPath, txnsPath string) (pipeline.Input, error) {
	var in pipeline.Input

	awards, err := dataset.LoadAwards(awardsPath)
	if err != nil {
		return in, fmt.Errorf("failed to load awards: %w", err)
	}
	in.Awards = awards
	logger.Info("Awards loaded", zap.String("path", awardsPath), zap.Int("count", len(awards)))

	if txnsPath != "" {
		txns, err := dataset.LoadTransactions(txnsPath)
		if err != nil {
			return in, fmt.Errorf("failed to load transactions: %w", err)
		}
		in.Transactions = txns
		logger.Info("Transactions loaded", zap.String("path", txnsPath), zap.Int("awards", len(txns)))
	}
	return in, nil
}
