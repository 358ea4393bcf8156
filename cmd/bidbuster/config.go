package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/layonez/bid-buster-sub000/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration a run would use: compiled-in defaults with
any --config file merged over them.

Examples:
  # Show defaults
  bidbuster config

  # Show a merged file as JSON
  bidbuster config --config thresholds.yaml -o json`,
		Args: cobra.NoArgs,
		RunE: runConfig,
	}
	return cmd
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	return outputResult(cmd.OutOrStdout(), cfg, outputFmt)
}

// loadConfig returns the defaults, or the defaults merged with path.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
