package main

import (
	"github.com/spf13/cobra"

	"github.com/layonez/bid-buster-sub000/internal/indicators"
)

// IndicatorList is the result of the indicators command.
type IndicatorList struct {
	Indicators []IndicatorInfo `json:"indicators"`
}

// IndicatorInfo describes one registered indicator under the effective config.
type IndicatorInfo struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Enabled     bool                   `json:"enabled"`
	Description string                 `json:"description"`
	Methodology string                 `json:"methodology"`
	Thresholds  map[string]interface{} `json:"thresholds"`
}

func indicatorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indicators",
		Short: "List the available indicators and their thresholds",
		Long: `List every registered indicator with its effective thresholds after
applying --config.

Examples:
  # Show indicators with default thresholds
  bidbuster indicators

  # Show thresholds from a config file as YAML
  bidbuster indicators --config thresholds.yaml -o yaml`,
		Args: cobra.NoArgs,
		RunE: runIndicators,
	}
	return cmd
}

func runIndicators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	var list IndicatorList
	for _, id := range indicators.IDs() {
		ind, _ := indicators.New(id)
		settings := cfg.SettingsFor(id)
		ind.Configure(settings)
		md := ind.Metadata()
		list.Indicators = append(list.Indicators, IndicatorInfo{
			ID:          md.ID,
			Name:        md.Name,
			Enabled:     settings.Enabled(),
			Description: md.Description,
			Methodology: md.Methodology,
			Thresholds:  md.Thresholds,
		})
	}
	return outputResult(cmd.OutOrStdout(), list, outputFmt)
}
