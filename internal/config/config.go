// Package config holds indicator thresholds and consolidation limits.
//
// A configuration file is YAML or JSON. Values present in the file override the
// compiled-in defaults key by key; anything absent keeps its default. Ill-typed
// values are not rejected at load time: the indicator getters fall back to their
// own defaults when a value cannot be read as the expected type.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"sigs.k8s.io/yaml"
)

// Default consolidation limits.
const (
	DefaultMinAwardCount   = 1
	DefaultMaxFindings     = 20
	DefaultMaxPerIndicator = 5
)

// Config is the full engine and consolidation configuration.
type Config struct {
	// Indicators maps indicator id (R001..R006) to its settings.
	Indicators map[string]IndicatorSettings `json:"indicators"`

	Materiality Materiality `json:"materiality"`

	// Query describes the filters the award set was collected with.
	Query Query `json:"query,omitempty"`
}

// Materiality controls how signals are consolidated into findings.
type Materiality struct {
	MinAwardCount   int     `json:"minAwardCount"`
	MinTotalAmount  float64 `json:"minTotalAmount"`
	MaxFindings     int     `json:"maxFindings"`
	MaxPerIndicator int     `json:"maxPerIndicator"`
}

// Query records the collection filters. Indicators use it to avoid flagging
// properties the query itself guaranteed (e.g. a recipient-filtered dataset is
// 100% concentrated on that recipient by construction).
type Query struct {
	Recipient string `json:"recipient,omitempty"`
}

// Default returns the compiled-in configuration with all six indicators enabled.
func Default() *Config {
	return &Config{
		Indicators: map[string]IndicatorSettings{
			"R001": {
				"enabled":                true,
				"severityThreshold":      0.2,
				"requireCompetitiveType": true,
			},
			"R002": {
				"enabled":   true,
				"flagCodes": []interface{}{"B", "C", "G", "NDO"},
			},
			"R003": {
				"enabled":        true,
				"thresholds":     []interface{}{250000.0, 7500000.0},
				"bandPercent":    10.0,
				"minClusterSize": 3.0,
				"period":         "quarter",
			},
			"R004": {
				"enabled":              true,
				"vendorShareThreshold": 0.3,
				"highShareThreshold":   0.6,
				"minSectorSpend":       1000000.0,
				"minSectorAwards":      3.0,
				"maxSectorSignals":     10.0,
			},
			"R005": {
				"enabled":              true,
				"maxModificationCount": 5.0,
				"maxGrowthRatio":       2.0,
			},
			"R006": {
				"enabled":         true,
				"method":          "iqr",
				"iqrMultiplier":   1.5,
				"zscoreThreshold": 2.0,
				"minGroupSize":    5.0,
			},
		},
		Materiality: Materiality{
			MinAwardCount:   DefaultMinAwardCount,
			MinTotalAmount:  0,
			MaxFindings:     DefaultMaxFindings,
			MaxPerIndicator: DefaultMaxPerIndicator,
		},
	}
}

// Load reads a YAML or JSON configuration file and merges it over Default().
// Files ending in .json or .jsonc may contain comments and trailing commas.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}
	return Parse(data)
}

// Parse decodes configuration bytes and merges them over Default().
func Parse(data []byte) (*Config, error) {
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg := Default()
	cfg.merge(&file)
	return cfg, nil
}

func (c *Config) merge(o *Config) {
	for id, settings := range o.Indicators {
		base, ok := c.Indicators[id]
		if !ok {
			base = IndicatorSettings{}
		}
		for k, v := range settings {
			base[k] = v
		}
		c.Indicators[id] = base
	}

	if o.Materiality.MinAwardCount > 0 {
		c.Materiality.MinAwardCount = o.Materiality.MinAwardCount
	}
	if o.Materiality.MinTotalAmount > 0 {
		c.Materiality.MinTotalAmount = o.Materiality.MinTotalAmount
	}
	if o.Materiality.MaxFindings > 0 {
		c.Materiality.MaxFindings = o.Materiality.MaxFindings
	}
	if o.Materiality.MaxPerIndicator > 0 {
		c.Materiality.MaxPerIndicator = o.Materiality.MaxPerIndicator
	}
	if o.Query.Recipient != "" {
		c.Query.Recipient = o.Query.Recipient
	}
}

// SettingsFor returns a copy of the settings for the indicator id, with the
// query context folded in under "queryRecipient". Returns nil
// when the id has no entry.
func (c *Config) SettingsFor(id string) IndicatorSettings {
	settings, ok := c.Indicators[id]
	if !ok {
		return nil
	}
	out := make(IndicatorSettings, len(settings)+1)
	for k, v := range settings {
		out[k] = v
	}
	if c.Query.Recipient != "" {
		out["queryRecipient"] = c.Query.Recipient
	}
	return out
}

// EnabledIDs returns the ids of enabled indicators in sorted order.
func (c *Config) EnabledIDs() []string {
	var ids []string
	for id, s := range c.Indicators {
		if s.Enabled() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ParseFilter splits a comma-separated indicator list ("R001, r003") into
// upper-cased ids. Returns nil for an empty string.
func ParseFilter(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
