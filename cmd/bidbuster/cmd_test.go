package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/pipeline"
)

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

var fixtureAwards = filepath.Join("testdata", "awards.json")

func TestRootCmd(t *testing.T) {
	root := newRootCmd()
	assert.Equal(t, "bidbuster", root.Use)

	for _, name := range []string{"output", "config", "log-level", "color"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "o", root.PersistentFlags().Lookup("output").Shorthand)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"analyze", "indicators", "config"})
}

func TestAnalyzeCmd_Flags(t *testing.T) {
	cmd := analyzeCmd()
	assert.Equal(t, "analyze", cmd.Use)
	assert.NotEmpty(t, cmd.Long)

	awards := cmd.Flags().Lookup("awards")
	require.NotNil(t, awards)
	assert.Equal(t, "a", awards.Shorthand)
	assert.NotNil(t, cmd.Flags().Lookup("transactions"))
	assert.NotNil(t, cmd.Flags().Lookup("indicators"))
	assert.NotNil(t, cmd.Flags().Lookup("recipient"))
	assert.NotNil(t, cmd.Flags().Lookup("concurrent"))
	assert.NotNil(t, cmd.Flags().Lookup("metrics-file"))
	assert.Nil(t, cmd.Flags().Lookup("agency"))
}

func TestAnalyze_MetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bidbuster.prom")
	_, err := execute(t, "analyze", "--awards", fixtureAwards, "-o", "json", "--metrics-file", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bidbuster_signals_total")
	assert.Contains(t, string(data), `bidbuster_records_folded_total{indicator="R001"}`)
}

func TestAnalyze_JSON(t *testing.T) {
	out, err := execute(t, "analyze", "--awards", fixtureAwards, "-o", "json")
	require.NoError(t, err)

	var report pipeline.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 10, report.AwardCount)
	assert.Equal(t, 6, report.Summary.TotalSignals)
	require.NotEmpty(t, report.Findings)
	assert.Equal(t, "F-R001-DEPARTMENT-O-SINGLEBID", report.Findings[0].ID)
	assert.Len(t, report.Convergence, 2)
	assert.Len(t, report.InputDigest, 64)
}

func TestAnalyze_Table(t *testing.T) {
	out, err := execute(t, "analyze", "--awards", fixtureAwards)
	require.NoError(t, err)

	assert.Contains(t, out, "SUMMARY")
	assert.Contains(t, out, "FINDINGS")
	assert.Contains(t, out, "CONVERGENCE")
	assert.Contains(t, out, "F-R004-ACME-CORP-CONCENTRATION")
	assert.Contains(t, out, "$966,000")
}

func TestAnalyze_Markdown(t *testing.T) {
	out, err := execute(t, "analyze", "--awards", fixtureAwards, "-o", "markdown", "--indicators", "r002")
	require.NoError(t, err)
	assert.Contains(t, out, "| F-R002-GAMMA-LLC-NONCOMP |")
	assert.NotContains(t, out, "R001-")
}

func TestAnalyze_ConfigFile(t *testing.T) {
	out, err := execute(t, "analyze", "--awards", fixtureAwards,
		"--config", filepath.Join("testdata", "thresholds.yaml"), "-o", "json")
	require.NoError(t, err)

	var report pipeline.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 5, report.Summary.TotalIndicatorsRun)
	assert.Len(t, report.Findings, 3)
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing awards flag", []string{"analyze"}, "awards"},
		{"missing file", []string{"analyze", "--awards", "testdata/none.json"}, "failed to load awards"},
		{"unknown indicator", []string{"analyze", "--awards", fixtureAwards, "-i", "R001,R777"}, "R777"},
		{"bad log level", []string{"analyze", "--awards", fixtureAwards, "--log-level", "chatty"}, "log-level"},
		{"bad format", []string{"analyze", "--awards", fixtureAwards, "-o", "xml"}, "unknown output format"},
		{"agency flag", []string{"analyze", "--awards", fixtureAwards, "--agency", "DOD"}, "unknown flag"},
		{"bad config", []string{"analyze", "--awards", fixtureAwards, "--config", "testdata/none.yaml"}, "failed to load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIndicators_JSON(t *testing.T) {
	out, err := execute(t, "indicators", "-o", "json",
		"--config", filepath.Join("testdata", "thresholds.yaml"))
	require.NoError(t, err)

	var list IndicatorList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list.Indicators, 6)
	assert.Equal(t, "R001", list.Indicators[0].ID)
	assert.Equal(t, 0.5, list.Indicators[0].Thresholds["severityThreshold"])
	assert.True(t, list.Indicators[0].Enabled)
	assert.False(t, list.Indicators[5].Enabled)
}

func TestIndicators_Table(t *testing.T) {
	out, err := execute(t, "indicators")
	require.NoError(t, err)
	assert.Contains(t, out, "INDICATORS")
	assert.Contains(t, out, "Vendor Concentration")
	assert.Contains(t, out, "maxSectorSignals=10")
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	out, err := execute(t, "config", "--config", filepath.Join("testdata", "thresholds.yaml"))
	require.NoError(t, err)

	cfg, err := config.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.SettingsFor("R001").Float("severityThreshold", 0))
	assert.False(t, cfg.SettingsFor("R006").Enabled())
	assert.Equal(t, 3, cfg.Materiality.MaxFindings)
}
