package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"sigs.k8s.io/yaml"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/pipeline"
	"github.com/layonez/bid-buster-sub000/internal/types"
	"github.com/layonez/bid-buster-sub000/internal/util"
)

// maxContextWidth bounds free-text columns in table output.
const maxContextWidth = 70

// outputResult writes the result in the specified format.
func outputResult(w io.Writer, result interface{}, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return outputJSON(w, result)
	case "yaml":
		return outputYAML(w, result)
	case "markdown", "md":
		return outputTable(w, result, true)
	case "table", "":
		return outputTable(w, result, false)
	default:
		return fmt.Errorf("unknown output format %q (want table, markdown, json or yaml)", format)
	}
}

func outputJSON(w io.Writer, result interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputYAML(w io.Writer, result interface{}) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func outputTable(w io.Writer, result interface{}, markdown bool) error {
	var tables []table.Writer
	switch r := result.(type) {
	case *pipeline.Report:
		tables = reportTables(r)
	case IndicatorList:
		tables = []table.Writer{indicatorTable(r)}
	case *config.Config:
		// Nested settings read better as YAML.
		return outputYAML(w, r)
	default:
		// Fall back to JSON for unknown types
		return outputJSON(w, result)
	}

	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if markdown {
			fmt.Fprintln(w, t.RenderMarkdown())
		} else {
			fmt.Fprintln(w, t.Render())
		}
	}
	return nil
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func reportTables(r *pipeline.Report) []table.Writer {
	summary := newTable("SUMMARY")
	summary.AppendRow(table.Row{"Awards screened", r.AwardCount})
	summary.AppendRow(table.Row{"Indicators run", r.Summary.TotalIndicatorsRun})
	summary.AppendRow(table.Row{"Signals", r.Summary.TotalSignals})
	for _, sev := range []types.Severity{types.SeverityHigh, types.SeverityMedium, types.SeverityLow} {
		summary.AppendRow(table.Row{"  " + string(sev), r.Summary.BySeverity[sev]})
	}
	for _, id := range util.SortedKeys(r.Summary.ByIndicator) {
		summary.AppendRow(table.Row{"  " + id, r.Summary.ByIndicator[id]})
	}
	summary.AppendRow(table.Row{"Findings", len(r.Findings)})
	if r.InputDigest != "" {
		summary.AppendRow(table.Row{"Input digest", r.InputDigest})
	}

	findings := newTable("FINDINGS")
	findings.AppendHeader(table.Row{"#", "ID", "ENTITY", "INDICATOR", "SEVERITY", "EXPOSURE", "SIGNALS", "AWARDS", "SCORE"})
	for i, f := range r.Findings {
		findings.AppendRow(table.Row{
			i + 1, f.ID, f.EntityName, f.IndicatorID, severityLabel(f.Severity),
			formatDollars(f.TotalDollarValue), f.SignalCount, len(f.AffectedAwardIDs),
			humanize.Comma(int64(math.Round(f.MaterialityScore))),
		})
	}
	findings.SetColumnConfigs([]table.ColumnConfig{
		{Number: 6, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
	})

	tables := []table.Writer{summary, findings}

	if len(r.Findings) > 0 {
		details := newTable("FINDING DETAIL")
		details.AppendHeader(table.Row{"ID", "CONTEXT"})
		for _, f := range r.Findings {
			for _, s := range f.Signals {
				details.AppendRow(table.Row{f.ID, s.Context})
			}
		}
		details.SetColumnConfigs([]table.ColumnConfig{{Number: 2, WidthMax: maxContextWidth}})
		tables = append(tables, details)
	}

	if len(r.Convergence) > 0 {
		conv := newTable("CONVERGENCE")
		conv.AppendHeader(table.Row{"ENTITY", "INDICATORS", "EXPOSURE", "SCORE"})
		for _, c := range r.Convergence {
			conv.AppendRow(table.Row{
				c.EntityName, strings.Join(c.Indicators, ", "),
				formatDollars(c.TotalExposure), humanize.Comma(int64(math.Round(c.ConvergenceScore))),
			})
		}
		tables = append(tables, conv)
	}
	return tables
}

func indicatorTable(l IndicatorList) table.Writer {
	t := newTable("INDICATORS")
	t.AppendHeader(table.Row{"ID", "NAME", "ENABLED", "THRESHOLDS", "DESCRIPTION"})
	for _, ind := range l.Indicators {
		t.AppendRow(table.Row{ind.ID, ind.Name, ind.Enabled, formatThresholds(ind.Thresholds), ind.Description})
	}
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 5, WidthMax: maxContextWidth}})
	return t
}

// formatThresholds renders thresholds as sorted key=value lines.
func formatThresholds(th map[string]interface{}) string {
	keys := util.SortedKeys(th)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s=%v", k, th[k]))
	}
	return strings.Join(lines, "\n")
}

func formatDollars(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}

// severityLabel returns the severity, colored when --color is set.
func severityLabel(sev types.Severity) string {
	if !colorOut {
		return string(sev)
	}
	return severityColor(sev).Sprint(string(sev))
}

// severityColor returns the color used for a severity in table output.
func severityColor(sev types.Severity) text.Colors {
	switch sev {
	case types.SeverityHigh:
		return text.Colors{text.FgRed, text.Bold}
	case types.SeverityMedium:
		return text.Colors{text.FgYellow}
	case types.SeverityLow:
		return text.Colors{text.FgCyan}
	default:
		return nil
	}
}
