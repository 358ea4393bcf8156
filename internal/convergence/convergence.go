// Package convergence finds entities flagged independently by more than one
// indicator.
package convergence

import (
	"sort"

	"github.com/layonez/bid-buster-sub000/internal/types"
)

// MinIndicators is the number of distinct indicators an entity needs to converge.
const MinIndicators = 2

// ComputeConvergence groups findings by entity name and returns the entities
// with at least MinIndicators distinct indicator ids, highest score first.
// The score is the distinct indicator count times the summed materiality.
func ComputeConvergence(findings []types.MaterialFinding) []types.ConvergenceEntity {
	byEntity := make(map[string]*types.ConvergenceEntity)
	var order []string
	seen := make(map[string]map[string]bool)

	for _, f := range findings {
		ce, ok := byEntity[f.EntityName]
		if !ok {
			ce = &types.ConvergenceEntity{EntityName: f.EntityName}
			byEntity[f.EntityName] = ce
			seen[f.EntityName] = make(map[string]bool)
			order = append(order, f.EntityName)
		}
		if !seen[f.EntityName][f.IndicatorID] {
			seen[f.EntityName][f.IndicatorID] = true
			ce.Indicators = append(ce.Indicators, f.IndicatorID)
		}
		ce.TotalExposure += f.TotalDollarValue
		ce.ConvergenceScore += f.MaterialityScore
		ce.Findings = append(ce.Findings, f)
	}

	out := []types.ConvergenceEntity{}
	for _, name := range order {
		ce := byEntity[name]
		if len(ce.Indicators) < MinIndicators {
			continue
		}
		sort.Strings(ce.Indicators)
		ce.ConvergenceScore *= float64(len(ce.Indicators))
		out = append(out, *ce)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConvergenceScore > out[j].ConvergenceScore
	})
	return out
}
