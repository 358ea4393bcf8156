package convergence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layonez/bid-buster-sub000/internal/types"
)

func finding(entity, indicator string, score, dollars float64) types.MaterialFinding {
	return types.MaterialFinding{
		ID:               "F-" + indicator + "-" + entity,
		EntityName:       entity,
		IndicatorID:      indicator,
		MaterialityScore: score,
		TotalDollarValue: dollars,
		Source:           types.SourceRule,
	}
}

func TestComputeConvergence(t *testing.T) {
	findings := []types.MaterialFinding{
		finding("ACME", "R002", 300, 100),
		finding("BETA", "R001", 5000, 1000),
		finding("ACME", "R001", 200, 50),
		finding("GAMMA", "R003", 10, 1),
		finding("GAMMA", "R006", 10, 2),
		finding("GAMMA", "R005", 10, 3),
	}

	got := ComputeConvergence(findings)
	require.Len(t, got, 2)

	acme := got[0]
	assert.Equal(t, "ACME", acme.EntityName)
	assert.Equal(t, []string{"R001", "R002"}, acme.Indicators)
	assert.Equal(t, 2.0*(300+200), acme.ConvergenceScore)
	assert.Equal(t, 150.0, acme.TotalExposure)
	assert.Len(t, acme.Findings, 2)

	gamma := got[1]
	assert.Equal(t, "GAMMA", gamma.EntityName)
	assert.Equal(t, []string{"R003", "R005", "R006"}, gamma.Indicators)
	assert.Equal(t, 3.0*30, gamma.ConvergenceScore)
	assert.Equal(t, 6.0, gamma.TotalExposure)
}

func TestComputeConvergence_SameIndicatorTwiceIsNotConvergence(t *testing.T) {
	findings := []types.MaterialFinding{
		finding("ACME", "R002", 1, 1),
		finding("ACME", "R002", 2, 1),
	}
	assert.Empty(t, ComputeConvergence(findings))
}

func TestComputeConvergence_ScoreInvariant(t *testing.T) {
	findings := []types.MaterialFinding{
		finding("A", "R001", 7, 0),
		finding("A", "R001", 3, 0),
		finding("A", "R004", 11, 0),
		finding("B", "R002", 1, 0),
	}
	for _, ce := range ComputeConvergence(findings) {
		require.GreaterOrEqual(t, len(ce.Indicators), MinIndicators)
		var sum float64
		for _, f := range ce.Findings {
			sum += f.MaterialityScore
		}
		assert.Equal(t, float64(len(ce.Indicators))*sum, ce.ConvergenceScore)
	}
}

func TestComputeConvergence_Empty(t *testing.T) {
	assert.Empty(t, ComputeConvergence(nil))
}
