package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/testutil"
	"github.com/layonez/bid-buster-sub000/internal/types"
)

func TestNonCompetitive_RatesAndSeverity(t *testing.T) {
	ind := NewNonCompetitive()
	ind.Configure(config.IndicatorSettings{})

	awards := []types.NormalizedAward{
		// ACME: 4 of 5 not competed -> 80% high
		testutil.MakeAward("a1", "ACME", "DOD", 1, testutil.WithCompetition("B", -1), testutil.WithUEI("UEI-ACME")),
		testutil.MakeAward("a2", "ACME", "DOD", 1, testutil.WithCompetition("C", -1)),
		testutil.MakeAward("a3", "ACME", "DOD", 1, testutil.WithCompetition("G", -1)),
		testutil.MakeAward("a4", "ACME", "DOD", 1, testutil.WithCompetition("ndo", -1)),
		testutil.MakeAward("a5", "ACME", "DOD", 1, testutil.WithCompetition("A", -1)),
		// BETA: 1 of 2 -> 50% medium
		testutil.MakeAward("b1", "BETA", "DOD", 1, testutil.WithCompetition("C", -1)),
		testutil.MakeAward("b2", "BETA", "DOD", 1, testutil.WithCompetition("A", -1)),
		// GAMMA: 1 of 3 -> 33.3% low
		testutil.MakeAward("g1", "GAMMA", "DOD", 1, testutil.WithCompetition("B", -1)),
		testutil.MakeAward("g2", "GAMMA", "DOD", 1, testutil.WithCompetition("A", -1)),
		testutil.MakeAward("g3", "GAMMA", "DOD", 1, testutil.WithCompetition("F", -1)),
		// DELTA: all competed, no signal
		testutil.MakeAward("d1", "DELTA", "DOD", 1, testutil.WithCompetition("A", -1)),
		// missing extent: total only
		testutil.MakeAward("x1", "ACME", "DOD", 1),
	}
	signals := testutil.Fold(ind, awards)
	require.Len(t, signals, 3)

	assert.Equal(t, "ACME", signals[0].EntityName)
	assert.Equal(t, "UEI-ACME", signals[0].EntityID)
	assert.Equal(t, 80.0, signals[0].Value)
	assert.Equal(t, types.SeverityHigh, signals[0].Severity)
	assert.Equal(t, 50.0, signals[0].Threshold)
	assert.Equal(t, []string{"a1", "a2", "a3", "a4"}, signals[0].AffectedAwards)

	assert.Equal(t, "BETA", signals[1].EntityName)
	assert.Equal(t, "BETA", signals[1].EntityID)
	assert.Equal(t, types.SeverityMedium, signals[1].Severity)

	assert.Equal(t, "GAMMA", signals[2].EntityName)
	assert.Equal(t, 33.3, signals[2].Value)
	assert.Equal(t, types.SeverityLow, signals[2].Severity)

	cov := ind.Metadata().DataCoverage
	assert.Equal(t, 12, cov.TotalRecords)
	assert.Equal(t, 11, cov.RecordsWithRequiredFields)
}

func TestNonCompetitive_CustomFlagCodes(t *testing.T) {
	ind := NewNonCompetitive()
	ind.Configure(config.IndicatorSettings{"flagCodes": []interface{}{"E"}})

	awards := []types.NormalizedAward{
		testutil.MakeAward("1", "ACME", "DOD", 1, testutil.WithCompetition("E", -1)),
		testutil.MakeAward("2", "ACME", "DOD", 1, testutil.WithCompetition("C", -1)),
	}
	signals := testutil.Fold(ind, awards)
	require.Len(t, signals, 1)
	assert.Equal(t, 50.0, signals[0].Value)
	assert.Equal(t, []string{"E"}, ind.Metadata().Thresholds["flagCodes"])
}
