package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/testutil"
	"github.com/layonez/bid-buster-sub000/internal/types"
)

func TestModifications_Rollups(t *testing.T) {
	ind := NewModifications()
	ind.Configure(config.IndicatorSettings{})

	awards := []types.NormalizedAward{
		// 7 mods, 100k -> 150k -> medium, value 150
		testutil.MakeAward("count", "ACME", "DOD", 150000, testutil.WithModifications(7, 50000)),
		// 2 mods, 100k -> 300k (3x) -> high, value 300
		testutil.MakeAward("growth", "BETA", "DOD", 300000, testutil.WithModifications(2, 200000)),
		// within limits
		testutil.MakeAward("ok", "GAMMA", "DOD", 120000, testutil.WithModifications(3, 20000)),
		// no rollups
		testutil.MakeAward("none", "DELTA", "DOD", 100000),
	}
	signals := testutil.Fold(ind, awards)
	require.Len(t, signals, 2)

	assert.Equal(t, "growth", signals[0].EntityID)
	assert.Equal(t, "BETA", signals[0].EntityName)
	assert.Equal(t, types.EntityAward, signals[0].EntityType)
	assert.Equal(t, types.SeverityHigh, signals[0].Severity)
	assert.Equal(t, 300.0, signals[0].Value)
	assert.Equal(t, 200.0, signals[0].Threshold)
	assert.Contains(t, signals[0].Context, "$100,000 to $300,000")

	assert.Equal(t, "count", signals[1].EntityID)
	assert.Equal(t, types.SeverityMedium, signals[1].Severity)
	assert.Equal(t, 150.0, signals[1].Value)
	assert.Equal(t, 5.0, signals[1].Threshold)

	cov := ind.Metadata().DataCoverage
	assert.Equal(t, 4, cov.TotalRecords)
	assert.Equal(t, 3, cov.RecordsWithRequiredFields)
}

func TestModifications_CountOnly(t *testing.T) {
	ind := NewModifications()
	a := testutil.MakeAward("c", "ACME", "DOD", 1000)
	a.ModificationCount = types.Num(6)

	signals := testutil.Fold(ind, []types.NormalizedAward{a})
	require.Len(t, signals, 1)
	assert.Equal(t, 6.0, signals[0].Value)
	assert.Equal(t, "Award c has 6 substantive modifications", signals[0].Context)
}

func TestModifications_TransactionsOverrideRollups(t *testing.T) {
	ind := NewModifications()
	folder, ok := ind.(types.TransactionFolder)
	require.True(t, ok)

	// Rollups claim 9 modifications, but most are administrative.
	a := testutil.MakeAward("T1", "ACME", "DOD", 130000, testutil.WithModifications(9, 30000))
	ind.Fold(&a)

	folder.FoldTransactions("T1", []types.Transaction{
		{ID: "t0", AwardID: "T1", ModificationNumber: "0", FederalActionObligation: 100000},
		{ID: "t1", AwardID: "T1", ModificationNumber: "P00001", ActionType: "B", FederalActionObligation: 30000},
		{ID: "t2", AwardID: "T1", ModificationNumber: "P00002", ActionType: "M", FederalActionObligation: 10},
		{ID: "t3", AwardID: "T1", ModificationNumber: "P00003", ActionType: "K", FederalActionObligation: 5},
		{ID: "t4", AwardID: "T1", ModificationNumber: "P00004", FederalActionObligation: 0},
	})

	assert.Empty(t, ind.Finalize())
	assert.Equal(t, 1, ind.Metadata().DataCoverage.RecordsWithRequiredFields)
}

func TestModifications_TransactionGrowth(t *testing.T) {
	ind := NewModifications()
	folder := ind.(types.TransactionFolder)

	a := testutil.MakeAward("T2", "ACME", "DOD", 350000)
	ind.Fold(&a)
	folder.FoldTransactions("INT-T2", []types.Transaction{
		{ModificationNumber: "0", FederalActionObligation: 100000},
		{ModificationNumber: "P01", FederalActionObligation: 150000},
		{ModificationNumber: "P02", FederalActionObligation: 100000},
	})

	signals := ind.Finalize()
	require.Len(t, signals, 1)
	assert.Equal(t, types.SeverityHigh, signals[0].Severity)
	assert.Equal(t, 350.0, signals[0].Value)
}

func TestModifications_ZeroOriginalNoGrowth(t *testing.T) {
	ind := NewModifications()
	awards := []types.NormalizedAward{
		testutil.MakeAward("z", "ACME", "DOD", 50000, testutil.WithModifications(1, 50000)),
	}
	assert.Empty(t, testutil.Fold(ind, awards))
}

func TestModifications_CustomThresholds(t *testing.T) {
	ind := NewModifications()
	ind.Configure(config.IndicatorSettings{"maxModificationCount": 1.0, "maxGrowthRatio": 10.0})

	awards := []types.NormalizedAward{
		testutil.MakeAward("a", "ACME", "DOD", 300000, testutil.WithModifications(2, 200000)),
	}
	signals := testutil.Fold(ind, awards)
	require.Len(t, signals, 1)
	assert.Equal(t, types.SeverityMedium, signals[0].Severity)
	assert.Equal(t, 300.0, signals[0].Value, "value is the larger of count and growth percent")
}
