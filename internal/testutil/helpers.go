// Package testutil provides shared test helpers for the bid-buster packages.
// Import this in test files to avoid duplicating fixture loading, award builders, etc.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/layonez/bid-buster-sub000/internal/dataset"
	"github.com/layonez/bid-buster-sub000/internal/types"
)

// LoadAwards reads an award fixture the same way the CLI reads a dataset.
// Fails the test immediately if the file can't be read or parsed.
func LoadAwards(t *testing.T, path string) []types.NormalizedAward {
	t.Helper()
	awards, err := dataset.LoadAwards(path)
	require.NoError(t, err, "failed to load fixture %s", path)
	return awards
}

// AwardOption customizes an award built by MakeAward.
type AwardOption func(*types.NormalizedAward)

// MakeAward creates a test award with the given id, recipient, agency and amount.
// Use options to set competition, classification, date and modification fields.
func MakeAward(id, recipient, agency string, amount float64, opts ...AwardOption) types.NormalizedAward {
	a := types.NormalizedAward{
		AwardID:        id,
		InternalID:     "INT-" + id,
		RecipientName:  recipient,
		AwardingAgency: agency,
		AwardAmount:    amount,
		StartDate:      "2024-01-15",
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// WithCompetition sets the extent-competed code and the number of offers.
// Pass offers < 0 to leave the offer count absent.
func WithCompetition(extent string, offers int) AwardOption {
	return func(a *types.NormalizedAward) {
		a.ExtentCompeted = extent
		if offers >= 0 {
			a.NumberOfOffersReceived = types.Num(float64(offers))
		}
	}
}

// WithNAICS sets the NAICS code and description.
func WithNAICS(code, description string) AwardOption {
	return func(a *types.NormalizedAward) {
		a.NAICSCode = code
		a.NAICSDescription = description
	}
}

// WithPSC sets the PSC code.
func WithPSC(code string) AwardOption {
	return func(a *types.NormalizedAward) {
		a.PSCCode = code
	}
}

// WithSubAgency sets the awarding sub-agency.
func WithSubAgency(sub string) AwardOption {
	return func(a *types.NormalizedAward) {
		a.AwardingSubAgency = sub
	}
}

// WithStartDate sets the start date.
func WithStartDate(date string) AwardOption {
	return func(a *types.NormalizedAward) {
		a.StartDate = date
	}
}

// WithModifications sets the modification rollups.
func WithModifications(count int, amount float64) AwardOption {
	return func(a *types.NormalizedAward) {
		a.ModificationCount = types.Num(float64(count))
		a.TotalModificationAmount = types.Num(amount)
	}
}

// WithSetAside sets the set-aside type.
func WithSetAside(setAside string) AwardOption {
	return func(a *types.NormalizedAward) {
		a.SetAsideType = setAside
	}
}

// WithUEI sets the recipient UEI.
func WithUEI(uei string) AwardOption {
	return func(a *types.NormalizedAward) {
		a.RecipientUEI = uei
	}
}

// MakeSignal creates a test signal for consolidation tests.
func MakeSignal(indicatorID, entity string, severity types.Severity, value float64, awards ...string) types.Signal {
	return types.Signal{
		IndicatorID:    indicatorID,
		IndicatorName:  "test " + indicatorID,
		Severity:       severity,
		EntityType:     types.EntityRecipient,
		EntityID:       entity,
		EntityName:     entity,
		Value:          value,
		Context:        "test signal",
		AffectedAwards: awards,
	}
}

// Fold runs awards through an indicator and returns its signals.
func Fold(ind types.Indicator, awards []types.NormalizedAward) []types.Signal {
	for i := range awards {
		ind.Fold(&awards[i])
	}
	return ind.Finalize()
}
