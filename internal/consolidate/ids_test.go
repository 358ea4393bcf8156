package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layonez/bid-buster-sub000/internal/testutil"
	"github.com/layonez/bid-buster-sub000/internal/types"
)

func TestEntitySlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Acme Corp", "ACME-CORP"},
		{"acme", "ACME"},
		{"Lockheed Martin Corporation", "LOCKHEED-MAR"},
		{"INTERNATIONALBUSINESS MACHINES", "INTERNATIONA"},
		{"BOOZ ALLEN HAMILTON INC.", "BOOZ-ALLEN"},
		{"A.B.C. Holdings, LLC", "ABC-HOLDINGS"},
		{"  ---  Acme  ", "ACME"},
		{"", "UNKNOWN"},
		{"!!! ???", "UNKNOWN"},
		{"Société Générale", "SOCIT-GNRALE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entitySlug(tt.name)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxSlugLen)
		})
	}
}

func TestIDAllocator(t *testing.T) {
	ids := newIDAllocator()
	assert.Equal(t, "F-R001-ACME-CORP-SINGLEBID", ids.next("R001", "Acme Corp"))
	assert.Equal(t, "F-R001-ACME-CORP-SINGLEBID-2", ids.next("R001", "ACME CORP."))
	assert.Equal(t, "F-R001-ACME-CORP-SINGLEBID-3", ids.next("R001", "acme corp"))
	assert.Equal(t, "F-R004-ACME-CORP-CONCENTRATION", ids.next("R004", "Acme Corp"))
	assert.Equal(t, "F-R099-UNKNOWN-R099", ids.next("R099", ""))
}

func TestIndicatorSuffix(t *testing.T) {
	for id, want := range map[string]string{
		"R001": "SINGLEBID", "R002": "NONCOMP", "R003": "SPLITTING",
		"R004": "CONCENTRATION", "R005": "MODS", "R006": "OUTLIER", "X9": "X9",
	} {
		assert.Equal(t, want, indicatorSuffix(id))
	}
}

func TestConsolidate_FindingIDsUnique(t *testing.T) {
	awards := []types.NormalizedAward{
		testutil.MakeAward("a1", "Acme Corp", "DOD", 100),
		testutil.MakeAward("a2", "ACME CORP", "DOD", 200),
	}
	signals := []types.Signal{
		testutil.MakeSignal("R002", "Acme Corp", types.SeverityHigh, 1, "a1"),
		testutil.MakeSignal("R002", "ACME CORP", types.SeverityHigh, 1, "a2"),
	}
	findings := ConsolidateSignals(signals, awards, DefaultOptions())
	require.Len(t, findings, 2)

	ids := map[string]bool{}
	for _, f := range findings {
		ids[f.ID] = true
	}
	assert.Equal(t, map[string]bool{
		"F-R002-ACME-CORP-NONCOMP":   true,
		"F-R002-ACME-CORP-NONCOMP-2": true,
	}, ids)
}
