package indexer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layonez/bid-buster-sub000/internal/testutil"
	"github.com/layonez/bid-buster-sub000/internal/types"
)

func refs(awards []types.NormalizedAward) []string {
	out := make([]string, 0, len(awards))
	for i := range awards {
		out = append(out, awards[i].Ref())
	}
	return out
}

func TestUpsertAndCount(t *testing.T) {
	idx := New(nil)
	assert.Equal(t, 0, idx.Count())

	a1 := testutil.MakeAward("A-1", "Acme", "DOD", 100)
	idx.Upsert(a1)
	assert.Equal(t, 1, idx.Count())

	// Upsert same reference replaces, count stays 1
	a1.AwardAmount = 250
	idx.Upsert(a1)
	assert.Equal(t, 1, idx.Count())
	assert.Equal(t, 250.0, idx.Amount("A-1"))

	idx.Upsert(testutil.MakeAward("A-2", "Acme", "DOD", 100))
	assert.Equal(t, 2, idx.Count())
}

func TestUpsert_NoReferenceIgnored(t *testing.T) {
	idx := New(nil)
	idx.Upsert(types.NormalizedAward{RecipientName: "Ghost", AwardAmount: 10})
	assert.Equal(t, 0, idx.Count())
}

func TestLookup_ByEitherIdentifier(t *testing.T) {
	idx := Build([]types.NormalizedAward{
		testutil.MakeAward("CONT_AWD_1", "Acme", "DOD", 1000),
		{InternalID: "INT-ONLY", RecipientName: "Beta", AwardAmount: 500},
	})

	a, ok := idx.Lookup("CONT_AWD_1")
	require.True(t, ok)
	assert.Equal(t, "Acme", a.RecipientName)

	a, ok = idx.Lookup("INT-CONT_AWD_1")
	require.True(t, ok)
	assert.Equal(t, "CONT_AWD_1", a.AwardID)

	assert.Equal(t, 500.0, idx.Amount("INT-ONLY"))

	_, ok = idx.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 0.0, idx.Amount("missing"))
}

func TestLookup_FirstClaimKeepsSharedKey(t *testing.T) {
	first := testutil.MakeAward("A-1", "Acme", "DOD", 100)
	second := testutil.MakeAward("A-2", "Beta", "DOD", 200)
	second.InternalID = first.InternalID

	idx := Build([]types.NormalizedAward{first, second})
	a, ok := idx.Lookup(first.InternalID)
	require.True(t, ok)
	assert.Equal(t, "A-1", a.AwardID)
}

func TestByRecipient(t *testing.T) {
	idx := Build([]types.NormalizedAward{
		testutil.MakeAward("1", "Acme", "DOD", 1),
		testutil.MakeAward("2", "Beta", "DOD", 1),
		testutil.MakeAward("3", " Acme ", "DOE", 1),
	})
	assert.Equal(t, []string{"1", "3"}, refs(idx.ByRecipient("Acme")))
	assert.Empty(t, idx.ByRecipient("Gamma"))
}

func TestByAgency_MatchesSubAgency(t *testing.T) {
	idx := Build([]types.NormalizedAward{
		testutil.MakeAward("1", "Acme", "Department of Defense", 1, testutil.WithSubAgency("Department of the Army")),
		testutil.MakeAward("2", "Beta", "Department of Energy", 1),
		testutil.MakeAward("3", "Gamma", "Department of Defense", 1),
	})
	assert.Equal(t, []string{"1", "3"}, refs(idx.ByAgency("Department of Defense")))
	assert.Equal(t, []string{"1"}, refs(idx.ByAgency("Department of the Army")))
}

func TestByEntity(t *testing.T) {
	idx := Build([]types.NormalizedAward{
		testutil.MakeAward("1", "DOD Services", "DOD", 1),
		testutil.MakeAward("2", "Acme", "DOD Services", 1),
	})
	assert.Equal(t, []string{"2"}, refs(idx.ByEntity(types.EntityAgency, "DOD Services")))
	assert.Equal(t, []string{"1"}, refs(idx.ByEntity(types.EntityRecipient, "DOD Services")))
	assert.Equal(t, []string{"1"}, refs(idx.ByEntity(types.EntityAward, "DOD Services")))
}

func TestAll_InsertionOrder(t *testing.T) {
	idx := New(nil)
	for _, id := range []string{"c", "a", "b"} {
		idx.Upsert(testutil.MakeAward(id, "R", "A", 1))
	}
	all := idx.All()
	assert.Equal(t, []string{"c", "a", "b"}, refs(all))

	// Mutating the copy does not affect the index
	all[0].AwardAmount = 999
	assert.Equal(t, 1.0, idx.Amount("c"))
}

func TestOnChangeCallback(t *testing.T) {
	var events []IndexEvent
	var mu sync.Mutex
	idx := New(func(e IndexEvent) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
	})

	a := testutil.MakeAward("A-1", "Acme", "DOD", 100)
	idx.Upsert(a)
	idx.Upsert(a)
	idx.Upsert(types.NormalizedAward{})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, "insert", events[0].Type)
	assert.Equal(t, "replace", events[1].Type)
	assert.Equal(t, "A-1", events[1].Award.AwardID)
}

func TestConcurrency(t *testing.T) {
	idx := New(nil)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			idx.Upsert(testutil.MakeAward(fmt.Sprintf("A-%d", n), "Acme", "DOD", float64(n)))
		}(i)
	}
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = idx.ByRecipient("Acme")
			_ = idx.Count()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, idx.Count())
	assert.Len(t, idx.ByRecipient("Acme"), 50)
}
