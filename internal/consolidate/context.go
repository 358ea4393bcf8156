package consolidate

import (
	"strings"

	"github.com/layonez/bid-buster-sub000/internal/indexer"
	"github.com/layonez/bid-buster-sub000/internal/types"
)

// entityContext summarizes the finding's entity from the indexed awards alone.
// Top NAICS and set-aside come from the affected awards; award count and date
// range cover every award attributed to the entity.
func entityContext(f types.MaterialFinding, idx *indexer.Indexer) *types.EntityContext {
	ctx := &types.EntityContext{}

	naics := newTally()
	setAside := newTally()
	for _, id := range f.AffectedAwardIDs {
		a, ok := idx.Lookup(id)
		if !ok {
			continue
		}
		naics.add(a.NAICSDescription)
		setAside.add(a.SetAsideType)
	}
	ctx.TopNAICSDescription = naics.top()
	ctx.TopSetAsideType = setAside.top()

	entityAwards := idx.ByEntity(f.EntityType, f.EntityName)
	if len(entityAwards) == 0 && f.EntityType == types.EntityAward {
		entityAwards = signalAwards(f.Signals, idx)
	}
	ctx.TotalAwards = len(entityAwards)
	for i := range entityAwards {
		d := strings.TrimSpace(entityAwards[i].StartDate)
		if d == "" {
			continue
		}
		if ctx.FirstAwardDate == "" || d < ctx.FirstAwardDate {
			ctx.FirstAwardDate = d
		}
		if ctx.LastAwardDate == "" || d > ctx.LastAwardDate {
			ctx.LastAwardDate = d
		}
	}
	return ctx
}

// signalAwards resolves award-level signals by their entity id. Award
// signals carry the award ref as their name when the recipient is blank.
func signalAwards(signals []types.Signal, idx *indexer.Indexer) []types.NormalizedAward {
	var out []types.NormalizedAward
	seen := make(map[string]bool)
	for _, s := range signals {
		if seen[s.EntityID] {
			continue
		}
		seen[s.EntityID] = true
		if a, ok := idx.Lookup(s.EntityID); ok {
			out = append(out, a)
		}
	}
	return out
}

// tally counts values, breaking ties by first appearance.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if _, seen := t.counts[v]; !seen {
		t.order = append(t.order, v)
	}
	t.counts[v]++
}

func (t *tally) top() string {
	best, bestN := "", 0
	for _, v := range t.order {
		if t.counts[v] > bestN {
			best, bestN = v, t.counts[v]
		}
	}
	return best
}
