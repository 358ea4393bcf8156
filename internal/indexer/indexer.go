package indexer

import (
	"strings"
	"sync"

	"github.com/layonez/bid-buster-sub000/internal/types"
)

// IndexEvent represents a change to the award index.
type IndexEvent struct {
	Type  string // "insert" or "replace"
	Award types.NormalizedAward
}

// OnChangeFunc is called when the index changes.
type OnChangeFunc func(event IndexEvent)

// Indexer is a concurrent-safe in-memory store of awards.
type Indexer struct {
	mu       sync.RWMutex
	awards   []types.NormalizedAward
	byRef    map[string]int
	byKey    map[string]int
	onChange OnChangeFunc
}

// New creates a new Indexer with an optional change callback.
func New(onChange OnChangeFunc) *Indexer {
	return &Indexer{
		byRef:    make(map[string]int),
		byKey:    make(map[string]int),
		onChange: onChange,
	}
}

// Build returns an index holding awards, in order.
func Build(awards []types.NormalizedAward) *Indexer {
	idx := New(nil)
	for i := range awards {
		idx.Upsert(awards[i])
	}
	return idx
}

// Upsert adds the award or replaces a stored award with the same reference.
// Awards with neither AwardID nor InternalID are ignored.
func (idx *Indexer) Upsert(a types.NormalizedAward) {
	ref := a.Ref()
	if ref == "" {
		return
	}

	idx.mu.Lock()
	pos, exists := idx.byRef[ref]
	if exists {
		idx.awards[pos] = a
	} else {
		pos = len(idx.awards)
		idx.awards = append(idx.awards, a)
		idx.byRef[ref] = pos
	}
	for _, key := range a.LookupKeys() {
		if _, taken := idx.byKey[key]; !taken || exists {
			idx.byKey[key] = pos
		}
	}
	idx.mu.Unlock()

	if idx.onChange != nil {
		evt := "insert"
		if exists {
			evt = "replace"
		}
		idx.onChange(IndexEvent{Type: evt, Award: a})
	}
}

// Lookup finds an award by AwardID or InternalID.
func (idx *Indexer) Lookup(id string) (types.NormalizedAward, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	pos, ok := idx.byKey[id]
	if !ok {
		return types.NormalizedAward{}, false
	}
	return idx.awards[pos], true
}

// Amount returns the award amount for id, or 0 when id is not indexed.
func (idx *Indexer) Amount(id string) float64 {
	a, ok := idx.Lookup(id)
	if !ok {
		return 0
	}
	return a.AwardAmount
}

// ByRecipient returns awards whose recipient name equals name, ignoring
// surrounding whitespace.
func (idx *Indexer) ByRecipient(name string) []types.NormalizedAward {
	name = strings.TrimSpace(name)
	return idx.filter(func(a *types.NormalizedAward) bool {
		return strings.TrimSpace(a.RecipientName) == name
	})
}

// ByAgency returns awards whose awarding agency or sub-agency equals name.
func (idx *Indexer) ByAgency(name string) []types.NormalizedAward {
	name = strings.TrimSpace(name)
	return idx.filter(func(a *types.NormalizedAward) bool {
		return strings.TrimSpace(a.AwardingAgency) == name ||
			strings.TrimSpace(a.AwardingSubAgency) == name
	})
}

// ByEntity returns the awards belonging to an entity of the given type.
// Agency entities match on agency or sub-agency; every other entity type
// matches on recipient name.
func (idx *Indexer) ByEntity(entityType types.EntityType, name string) []types.NormalizedAward {
	if entityType == types.EntityAgency {
		return idx.ByAgency(name)
	}
	return idx.ByRecipient(name)
}

func (idx *Indexer) filter(match func(*types.NormalizedAward) bool) []types.NormalizedAward {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var result []types.NormalizedAward
	for i := range idx.awards {
		if match(&idx.awards[i]) {
			result = append(result, idx.awards[i])
		}
	}
	return result
}

// All returns all stored awards in insertion order (copy of the slice).
func (idx *Indexer) All() []types.NormalizedAward {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	result := make([]types.NormalizedAward, len(idx.awards))
	copy(result, idx.awards)
	return result
}

// Count returns the total number of stored awards.
func (idx *Indexer) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.awards)
}
