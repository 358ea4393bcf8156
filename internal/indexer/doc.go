// Package indexer provides a concurrent-safe in-memory store of normalized awards.
//
// # Contract
//
// The Indexer stores awards keyed by reference (AwardID, falling back to
// InternalID). Both AwardID and InternalID resolve through Lookup, so signal
// award references of either form find the award. Queries by recipient and
// agency scan in insertion order, so results are deterministic.
//
// Thread safety: all methods are safe for concurrent use via sync.RWMutex.
//
// # Methods
//
//	Upsert(a types.NormalizedAward)
//	  - Adds the award or replaces the stored award with the same reference.
//
//	Lookup(id string) (types.NormalizedAward, bool)
//	  - Resolves an AwardID or InternalID. The first award to claim a key keeps it.
//
//	Amount(id string) float64
//	  - AwardAmount for id, 0 on a miss.
//
//	ByRecipient(name string) / ByAgency(name string) / ByEntity(type, name)
//	  - Awards belonging to the entity. Agencies match agency or sub-agency.
//
//	All() []types.NormalizedAward
//	Count() int
//
// # Callback
//
// The Indexer accepts an optional OnChange callback that fires on every Upsert.
// The pipeline uses it to report duplicate award references in a dataset.
//
//	type OnChangeFunc func(event IndexEvent)
//	type IndexEvent struct {
//	    Type  string // "insert" or "replace"
//	    Award types.NormalizedAward
//	}
package indexer
