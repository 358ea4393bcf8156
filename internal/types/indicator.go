package types

import "github.com/layonez/bid-buster-sub000/internal/config"

// Indicator is a single-pass statistical rule over the award stream.
//
// Lifecycle: Configure once, Fold every award, Finalize once, then Metadata.
// An indicator owns all of its state; no indicator reads another's.
type Indicator interface {
	// ID returns the stable indicator id, e.g. "R001".
	ID() string

	// Name returns the human-readable indicator name.
	Name() string

	// Configure applies thresholds from settings. Absent or ill-typed keys
	// keep the compiled defaults. Never fails.
	Configure(settings config.IndicatorSettings)

	// Fold accumulates one award. Must be O(1) amortized and must not emit.
	Fold(award *NormalizedAward)

	// Finalize computes signals, sorted by descending Value.
	// Called exactly once.
	Finalize() []Signal

	// Metadata reports effective thresholds and data coverage.
	// Valid after Finalize.
	Metadata() IndicatorMetadata
}

// TransactionFolder is implemented by indicators that can use per-award
// transaction detail.
type TransactionFolder interface {
	FoldTransactions(awardID string, txns []Transaction)
}
