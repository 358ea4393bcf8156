// Package indicators implements the red-flag rules that scan award records.
//
// # Contract
//
// Each indicator is a stateful single-pass accumulator (types.Indicator):
// Configure, then Fold every award, then Finalize once. Indicators never read
// each other's state, so they can be folded in parallel. Records missing a
// field an indicator needs are counted in TotalRecords but not in
// RecordsWithRequiredFields; they never cause an error.
//
// # Built-in Indicators
//
//   - R001 single-bid: per awarding agency, share of competitively solicited
//     awards that received exactly one offer.
//
//   - R002 non-competitive: per recipient, share of awards whose extent
//     competed code marks them as not competed.
//
//   - R003 splitting: clusters of awards from one agency to one recipient in
//     one period priced just under a regulatory dollar threshold.
//
//   - R004 concentration: recipients holding a large share of an agency's,
//     sub-agency's or NAICS sector's spend.
//
//   - R005 modifications: awards with many substantive modifications or large
//     growth over the original value.
//
//   - R006 outliers: awards priced above an IQR or z-score fence relative to
//     their NAICS (or PSC) peers.
//
// # Registry
//
//	func IDs() []string
//	func New(id string) (types.Indicator, bool)
package indicators
