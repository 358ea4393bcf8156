// Package engine runs the configured indicators over a set of awards.
//
// # Contract
//
// The Engine:
//  1. Instantiates each enabled indicator from the registry (optionally
//     restricted by an allow-list) and configures it
//  2. Folds every award through every active indicator
//  3. Folds per-award transaction detail into indicators that accept it
//  4. Finalizes each indicator and merges the signals, ordered by severity
//     then descending value
//
// The run is deterministic: the same awards and configuration always produce
// the same Result.
//
// # Constructor
//
//	func New(logger *zap.Logger) *Engine
//	func (e *Engine) Initialize(cfg *config.Config, filter []string) error
//	func (e *Engine) ProcessAwards(awards []types.NormalizedAward)
//	func (e *Engine) ProcessTransactions(txns map[string][]types.Transaction)
//	func (e *Engine) Finalize() Result
package engine
