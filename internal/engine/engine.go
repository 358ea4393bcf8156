package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/indicators"
	"github.com/layonez/bid-buster-sub000/internal/types"
	"github.com/layonez/bid-buster-sub000/internal/util"
)

// cancelCheckInterval is how many records a concurrent fold processes between
// context checks.
const cancelCheckInterval = 1024

// Result is everything the engine produces in one run.
type Result struct {
	Signals  []types.Signal            `json:"signals"`
	Metadata []types.IndicatorMetadata `json:"metadata"`
	Summary  Summary                   `json:"summary"`
}

// Summary counts signals by severity and by indicator.
type Summary struct {
	TotalIndicatorsRun int                    `json:"totalIndicatorsRun"`
	TotalSignals       int                    `json:"totalSignals"`
	BySeverity         map[types.Severity]int `json:"bySeverity"`
	ByIndicator        map[string]int         `json:"byIndicator"`
}

// Engine drives the configured indicators over an award stream.
// An Engine is single-use: Initialize, process, Finalize.
type Engine struct {
	logger *zap.Logger
	active []types.Indicator
}

// New creates an Engine with no active indicators.
func New(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Initialize instantiates every registered indicator that is enabled in cfg
// and, when filter is non-empty, named in filter. Each is configured
// immediately. A filter entry that names no registered indicator is an error,
// reported before any indicator is built.
func (e *Engine) Initialize(cfg *config.Config, filter []string) error {
	if cfg == nil {
		cfg = config.Default()
	}

	var allow map[string]bool
	if len(filter) > 0 {
		allow = make(map[string]bool, len(filter))
		for _, id := range filter {
			if !indicators.Registered(id) {
				return fmt.Errorf("unknown indicator %q in filter (registered: %v)", id, indicators.IDs())
			}
			allow[id] = true
		}
	}

	e.active = nil
	for _, id := range indicators.IDs() {
		if allow != nil && !allow[id] {
			continue
		}
		settings := cfg.SettingsFor(id)
		if !settings.Enabled() {
			e.logger.Debug("Indicator disabled", zap.String("indicator", id))
			continue
		}
		ind, _ := indicators.New(id)
		ind.Configure(settings)
		e.active = append(e.active, ind)
	}

	e.logger.Info("Signal engine initialized",
		zap.Strings("indicators", e.ActiveIDs()),
	)
	return nil
}

// ActiveIDs returns the ids of the instantiated indicators in run order.
func (e *Engine) ActiveIDs() []string {
	ids := make([]string, 0, len(e.active))
	for _, ind := range e.active {
		ids = append(ids, ind.ID())
	}
	return ids
}

// ProcessAwards folds every award through every active indicator.
func (e *Engine) ProcessAwards(awards []types.NormalizedAward) {
	for i := range awards {
		for _, ind := range e.active {
			ind.Fold(&awards[i])
		}
	}
	for _, ind := range e.active {
		recordsFoldedTotal.WithLabelValues(ind.ID()).Add(float64(len(awards)))
	}
	e.logger.Debug("Awards folded", zap.Int("count", len(awards)))
}

// ProcessAwardsConcurrent is ProcessAwards with one goroutine per indicator.
// Indicators share no state, so the result is identical to the sequential
// path. Returns the context error if ctx is cancelled mid-fold, in which case
// the engine must not be finalized.
func (e *Engine) ProcessAwardsConcurrent(ctx context.Context, awards []types.NormalizedAward) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, ind := range e.active {
		ind := ind
		g.Go(func() error {
			for i := range awards {
				if i%cancelCheckInterval == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				ind.Fold(&awards[i])
			}
			recordsFoldedTotal.WithLabelValues(ind.ID()).Add(float64(len(awards)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("folding awards: %w", err)
	}
	e.logger.Debug("Awards folded concurrently",
		zap.Int("count", len(awards)),
		zap.Int("indicators", len(e.active)),
	)
	return nil
}

// ProcessTransactions feeds per-award transactions, in award id order, to
// every active indicator that accepts them.
func (e *Engine) ProcessTransactions(txns map[string][]types.Transaction) {
	ids := util.SortedKeys(txns)

	for _, ind := range e.active {
		folder, ok := ind.(types.TransactionFolder)
		if !ok {
			continue
		}
		for _, id := range ids {
			folder.FoldTransactions(id, txns[id])
		}
		e.logger.Debug("Transactions folded",
			zap.String("indicator", ind.ID()),
			zap.Int("awards", len(ids)),
		)
	}
}

// Finalize collects every indicator's signals and metadata. Signals are
// ordered high, medium, low, then by descending value.
func (e *Engine) Finalize() Result {
	result := Result{
		Signals:  []types.Signal{},
		Metadata: make([]types.IndicatorMetadata, 0, len(e.active)),
		Summary: Summary{
			TotalIndicatorsRun: len(e.active),
			BySeverity: map[types.Severity]int{
				types.SeverityHigh:   0,
				types.SeverityMedium: 0,
				types.SeverityLow:    0,
			},
			ByIndicator: make(map[string]int, len(e.active)),
		},
	}

	for _, ind := range e.active {
		start := time.Now()
		signals := ind.Finalize()
		finalizeDuration.WithLabelValues(ind.ID()).Observe(time.Since(start).Seconds())

		md := ind.Metadata()
		result.Metadata = append(result.Metadata, md)
		result.Signals = append(result.Signals, signals...)
		result.Summary.ByIndicator[ind.ID()] = len(signals)

		for _, s := range signals {
			result.Summary.BySeverity[s.Severity]++
			signalsTotal.WithLabelValues(ind.ID(), string(s.Severity)).Inc()
		}

		e.logger.Info("Indicator finalized",
			zap.String("indicator", ind.ID()),
			zap.Int("signals", len(signals)),
			zap.Int("records", md.DataCoverage.TotalRecords),
			zap.Float64("coverage_percent", md.DataCoverage.CoveragePercent),
		)
	}

	sort.SliceStable(result.Signals, func(i, j int) bool {
		a, b := result.Signals[i], result.Signals[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		return a.Value > b.Value
	})
	result.Summary.TotalSignals = len(result.Signals)
	return result
}
