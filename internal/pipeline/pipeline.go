// Package pipeline runs a full screening pass: indicators, consolidation into
// material findings, and convergence across indicators.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/consolidate"
	"github.com/layonez/bid-buster-sub000/internal/convergence"
	"github.com/layonez/bid-buster-sub000/internal/engine"
	"github.com/layonez/bid-buster-sub000/internal/indexer"
	"github.com/layonez/bid-buster-sub000/internal/types"
)

// Input is the data a run screens.
type Input struct {
	Awards []types.NormalizedAward
	// Transactions maps award id (AwardID or InternalID) to its transactions.
	Transactions map[string][]types.Transaction
}

// Options controls a single run.
type Options struct {
	// Filter restricts the run to these indicator ids. Empty runs all enabled.
	Filter []string
	// Concurrent folds each indicator in its own goroutine.
	Concurrent bool
}

// Report is the serializable outcome of a run.
type Report struct {
	// InputDigest identifies the input files; set by callers that read them.
	InputDigest string                    `json:"inputDigest,omitempty"`
	AwardCount  int                       `json:"awardCount"`
	Summary     engine.Summary            `json:"summary"`
	Indicators  []types.IndicatorMetadata `json:"indicators"`
	Signals     []types.Signal            `json:"signals"`
	Findings    []types.MaterialFinding   `json:"findings"`
	Convergence []types.ConvergenceEntity `json:"convergence"`
}

// Pipeline wires the engine, consolidation and convergence together.
type Pipeline struct {
	cfg    *config.Config
	logger *zap.Logger
}

// New creates a Pipeline. A nil cfg uses config.Default().
func New(cfg *config.Config, logger *zap.Logger) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run screens the input and returns the report.
func (p *Pipeline) Run(ctx context.Context, in Input, opts Options) (*Report, error) {
	eng := engine.New(p.logger.Named("engine"))
	if err := eng.Initialize(p.cfg, opts.Filter); err != nil {
		return nil, fmt.Errorf("initializing engine: %w", err)
	}

	if opts.Concurrent {
		if err := eng.ProcessAwardsConcurrent(ctx, in.Awards); err != nil {
			return nil, err
		}
	} else {
		eng.ProcessAwards(in.Awards)
	}
	if len(in.Transactions) > 0 {
		eng.ProcessTransactions(in.Transactions)
	}
	result := eng.Finalize()

	idx := p.buildIndex(in.Awards)
	findings := consolidate.Consolidate(result.Signals, idx, consolidate.OptionsFrom(p.cfg.Materiality))
	converged := convergence.ComputeConvergence(findings)

	p.logger.Info("Screening complete",
		zap.Int("awards", len(in.Awards)),
		zap.Int("signals", result.Summary.TotalSignals),
		zap.Int("findings", len(findings)),
		zap.Int("convergent_entities", len(converged)),
	)

	return &Report{
		AwardCount:  len(in.Awards),
		Summary:     result.Summary,
		Indicators:  result.Metadata,
		Signals:     result.Signals,
		Findings:    findings,
		Convergence: converged,
	}, nil
}

// buildIndex indexes awards for consolidation, logging duplicate references.
func (p *Pipeline) buildIndex(awards []types.NormalizedAward) *indexer.Indexer {
	duplicates := 0
	idx := indexer.New(func(evt indexer.IndexEvent) {
		if evt.Type == "replace" {
			duplicates++
			p.logger.Debug("Duplicate award reference", zap.String("award", evt.Award.Ref()))
		}
	})
	for i := range awards {
		idx.Upsert(awards[i])
	}
	if duplicates > 0 {
		p.logger.Warn("Dataset contains duplicate award references; the last record wins for dollar totals",
			zap.Int("duplicates", duplicates),
		)
	}
	return idx
}
