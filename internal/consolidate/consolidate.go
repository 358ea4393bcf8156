package consolidate

import (
	"math"
	"sort"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/indexer"
	"github.com/layonez/bid-buster-sub000/internal/types"
	"github.com/layonez/bid-buster-sub000/internal/util"
)

// logDollarCutoff is the total above which dollar weight grows logarithmically.
const logDollarCutoff = 1_000_000

// Options bounds which findings survive consolidation.
type Options struct {
	MinAwardCount   int
	MinTotalAmount  float64
	MaxFindings     int
	MaxPerIndicator int
}

// DefaultOptions returns the compiled-in limits.
func DefaultOptions() Options {
	return Options{
		MinAwardCount:   config.DefaultMinAwardCount,
		MaxFindings:     config.DefaultMaxFindings,
		MaxPerIndicator: config.DefaultMaxPerIndicator,
	}
}

// OptionsFrom converts configured materiality limits, keeping defaults for
// unset (non-positive) caps.
func OptionsFrom(m config.Materiality) Options {
	opts := DefaultOptions()
	if m.MinAwardCount > 0 {
		opts.MinAwardCount = m.MinAwardCount
	}
	if m.MinTotalAmount > 0 {
		opts.MinTotalAmount = m.MinTotalAmount
	}
	if m.MaxFindings > 0 {
		opts.MaxFindings = m.MaxFindings
	}
	if m.MaxPerIndicator > 0 {
		opts.MaxPerIndicator = m.MaxPerIndicator
	}
	return opts
}

type groupKey struct {
	entityName  string
	indicatorID string
}

type group struct {
	key     groupKey
	signals []types.Signal
}

// ConsolidateSignals groups signals into material findings, one per entity and
// indicator, ranks them by materiality and applies the diversity cap.
func ConsolidateSignals(signals []types.Signal, awards []types.NormalizedAward, opts Options) []types.MaterialFinding {
	return Consolidate(signals, indexer.Build(awards), opts)
}

// Consolidate is ConsolidateSignals over a prebuilt award index.
func Consolidate(signals []types.Signal, idx *indexer.Indexer, opts Options) []types.MaterialFinding {
	groups := groupSignals(signals)
	ids := newIDAllocator()

	findings := make([]types.MaterialFinding, 0, len(groups))
	for _, g := range groups {
		f := buildFinding(g, idx)
		if len(f.AffectedAwardIDs) < opts.MinAwardCount || f.TotalDollarValue < opts.MinTotalAmount {
			continue
		}
		f.ID = ids.next(f.IndicatorID, f.EntityName)
		f.Context = entityContext(f, idx)
		findings = append(findings, f)
	}

	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].MaterialityScore > findings[j].MaterialityScore
	})
	return applyDiversityCap(findings, opts)
}

// groupSignals buckets signals by (entity name, indicator), keeping the order
// in which groups first appear.
func groupSignals(signals []types.Signal) []*group {
	byKey := make(map[groupKey]*group)
	var ordered []*group
	for _, s := range signals {
		k := groupKey{entityName: s.EntityName, indicatorID: s.IndicatorID}
		g, ok := byKey[k]
		if !ok {
			g = &group{key: k}
			byKey[k] = g
			ordered = append(ordered, g)
		}
		g.signals = append(g.signals, s)
	}
	return ordered
}

func buildFinding(g *group, idx *indexer.Indexer) types.MaterialFinding {
	first := g.signals[0]

	var awardIDs []string
	severity := first.Severity
	for _, s := range g.signals {
		awardIDs = append(awardIDs, s.AffectedAwards...)
		if s.Severity.Weight() > severity.Weight() {
			severity = s.Severity
		}
	}
	awardIDs = util.UniqueStrings(awardIDs)
	if awardIDs == nil {
		awardIDs = []string{}
	}

	var total float64
	for _, id := range awardIDs {
		total += idx.Amount(id)
	}

	return types.MaterialFinding{
		EntityName:       g.key.entityName,
		EntityType:       first.EntityType,
		IndicatorID:      g.key.indicatorID,
		IndicatorName:    first.IndicatorName,
		Severity:         severity,
		MaterialityScore: MaterialityScore(total, severity, len(g.signals)),
		TotalDollarValue: total,
		SignalCount:      len(g.signals),
		AffectedAwardIDs: awardIDs,
		Signals:          g.signals,
		Source:           types.SourceRule,
	}
}

// MaterialityScore weighs dollars by severity and signal count. Totals above
// one million dollars contribute log10(total) million instead of their face
// value, so the score is discontinuous at the cutoff.
func MaterialityScore(total float64, severity types.Severity, signalCount int) float64 {
	return dollarFactor(total) * float64(severity.Weight()) * float64(signalCount)
}

func dollarFactor(total float64) float64 {
	if total <= logDollarCutoff {
		return total
	}
	return math.Log10(total) * logDollarCutoff
}

// applyDiversityCap walks findings in rank order, admitting each while its
// indicator is under MaxPerIndicator, until MaxFindings are admitted.
func applyDiversityCap(ranked []types.MaterialFinding, opts Options) []types.MaterialFinding {
	perIndicator := make(map[string]int)
	out := make([]types.MaterialFinding, 0, len(ranked))
	for _, f := range ranked {
		if opts.MaxFindings > 0 && len(out) >= opts.MaxFindings {
			break
		}
		if opts.MaxPerIndicator > 0 && perIndicator[f.IndicatorID] >= opts.MaxPerIndicator {
			continue
		}
		perIndicator[f.IndicatorID]++
		out = append(out, f)
	}
	return out
}
