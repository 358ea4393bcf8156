package indicators

import (
	"fmt"
	"strings"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/types"
	"github.com/layonez/bid-buster-sub000/internal/util"
)

var defaultNonCompetitiveCodes = []string{"B", "C", "G", "NDO"}

type recipientCompetition struct {
	entityID    string
	total       int
	nonCompeted int
	awardIDs    []string
}

type nonCompetitiveIndicator struct {
	flagCodes []string
	flagSet   map[string]bool

	byRecipient map[string]*recipientCompetition
	total       int
	withFields  int
}

// NewNonCompetitive returns the R002 non-competitive awards indicator.
func NewNonCompetitive() types.Indicator {
	return &nonCompetitiveIndicator{
		flagCodes:   defaultNonCompetitiveCodes,
		flagSet:     codeSet(defaultNonCompetitiveCodes),
		byRecipient: make(map[string]*recipientCompetition),
	}
}

func (r *nonCompetitiveIndicator) ID() string   { return NonCompetitiveID }
func (r *nonCompetitiveIndicator) Name() string { return "Non-Competitive Awards" }

func (r *nonCompetitiveIndicator) Configure(s config.IndicatorSettings) {
	r.flagCodes = s.Strings("flagCodes", r.flagCodes)
	r.flagSet = codeSet(r.flagCodes)
}

func (r *nonCompetitiveIndicator) Fold(a *types.NormalizedAward) {
	r.total++

	extent := normalizeCode(a.ExtentCompeted)
	if extent == "" {
		return
	}
	r.withFields++

	name := strings.TrimSpace(a.RecipientName)
	if name == "" {
		return
	}
	stats, ok := r.byRecipient[name]
	if !ok {
		stats = &recipientCompetition{}
		r.byRecipient[name] = stats
	}
	if stats.entityID == "" && a.RecipientUEI != "" {
		stats.entityID = a.RecipientUEI
	}
	stats.total++
	if r.flagSet[extent] {
		stats.nonCompeted++
		stats.awardIDs = append(stats.awardIDs, a.Ref())
	}
}

func (r *nonCompetitiveIndicator) Finalize() []types.Signal {
	var signals []types.Signal
	for _, name := range util.SortedKeys(r.byRecipient) {
		stats := r.byRecipient[name]
		if stats.nonCompeted == 0 {
			continue
		}
		rate := safeRatio(float64(stats.nonCompeted), float64(stats.total))

		severity := types.SeverityLow
		switch {
		case rate >= 0.8:
			severity = types.SeverityHigh
		case rate >= 0.5:
			severity = types.SeverityMedium
		}

		entityID := stats.entityID
		if entityID == "" {
			entityID = name
		}
		signals = append(signals, types.Signal{
			IndicatorID:    NonCompetitiveID,
			IndicatorName:  r.Name(),
			Severity:       severity,
			EntityType:     types.EntityRecipient,
			EntityID:       entityID,
			EntityName:     name,
			Value:          round1(rate * 100),
			Threshold:      50,
			Context:        fmt.Sprintf("%d of %d awards with a competition code were not competed (%s)", stats.nonCompeted, stats.total, percent(rate)),
			AffectedAwards: stats.awardIDs,
		})
	}
	sortSignals(signals)
	return signals
}

func (r *nonCompetitiveIndicator) Metadata() types.IndicatorMetadata {
	return meta(NonCompetitiveID, r.Name(),
		"Recipients whose awards were mostly made without competition.",
		"Per recipient, the share of awards with an extent competed code in the flag set, over all awards reporting an extent competed code.",
		map[string]interface{}{
			"flagCodes": r.flagCodes,
		},
		r.total, r.withFields)
}
