package indicators

import (
	"fmt"
	"strings"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/types"
	"github.com/layonez/bid-buster-sub000/internal/util"
)

// competitiveCodes are extent-competed codes for openly solicited awards:
// full and open (A), full and open after exclusion of sources (D), competed
// under simplified acquisition (F), competitive delivery order (CDO).
var competitiveCodes = map[string]bool{"A": true, "D": true, "F": true, "CDO": true}

type agencyBidStats struct {
	competed  int
	singleBid int
	awardIDs  []string
}

type singleBidIndicator struct {
	severityThreshold      float64
	requireCompetitiveType bool

	byAgency   map[string]*agencyBidStats
	total      int
	withFields int
}

// NewSingleBid returns the R001 single-bid competition indicator.
func NewSingleBid() types.Indicator {
	return &singleBidIndicator{
		severityThreshold:      0.2,
		requireCompetitiveType: true,
		byAgency:               make(map[string]*agencyBidStats),
	}
}

func (r *singleBidIndicator) ID() string   { return SingleBidID }
func (r *singleBidIndicator) Name() string { return "Single-Bid Competition" }

func (r *singleBidIndicator) Configure(s config.IndicatorSettings) {
	r.severityThreshold = s.PositiveFloat("severityThreshold", r.severityThreshold)
	r.requireCompetitiveType = s.Bool("requireCompetitiveType", r.requireCompetitiveType)
}

func (r *singleBidIndicator) Fold(a *types.NormalizedAward) {
	r.total++

	extent := normalizeCode(a.ExtentCompeted)
	if !a.NumberOfOffersReceived.Valid {
		return
	}
	if r.requireCompetitiveType {
		if extent == "" {
			return
		}
		r.withFields++
		if !competitiveCodes[extent] {
			return
		}
	} else {
		r.withFields++
	}

	agency := strings.TrimSpace(a.AwardingAgency)
	if agency == "" {
		return
	}
	stats, ok := r.byAgency[agency]
	if !ok {
		stats = &agencyBidStats{}
		r.byAgency[agency] = stats
	}
	stats.competed++
	if a.NumberOfOffersReceived.Value == 1 {
		stats.singleBid++
		stats.awardIDs = append(stats.awardIDs, a.Ref())
	}
}

func (r *singleBidIndicator) Finalize() []types.Signal {
	var signals []types.Signal
	for _, agency := range util.SortedKeys(r.byAgency) {
		stats := r.byAgency[agency]
		if stats.singleBid == 0 {
			continue
		}
		rate := safeRatio(float64(stats.singleBid), float64(stats.competed))

		severity := types.SeverityLow
		switch {
		case rate >= r.severityThreshold:
			severity = types.SeverityHigh
		case rate >= r.severityThreshold/2:
			severity = types.SeverityMedium
		}

		signals = append(signals, types.Signal{
			IndicatorID:    SingleBidID,
			IndicatorName:  r.Name(),
			Severity:       severity,
			EntityType:     types.EntityAgency,
			EntityID:       agency,
			EntityName:     agency,
			Value:          round1(rate * 100),
			Threshold:      round1(r.severityThreshold * 100),
			Context:        fmt.Sprintf("%d of %d competitively solicited awards received a single offer (%s)", stats.singleBid, stats.competed, percent(rate)),
			AffectedAwards: stats.awardIDs,
		})
	}
	sortSignals(signals)
	return signals
}

func (r *singleBidIndicator) Metadata() types.IndicatorMetadata {
	return meta(SingleBidID, r.Name(),
		"Competitive solicitations that attracted only one offer.",
		"Per awarding agency, the share of competitively solicited awards (extent competed A, D, F or CDO) reporting exactly one offer received.",
		map[string]interface{}{
			"severityThreshold":      r.severityThreshold,
			"requireCompetitiveType": r.requireCompetitiveType,
		},
		r.total, r.withFields)
}
