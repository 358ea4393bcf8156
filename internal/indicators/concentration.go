package indicators

import (
	"fmt"
	"sort"
	"strings"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/types"
	"github.com/layonez/bid-buster-sub000/internal/util"
)

// Concentration levels, in the order they are evaluated. A recipient flagged
// at one level is not flagged again at a later one.
const (
	levelAgency    = "agency"
	levelSubAgency = "sub-agency"
	levelNAICS     = "NAICS sector"
)

type recipientSpend struct {
	entityID string
	amount   float64
	awardIDs []string
}

type spendGroup struct {
	label       string
	total       float64
	awards      int
	byRecipient map[string]*recipientSpend
}

func newSpendGroup(label string) *spendGroup {
	return &spendGroup{label: label, byRecipient: make(map[string]*recipientSpend)}
}

func (g *spendGroup) add(a *types.NormalizedAward, recipient string) {
	g.total += a.AwardAmount
	g.awards++
	rs, ok := g.byRecipient[recipient]
	if !ok {
		rs = &recipientSpend{}
		g.byRecipient[recipient] = rs
	}
	if rs.entityID == "" && a.RecipientUEI != "" {
		rs.entityID = a.RecipientUEI
	}
	rs.amount += a.AwardAmount
	rs.awardIDs = append(rs.awardIDs, a.Ref())
}

// subAgencyKey scopes a sub-agency to its parent agency; sub-agency names
// such as "Office of the Secretary" repeat across departments.
type subAgencyKey struct {
	agency string
	sub    string
}

type concentrationIndicator struct {
	vendorShareThreshold float64
	highShareThreshold   float64
	minSectorSpend       float64
	minSectorAwards      int
	maxSectorSignals     int
	queryRecipient       string

	byAgency    map[string]*spendGroup
	bySubAgency map[subAgencyKey]*spendGroup
	byNAICS     map[string]*spendGroup
	total       int
	withFields  int
}

// NewConcentration returns the R004 vendor concentration indicator.
func NewConcentration() types.Indicator {
	return &concentrationIndicator{
		vendorShareThreshold: 0.3,
		highShareThreshold:   0.6,
		minSectorSpend:       1000000,
		minSectorAwards:      3,
		maxSectorSignals:     10,
		byAgency:             make(map[string]*spendGroup),
		bySubAgency:          make(map[subAgencyKey]*spendGroup),
		byNAICS:              make(map[string]*spendGroup),
	}
}

func (r *concentrationIndicator) ID() string   { return ConcentrationID }
func (r *concentrationIndicator) Name() string { return "Vendor Concentration" }

func (r *concentrationIndicator) Configure(s config.IndicatorSettings) {
	r.vendorShareThreshold = s.PositiveFloat("vendorShareThreshold", r.vendorShareThreshold)
	r.highShareThreshold = s.PositiveFloat("highShareThreshold", r.highShareThreshold)
	r.minSectorSpend = s.Float("minSectorSpend", r.minSectorSpend)
	r.minSectorAwards = s.Int("minSectorAwards", r.minSectorAwards)
	r.maxSectorSignals = s.PositiveInt("maxSectorSignals", r.maxSectorSignals)
	r.queryRecipient = s.String("queryRecipient", r.queryRecipient)
}

func (r *concentrationIndicator) Fold(a *types.NormalizedAward) {
	r.total++

	agency := strings.TrimSpace(a.AwardingAgency)
	recipient := strings.TrimSpace(a.RecipientName)
	if agency == "" || recipient == "" || a.AwardAmount <= 0 {
		return
	}
	r.withFields++

	group(r.byAgency, agency, agency).add(a, recipient)

	if sub := strings.TrimSpace(a.AwardingSubAgency); sub != "" && sub != agency {
		group(r.bySubAgency, subAgencyKey{agency: agency, sub: sub}, sub).add(a, recipient)
	}

	if code := normalizeCode(a.NAICSCode); code != "" {
		label := "NAICS " + code
		if desc := strings.TrimSpace(a.NAICSDescription); desc != "" {
			label += " (" + desc + ")"
		}
		group(r.byNAICS, code, label).add(a, recipient)
	}
}

func group[K comparable](groups map[K]*spendGroup, key K, label string) *spendGroup {
	g, ok := groups[key]
	if !ok {
		g = newSpendGroup(label)
		groups[key] = g
	}
	return g
}

func (r *concentrationIndicator) Finalize() []types.Signal {
	flagged := make(map[string]bool)

	agencySignals := r.evaluateLevel(sortedGroups(r.byAgency), levelAgency, flagged, nil)
	markFlagged(flagged, agencySignals)

	subSignals := r.evaluateLevel(r.subAgencyGroups(), levelSubAgency, flagged, nil)
	markFlagged(flagged, subSignals)

	sectorGate := func(g *spendGroup) bool {
		return g.total >= r.minSectorSpend && g.awards >= r.minSectorAwards
	}
	naicsSignals := r.evaluateLevel(sortedGroups(r.byNAICS), levelNAICS, flagged, sectorGate)
	sortSignals(naicsSignals)
	if len(naicsSignals) > r.maxSectorSignals {
		naicsSignals = naicsSignals[:r.maxSectorSignals]
	}

	signals := make([]types.Signal, 0, len(agencySignals)+len(subSignals)+len(naicsSignals))
	signals = append(signals, agencySignals...)
	signals = append(signals, subSignals...)
	signals = append(signals, naicsSignals...)
	sortSignals(signals)
	return signals
}

func sortedGroups(groups map[string]*spendGroup) []*spendGroup {
	out := make([]*spendGroup, 0, len(groups))
	for _, key := range util.SortedKeys(groups) {
		out = append(out, groups[key])
	}
	return out
}

// subAgencyGroups returns sub-agency groups ordered by agency, then sub-agency.
func (r *concentrationIndicator) subAgencyGroups() []*spendGroup {
	keys := make([]subAgencyKey, 0, len(r.bySubAgency))
	for k := range r.bySubAgency {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].agency != keys[j].agency {
			return keys[i].agency < keys[j].agency
		}
		return keys[i].sub < keys[j].sub
	})
	out := make([]*spendGroup, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.bySubAgency[k])
	}
	return out
}

// evaluateLevel flags recipients whose share of a group's spend meets the
// threshold. Recipients already in flagged are skipped; gate, when set,
// filters out groups too thin to judge.
func (r *concentrationIndicator) evaluateLevel(groups []*spendGroup, level string, flagged map[string]bool, gate func(*spendGroup) bool) []types.Signal {
	var signals []types.Signal
	for _, g := range groups {
		if g.total <= 0 {
			continue
		}
		if gate != nil && !gate(g) {
			continue
		}
		for _, recipient := range util.SortedKeys(g.byRecipient) {
			if flagged[recipient] || r.isQueriedRecipient(recipient) {
				continue
			}
			rs := g.byRecipient[recipient]
			share := safeRatio(rs.amount, g.total)
			if share < r.vendorShareThreshold {
				continue
			}

			severity := types.SeverityMedium
			if share >= r.highShareThreshold {
				severity = types.SeverityHigh
			}

			entityID := rs.entityID
			if entityID == "" {
				entityID = recipient
			}
			signals = append(signals, types.Signal{
				IndicatorID:   ConcentrationID,
				IndicatorName: r.Name(),
				Severity:      severity,
				EntityType:    types.EntityRecipient,
				EntityID:      entityID,
				EntityName:    recipient,
				Value:         round1(share * 100),
				Threshold:     round1(r.vendorShareThreshold * 100),
				Context: fmt.Sprintf("%s received %s of %s (%s) across %d recipients at %s level: %s",
					recipient, dollars(rs.amount), dollars(g.total), percent(share), len(g.byRecipient), level, g.label),
				AffectedAwards: rs.awardIDs,
			})
		}
	}
	return signals
}

// isQueriedRecipient reports whether the dataset was filtered to this
// recipient, in which case its share is high by construction.
func (r *concentrationIndicator) isQueriedRecipient(recipient string) bool {
	return r.queryRecipient != "" && strings.EqualFold(strings.TrimSpace(r.queryRecipient), recipient)
}

func markFlagged(flagged map[string]bool, signals []types.Signal) {
	for _, s := range signals {
		flagged[s.EntityName] = true
	}
}

func (r *concentrationIndicator) Metadata() types.IndicatorMetadata {
	return meta(ConcentrationID, r.Name(),
		"Recipients capturing a dominant share of spend.",
		"Recipient share of total spend per top-tier agency, then per sub-agency, then per NAICS sector (sectors gated by minimum spend and award count). A recipient is reported at the first level where it crosses the share threshold.",
		map[string]interface{}{
			"vendorShareThreshold": r.vendorShareThreshold,
			"highShareThreshold":   r.highShareThreshold,
			"minSectorSpend":       r.minSectorSpend,
			"minSectorAwards":      r.minSectorAwards,
			"maxSectorSignals":     r.maxSectorSignals,
		},
		r.total, r.withFields)
}
