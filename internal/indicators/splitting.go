package indicators

import (
	"fmt"
	"strings"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/types"
)

var defaultSplitThresholds = []float64{250000, 7500000}

const (
	periodQuarter = "quarter"
	periodYear    = "year"
)

// clusterKey identifies awards from one agency to one recipient in one period
// sitting just under one threshold.
type clusterKey struct {
	agency    string
	recipient string
	period    string
	threshold float64
}

type splitCluster struct {
	entityID string
	amounts  []float64
	awardIDs []string
}

type splittingIndicator struct {
	thresholds     []float64
	bandPercent    float64
	minClusterSize int
	period         string

	clusters   map[clusterKey]*splitCluster
	order      []clusterKey
	total      int
	withFields int
}

// NewSplitting returns the R003 contract value splitting indicator.
func NewSplitting() types.Indicator {
	return &splittingIndicator{
		thresholds:     defaultSplitThresholds,
		bandPercent:    10,
		minClusterSize: 3,
		period:         periodQuarter,
		clusters:       make(map[clusterKey]*splitCluster),
	}
}

func (r *splittingIndicator) ID() string   { return SplittingID }
func (r *splittingIndicator) Name() string { return "Contract Value Splitting" }

func (r *splittingIndicator) Configure(s config.IndicatorSettings) {
	var thresholds []float64
	for _, t := range s.Floats("thresholds", r.thresholds) {
		if t > 0 {
			thresholds = append(thresholds, t)
		}
	}
	if len(thresholds) > 0 {
		r.thresholds = thresholds
	}
	if band := s.PositiveFloat("bandPercent", r.bandPercent); band < 100 {
		r.bandPercent = band
	}
	r.minClusterSize = s.PositiveInt("minClusterSize", r.minClusterSize)
	switch p := strings.ToLower(s.String("period", r.period)); p {
	case periodQuarter, periodYear:
		r.period = p
	}
}

func (r *splittingIndicator) Fold(a *types.NormalizedAward) {
	r.total++

	agency := strings.TrimSpace(a.AwardingAgency)
	recipient := strings.TrimSpace(a.RecipientName)
	if agency == "" || recipient == "" || a.AwardAmount <= 0 {
		return
	}
	period, ok := r.periodOf(a.StartDate)
	if !ok {
		return
	}
	r.withFields++

	band := r.bandPercent / 100
	for _, threshold := range r.thresholds {
		if a.AwardAmount < threshold*(1-band) || a.AwardAmount >= threshold {
			continue
		}
		key := clusterKey{agency: agency, recipient: recipient, period: period, threshold: threshold}
		c, ok := r.clusters[key]
		if !ok {
			c = &splitCluster{}
			r.clusters[key] = c
			r.order = append(r.order, key)
		}
		if c.entityID == "" && a.RecipientUEI != "" {
			c.entityID = a.RecipientUEI
		}
		c.amounts = append(c.amounts, a.AwardAmount)
		c.awardIDs = append(c.awardIDs, a.Ref())
	}
}

// periodOf derives "FY2024" or "FY2024-Q2" from an ISO start date.
func (r *splittingIndicator) periodOf(startDate string) (string, bool) {
	t, ok := parseDate(startDate)
	if !ok {
		return "", false
	}
	if r.period == periodYear {
		return fmt.Sprintf("FY%d", t.Year()), true
	}
	quarter := (int(t.Month()) + 2) / 3
	return fmt.Sprintf("FY%d-Q%d", t.Year(), quarter), true
}

func (r *splittingIndicator) Finalize() []types.Signal {
	var signals []types.Signal
	band := r.bandPercent / 100
	for _, key := range r.order {
		c := r.clusters[key]
		size := len(c.amounts)
		if size < r.minClusterSize {
			continue
		}

		var sum float64
		for _, amt := range c.amounts {
			sum += amt
		}
		avg := safeRatio(sum, float64(size))

		severity := types.SeverityMedium
		if size >= 2*r.minClusterSize {
			severity = types.SeverityHigh
		}

		entityID := c.entityID
		if entityID == "" {
			entityID = key.recipient
		}
		signals = append(signals, types.Signal{
			IndicatorID:   SplittingID,
			IndicatorName: r.Name(),
			Severity:      severity,
			EntityType:    types.EntityRecipient,
			EntityID:      entityID,
			EntityName:    key.recipient,
			Value:         float64(size),
			Threshold:     key.threshold,
			Context: fmt.Sprintf("%d awards from %s in %s priced between %s and %s (average %s), just under the %s threshold",
				size, key.agency, key.period, dollars(key.threshold*(1-band)), dollars(key.threshold), dollars(avg), dollars(key.threshold)),
			AffectedAwards: c.awardIDs,
		})
	}
	sortSignals(signals)
	return signals
}

func (r *splittingIndicator) Metadata() types.IndicatorMetadata {
	return meta(SplittingID, r.Name(),
		"Clusters of awards priced just below regulatory dollar thresholds.",
		"Awards within the band below each threshold are grouped by agency, recipient and fiscal period; groups at or above the minimum cluster size are flagged.",
		map[string]interface{}{
			"thresholds":     r.thresholds,
			"bandPercent":    r.bandPercent,
			"minClusterSize": r.minClusterSize,
			"period":         r.period,
		},
		r.total, r.withFields)
}
