package indicators

import (
	"fmt"
	"strings"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/types"
)

type modifiedAward struct {
	ref        string
	internalID string
	recipient  string
	amount     float64
	count      types.OptionalNumber
	modAmount  types.OptionalNumber
}

// txnRollup is modification history recomputed from transaction detail.
type txnRollup struct {
	baseAmount float64
	count      int
	modAmount  float64
}

type modificationsIndicator struct {
	maxModificationCount int
	maxGrowthRatio       float64

	awards     []modifiedAward
	detail     map[string]*txnRollup
	total      int
	withFields int
}

// NewModifications returns the R005 excessive modifications indicator.
func NewModifications() types.Indicator {
	return &modificationsIndicator{
		maxModificationCount: 5,
		maxGrowthRatio:       2.0,
		detail:               make(map[string]*txnRollup),
	}
}

func (r *modificationsIndicator) ID() string   { return ModificationsID }
func (r *modificationsIndicator) Name() string { return "Excessive Modifications" }

func (r *modificationsIndicator) Configure(s config.IndicatorSettings) {
	r.maxModificationCount = s.Int("maxModificationCount", r.maxModificationCount)
	r.maxGrowthRatio = s.PositiveFloat("maxGrowthRatio", r.maxGrowthRatio)
}

func (r *modificationsIndicator) Fold(a *types.NormalizedAward) {
	r.total++
	r.awards = append(r.awards, modifiedAward{
		ref:        a.Ref(),
		internalID: a.InternalID,
		recipient:  strings.TrimSpace(a.RecipientName),
		amount:     a.AwardAmount,
		count:      a.ModificationCount,
		modAmount:  a.TotalModificationAmount,
	})
}

// FoldTransactions replaces the award's rollup fields with figures recomputed
// from substantive transactions.
func (r *modificationsIndicator) FoldTransactions(awardID string, txns []types.Transaction) {
	if awardID == "" || len(txns) == 0 {
		return
	}
	rollup := &txnRollup{}
	for i := range txns {
		t := &txns[i]
		switch {
		case t.IsBase():
			rollup.baseAmount += t.FederalActionObligation
		case t.IsSubstantive():
			rollup.count++
			rollup.modAmount += t.FederalActionObligation
		}
	}
	r.detail[awardID] = rollup
}

func (r *modificationsIndicator) rollupFor(m *modifiedAward) *txnRollup {
	if d, ok := r.detail[m.ref]; ok {
		return d
	}
	if m.internalID != "" {
		return r.detail[m.internalID]
	}
	return nil
}

func (r *modificationsIndicator) Finalize() []types.Signal {
	var signals []types.Signal
	r.withFields = 0

	for i := range r.awards {
		m := &r.awards[i]

		var (
			count     int
			current   float64
			original  float64
			hasCount  bool
			hasGrowth bool
		)
		if d := r.rollupFor(m); d != nil {
			count, hasCount = d.count, true
			if d.baseAmount > 0 {
				original, current = d.baseAmount, d.baseAmount+d.modAmount
			} else {
				original, current = m.amount-d.modAmount, m.amount
			}
			hasGrowth = true
		} else {
			if m.count.Valid {
				count, hasCount = int(m.count.Value), true
			}
			if m.modAmount.Valid {
				original, current = m.amount-m.modAmount.Value, m.amount
				hasGrowth = true
			}
		}
		if !hasCount && !hasGrowth {
			continue
		}
		r.withFields++

		var growth float64
		if hasGrowth && original > 0 {
			growth = current / original
		}
		countExceeded := hasCount && count > r.maxModificationCount
		growthExceeded := growth > r.maxGrowthRatio
		if !countExceeded && !growthExceeded {
			continue
		}

		severity := types.SeverityMedium
		threshold := float64(r.maxModificationCount)
		if growthExceeded {
			severity = types.SeverityHigh
			threshold = round1(r.maxGrowthRatio * 100)
		}

		value := float64(count)
		if g := round1(growth * 100); g > value {
			value = g
		}

		name := m.recipient
		if name == "" {
			name = m.ref
		}
		signals = append(signals, types.Signal{
			IndicatorID:    ModificationsID,
			IndicatorName:  r.Name(),
			Severity:       severity,
			EntityType:     types.EntityAward,
			EntityID:       m.ref,
			EntityName:     name,
			Value:          value,
			Threshold:      threshold,
			Context:        modificationContext(m.ref, count, original, current, growth),
			AffectedAwards: []string{m.ref},
		})
	}
	sortSignals(signals)
	return signals
}

func modificationContext(ref string, count int, original, current, growth float64) string {
	if growth > 0 {
		return fmt.Sprintf("Award %s has %d substantive modifications; value grew from %s to %s (%.1fx)",
			ref, count, dollars(original), dollars(current), growth)
	}
	return fmt.Sprintf("Award %s has %d substantive modifications", ref, count)
}

func (r *modificationsIndicator) Metadata() types.IndicatorMetadata {
	return meta(ModificationsID, r.Name(),
		"Awards modified unusually often or grown far beyond their original value.",
		"Modification count and growth ratio (current over original value) per award, from transaction detail when available (zero-dollar and administrative actions excluded), otherwise from award rollups.",
		map[string]interface{}{
			"maxModificationCount": r.maxModificationCount,
			"maxGrowthRatio":       r.maxGrowthRatio,
		},
		r.total, r.withFields)
}
