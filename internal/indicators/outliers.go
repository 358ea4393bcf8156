package indicators

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/layonez/bid-buster-sub000/internal/config"
	"github.com/layonez/bid-buster-sub000/internal/types"
	"github.com/layonez/bid-buster-sub000/internal/util"
)

// Fencing methods.
const (
	MethodIQR    = "iqr"
	MethodZScore = "zscore"
)

type peerAward struct {
	ref       string
	recipient string
	amount    float64
}

type peerGroup struct {
	label  string
	awards []peerAward
}

type outliersIndicator struct {
	method          string
	iqrMultiplier   float64
	zscoreThreshold float64
	minGroupSize    int

	groups     map[string]*peerGroup
	total      int
	withFields int
}

// NewOutliers returns the R006 price outlier indicator.
func NewOutliers() types.Indicator {
	return &outliersIndicator{
		method:          MethodIQR,
		iqrMultiplier:   1.5,
		zscoreThreshold: 2.0,
		minGroupSize:    5,
		groups:          make(map[string]*peerGroup),
	}
}

func (r *outliersIndicator) ID() string   { return OutliersID }
func (r *outliersIndicator) Name() string { return "Price Outliers" }

func (r *outliersIndicator) Configure(s config.IndicatorSettings) {
	switch m := strings.ToLower(s.String("method", r.method)); m {
	case MethodIQR, MethodZScore:
		r.method = m
	}
	r.iqrMultiplier = s.PositiveFloat("iqrMultiplier", r.iqrMultiplier)
	r.zscoreThreshold = s.PositiveFloat("zscoreThreshold", r.zscoreThreshold)
	r.minGroupSize = s.PositiveInt("minGroupSize", r.minGroupSize)
}

func (r *outliersIndicator) Fold(a *types.NormalizedAward) {
	r.total++
	if a.AwardAmount <= 0 {
		return
	}

	var key, label string
	if code := normalizeCode(a.NAICSCode); code != "" {
		key, label = "NAICS:"+code, "NAICS "+code
	} else if code := normalizeCode(a.PSCCode); code != "" {
		key, label = "PSC:"+code, "PSC "+code
	} else {
		return
	}
	r.withFields++

	g, ok := r.groups[key]
	if !ok {
		g = &peerGroup{label: label}
		r.groups[key] = g
	}
	g.awards = append(g.awards, peerAward{
		ref:       a.Ref(),
		recipient: strings.TrimSpace(a.RecipientName),
		amount:    a.AwardAmount,
	})
}

func (r *outliersIndicator) Finalize() []types.Signal {
	var signals []types.Signal
	for _, key := range util.SortedKeys(r.groups) {
		g := r.groups[key]
		n := len(g.awards)
		if n < r.minGroupSize {
			continue
		}

		amounts := make([]float64, n)
		for i, p := range g.awards {
			amounts[i] = p.amount
		}
		mean := meanOf(amounts)
		if mean <= 0 {
			continue
		}
		fence, ok := r.upperFence(amounts, mean)
		if !ok {
			continue
		}

		for _, p := range g.awards {
			if p.amount <= fence {
				continue
			}
			multiplier := round1(p.amount / mean)

			severity := types.SeverityLow
			switch {
			case multiplier >= 5:
				severity = types.SeverityHigh
			case multiplier >= 2:
				severity = types.SeverityMedium
			}

			name := p.recipient
			if name == "" {
				name = p.ref
			}
			signals = append(signals, types.Signal{
				IndicatorID:   OutliersID,
				IndicatorName: r.Name(),
				Severity:      severity,
				EntityType:    types.EntityAward,
				EntityID:      p.ref,
				EntityName:    name,
				Value:         multiplier,
				Threshold:     math.Round(fence),
				Context: fmt.Sprintf("Award %s at %s is %.1fx the %s peer mean of %s (%s fence %s, %d peers)",
					p.ref, dollars(p.amount), multiplier, g.label, dollars(mean), r.method, dollars(fence), n),
				AffectedAwards: []string{p.ref},
			})
		}
	}
	sortSignals(signals)
	return signals
}

// upperFence computes the outlier boundary for a peer group. Returns false
// when the group has no spread to measure against.
func (r *outliersIndicator) upperFence(amounts []float64, mean float64) (float64, bool) {
	if r.method == MethodZScore {
		sd := stddevOf(amounts, mean)
		if sd == 0 {
			return 0, false
		}
		return mean + r.zscoreThreshold*sd, true
	}
	sorted := append([]float64(nil), amounts...)
	sort.Float64s(sorted)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	return q3 + r.iqrMultiplier*(q3-q1), true
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddevOf is the population standard deviation.
func stddevOf(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// quantile returns the p-quantile of sorted data using linear interpolation
// between closest ranks.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func (r *outliersIndicator) Metadata() types.IndicatorMetadata {
	return meta(OutliersID, r.Name(),
		"Awards priced far above comparable awards.",
		"Awards are grouped by NAICS code (falling back to PSC). Groups with at least the minimum size get an upper fence, Q3 + k*IQR or mean + z*stddev; awards above it are flagged with their multiple of the group mean.",
		map[string]interface{}{
			"method":          r.method,
			"iqrMultiplier":   r.iqrMultiplier,
			"zscoreThreshold": r.zscoreThreshold,
			"minGroupSize":    r.minGroupSize,
		},
		r.total, r.withFields)
}
