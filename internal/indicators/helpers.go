package indicators

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/layonez/bid-buster-sub000/internal/types"
)

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// safeRatio returns num/den, or 0 when den is zero.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// sortSignals orders signals by descending Value. Ties fall back to entity
// name then entity id so output does not depend on map iteration order.
func sortSignals(signals []types.Signal) {
	sort.SliceStable(signals, func(i, j int) bool {
		a, b := signals[i], signals[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.EntityName != b.EntityName {
			return a.EntityName < b.EntityName
		}
		return a.EntityID < b.EntityID
	})
}

// dollars formats an amount as "$1,234,567".
func dollars(v float64) string {
	if v < 0 {
		return "-$" + humanize.Comma(int64(math.Round(-v)))
	}
	return "$" + humanize.Comma(int64(math.Round(v)))
}

// normalizeCode trims and upper-cases a classification code.
func normalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// parseDate reads the date part of an ISO-8601 date or timestamp.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// codeSet builds a lookup set of normalized codes.
func codeSet(codes []string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[normalizeCode(c)] = true
	}
	return set
}

// percent formats a 0..1 rate as "42.0%".
func percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// meta builds the metadata common to all indicators.
func meta(id, name, description, methodology string, thresholds map[string]interface{}, total, withFields int) types.IndicatorMetadata {
	return types.IndicatorMetadata{
		ID:           id,
		Name:         name,
		Description:  description,
		Methodology:  methodology,
		Thresholds:   thresholds,
		DataCoverage: types.NewCoverage(total, withFields),
	}
}
