package indicators

import (
	"github.com/layonez/bid-buster-sub000/internal/types"
	"github.com/layonez/bid-buster-sub000/internal/util"
)

// Indicator ids.
const (
	SingleBidID      = "R001"
	NonCompetitiveID = "R002"
	SplittingID      = "R003"
	ConcentrationID  = "R004"
	ModificationsID  = "R005"
	OutliersID       = "R006"
)

// Factory constructs an unconfigured indicator.
type Factory func() types.Indicator

var factories = map[string]Factory{
	SingleBidID:      NewSingleBid,
	NonCompetitiveID: NewNonCompetitive,
	SplittingID:      NewSplitting,
	ConcentrationID:  NewConcentration,
	ModificationsID:  NewModifications,
	OutliersID:       NewOutliers,
}

// IDs returns every registered indicator id in sorted order.
func IDs() []string {
	return util.SortedKeys(factories)
}

// Registered reports whether id names a built-in indicator.
func Registered(id string) bool {
	_, ok := factories[id]
	return ok
}

// New constructs the indicator registered under id.
func New(id string) (types.Indicator, bool) {
	f, ok := factories[id]
	if !ok {
		return nil, false
	}
	return f(), true
}
