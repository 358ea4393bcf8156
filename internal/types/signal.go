package types

// Severity grades a signal or finding.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Weight returns the severity weight used in materiality scoring
// (high=3, medium=2, low=1, unknown=0).
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Rank orders severities for sorting: high sorts first.
func (s Severity) Rank() int {
	return 3 - s.Weight()
}

// EntityType names what a signal is about.
type EntityType string

const (
	EntityAward     EntityType = "award"
	EntityRecipient EntityType = "recipient"
	EntityAgency    EntityType = "agency"
)

// Signal is one flagged observation from a single indicator about a single
// entity. Signals are created by Indicator.Finalize and not modified afterwards.
type Signal struct {
	IndicatorID   string     `json:"indicatorId"`
	IndicatorName string     `json:"indicatorName"`
	Severity      Severity   `json:"severity"`
	EntityType    EntityType `json:"entityType"`
	EntityID      string     `json:"entityId"`
	EntityName    string     `json:"entityName"`
	Value         float64    `json:"value"`
	Threshold     float64    `json:"threshold"`
	Context       string     `json:"context"`
	// AffectedAwards lists award ids (AwardID, falling back to InternalID).
	AffectedAwards []string `json:"affectedAwards"`
}

// Coverage counts how many folded records carried the fields an indicator needs.
type Coverage struct {
	TotalRecords              int     `json:"totalRecords"`
	RecordsWithRequiredFields int     `json:"recordsWithRequiredFields"`
	CoveragePercent           float64 `json:"coveragePercent"`
}

// NewCoverage computes the percentage, yielding 0 for an empty denominator.
func NewCoverage(total, withFields int) Coverage {
	c := Coverage{TotalRecords: total, RecordsWithRequiredFields: withFields}
	if total > 0 {
		c.CoveragePercent = float64(withFields) / float64(total) * 100
	}
	return c
}

// IndicatorMetadata describes an indicator and the data it actually saw.
type IndicatorMetadata struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Methodology string `json:"methodology"`
	// Thresholds holds the effective values after configuration.
	Thresholds   map[string]interface{} `json:"thresholds"`
	DataCoverage Coverage               `json:"dataCoverage"`
}
