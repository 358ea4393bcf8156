package types

// FindingSource records how a finding was produced.
type FindingSource string

const (
	// SourceRule marks findings consolidated from indicator signals.
	SourceRule FindingSource = "RULE"
	// SourceAgent marks findings contributed by an investigative agent.
	SourceAgent FindingSource = "AGENT"
)

// MaterialFinding aggregates every signal one indicator raised about one
// entity, weighted by the dollars involved.
type MaterialFinding struct {
	ID               string         `json:"id"`
	EntityName       string         `json:"entityName"`
	EntityType       EntityType     `json:"entityType"`
	IndicatorID      string         `json:"indicatorId"`
	IndicatorName    string         `json:"indicatorName"`
	Severity         Severity       `json:"severity"`
	MaterialityScore float64        `json:"materialityScore"`
	TotalDollarValue float64        `json:"totalDollarValue"`
	SignalCount      int            `json:"signalCount"`
	AffectedAwardIDs []string       `json:"affectedAwardIds"`
	Signals          []Signal       `json:"signals"`
	Context          *EntityContext `json:"context,omitempty"`
	Source           FindingSource  `json:"source"`
}

// EntityContext summarizes an entity from the award set alone.
type EntityContext struct {
	// Most frequent values among the finding's affected awards.
	TopNAICSDescription string `json:"topNaicsDescription,omitempty"`
	TopSetAsideType     string `json:"topSetAsideType,omitempty"`

	// Over every award in the dataset attributed to the entity.
	TotalAwards    int    `json:"totalAwards"`
	FirstAwardDate string `json:"firstAwardDate,omitempty"`
	LastAwardDate  string `json:"lastAwardDate,omitempty"`
}

// ConvergenceEntity is an entity flagged by two or more distinct indicators.
type ConvergenceEntity struct {
	EntityName       string            `json:"entityName"`
	Indicators       []string          `json:"indicators"`
	TotalExposure    float64           `json:"totalExposure"`
	ConvergenceScore float64           `json:"convergenceScore"`
	Findings         []MaterialFinding `json:"findings"`
}
