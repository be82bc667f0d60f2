package domain

// Component score ceilings. The four components always sum to at most 100.
const (
	MaxAudienceScore = 40.0
	MaxTemporalScore = 30.0
	MaxDistanceScore = 20.0
	MaxDwellScore    = 10.0
)

// DataSourceStatus reports whether a data source contributed to a score.
type DataSourceStatus string

const (
	SourceDetected    DataSourceStatus = "detected"
	SourceNotDetected DataSourceStatus = "not_detected"
)

// DataSource records one input checked while scoring a zone.
type DataSource struct {
	Name        string           `json:"name"`
	Status      DataSourceStatus `json:"status"`
	Details     string           `json:"details,omitempty"`
	LastUpdated string           `json:"last_updated"`
}

// Severity grades a risk category. Warning dominates caution for display,
// ranking is unaffected either way.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityCaution Severity = "caution"
)

// Risk category types.
const (
	RiskLowDwellTime       = "low_dwell_time"
	RiskPoorAudienceMatch  = "poor_audience_match"
	RiskTimingMisalignment = "timing_misalignment"
	RiskVisualNoise        = "visual_noise"
)

// RiskCategory is one specific reason a zone was flagged.
type RiskCategory struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	DisplayName string   `json:"display_name"`
	Description string   `json:"description"`
}

// AlternativeZone points at a better-scoring, unflagged zone.
type AlternativeZone struct {
	ZoneID string `json:"zone_id"`
	Rank   int    `json:"rank"`
	Reason string `json:"reason"`
}

// RiskWarning annotates a zone whose signals suggest poor return. Advisory
// only: flags never change ranking.
type RiskWarning struct {
	IsFlagged        bool              `json:"is_flagged"`
	Categories       []RiskCategory    `json:"categories"`
	AlternativeZones []AlternativeZone `json:"alternative_zones"`
}

// DominantSeverity returns the strongest severity across categories.
func (w RiskWarning) DominantSeverity() Severity {
	for _, c := range w.Categories {
		if c.Severity == SeverityWarning {
			return SeverityWarning
		}
	}
	return SeverityCaution
}

// ZoneScore is the scored result for one zone against one query.
// TotalScore is always the sum of the four components.
type ZoneScore struct {
	ZoneID             string       `json:"zone_id"`
	AudienceMatchScore float64      `json:"audience_match_score"` // 0-40
	TemporalScore      float64      `json:"temporal_score"`       // 0-30
	DistanceScore      float64      `json:"distance_score"`       // 0-20
	DwellTimeScore     float64      `json:"dwell_time_score"`     // 0-10
	TotalScore         float64      `json:"total_score"`          // 0-100
	DistanceMiles      float64      `json:"distance_miles"`
	Rank               int          `json:"rank,omitempty"`
	Reasoning          string       `json:"reasoning"`
	DataSources        []DataSource `json:"data_sources"`
	RiskWarning        *RiskWarning `json:"risk_warning,omitempty"`
}

// Flagged reports whether the score carries an active risk warning.
func (s ZoneScore) Flagged() bool {
	return s.RiskWarning != nil && s.RiskWarning.IsFlagged
}
