package domain

import "time"

// CostTier is the expected placement cost bracket for a zone.
type CostTier string

const (
	CostTierFree   CostTier = "free"
	CostTierLow    CostTier = "low"
	CostTierMedium CostTier = "medium"
	CostTierHigh   CostTier = "high"
)

// AudienceSignals describes who frequents a zone, as tag sets.
type AudienceSignals struct {
	Demographics []string `json:"demographics"`
	Interests    []string `json:"interests"`
	Behaviors    []string `json:"behaviors"`
}

// All returns every signal across the three tag sets.
func (s AudienceSignals) All() []string {
	all := make([]string, 0, len(s.Demographics)+len(s.Interests)+len(s.Behaviors))
	all = append(all, s.Demographics...)
	all = append(all, s.Interests...)
	all = append(all, s.Behaviors...)
	return all
}

// TimingWindow is one optimal exposure window for a zone.
type TimingWindow struct {
	Days      []string `json:"days"`
	Hours     string   `json:"hours"` // "17:00-19:00"
	Reasoning string   `json:"reasoning"`
}

// Zone is a candidate physical location for placing a promotional item.
// A zone is immutable once loaded; scoring never mutates it.
type Zone struct {
	ID               string          `json:"id" db:"id"`
	Name             string          `json:"name" db:"name"`
	Lat              float64         `json:"lat" db:"lat"`
	Lon              float64         `json:"lon" db:"lon"`
	AudienceSignals  AudienceSignals `json:"audience_signals" db:"audience_signals"`
	TimingWindows    []TimingWindow  `json:"timing_windows" db:"timing_windows"`
	DwellTimeSeconds int             `json:"dwell_time_seconds" db:"dwell_time_seconds"`
	CostTier         CostTier        `json:"cost_tier" db:"cost_tier"`
	FootTrafficDaily *int            `json:"foot_traffic_daily,omitempty" db:"foot_traffic_daily"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}

// Valid rejects malformed zone records at the ingestion boundary.
func (z *Zone) Valid() bool {
	if z.ID == "" || z.Name == "" {
		return false
	}
	if z.Lat < -90 || z.Lat > 90 || z.Lon < -180 || z.Lon > 180 {
		return false
	}
	if z.DwellTimeSeconds < 0 {
		return false
	}
	if z.FootTrafficDaily != nil && *z.FootTrafficDaily < 0 {
		return false
	}
	switch z.CostTier {
	case CostTierFree, CostTierLow, CostTierMedium, CostTierHigh:
	default:
		return false
	}
	return true
}
