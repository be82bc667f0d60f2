package dto

import (
	"time"

	"github.com/zone-recommender/internal/domain"
)

// RecommendationResponse is the ranked recommendation list for one event.
type RecommendationResponse struct {
	EventName       string               `json:"event_name"`
	TimePeriod      string               `json:"time_period"`
	CatalogSource   string               `json:"catalog_source"`
	Recommendations []ZoneRecommendation `json:"recommendations"`
	TotalZones      int                  `json:"total_zones"`
	GeneratedAt     time.Time            `json:"generated_at"`
}

// ZoneRecommendation is one ranked zone with its score breakdown.
type ZoneRecommendation struct {
	Rank           int                 `json:"rank"`
	ZoneID         string              `json:"zone_id"`
	ZoneName       string              `json:"zone_name"`
	Lat            float64             `json:"lat"`
	Lon            float64             `json:"lon"`
	TotalScore     float64             `json:"total_score"`
	ScoreBreakdown ScoreBreakdown      `json:"score_breakdown"`
	DistanceMiles  float64             `json:"distance_miles"`
	CostTier       string              `json:"cost_tier"`
	Reasoning      string              `json:"reasoning"`
	DataSources    []domain.DataSource `json:"data_sources"`
	RiskWarning    *domain.RiskWarning `json:"risk_warning,omitempty"`
}

// ScoreBreakdown exposes the four scoring components.
type ScoreBreakdown struct {
	AudienceMatch float64 `json:"audience_match"` // 0-40
	Temporal      float64 `json:"temporal"`       // 0-30
	Distance      float64 `json:"distance"`       // 0-20
	DwellTime     float64 `json:"dwell_time"`     // 0-10
}

// ConvertRecommendation builds a ZoneRecommendation from a ranked score and
// its zone record.
func ConvertRecommendation(score domain.ZoneScore, zone domain.Zone) ZoneRecommendation {
	return ZoneRecommendation{
		Rank:       score.Rank,
		ZoneID:     score.ZoneID,
		ZoneName:   zone.Name,
		Lat:        zone.Lat,
		Lon:        zone.Lon,
		TotalScore: score.TotalScore,
		ScoreBreakdown: ScoreBreakdown{
			AudienceMatch: score.AudienceMatchScore,
			Temporal:      score.TemporalScore,
			Distance:      score.DistanceScore,
			DwellTime:     score.DwellTimeScore,
		},
		DistanceMiles: score.DistanceMiles,
		CostTier:      string(zone.CostTier),
		Reasoning:     score.Reasoning,
		DataSources:   score.DataSources,
		RiskWarning:   score.RiskWarning,
	}
}

// ZoneResponse is one catalog zone as exposed over the API.
type ZoneResponse struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Lat              float64                `json:"lat"`
	Lon              float64                `json:"lon"`
	AudienceSignals  domain.AudienceSignals `json:"audience_signals"`
	TimingWindows    []domain.TimingWindow  `json:"timing_windows"`
	DwellTimeSeconds int                    `json:"dwell_time_seconds"`
	CostTier         string                 `json:"cost_tier"`
	FootTrafficDaily *int                   `json:"foot_traffic_daily,omitempty"`
}

// ConvertZone maps a domain zone to its API shape.
func ConvertZone(z domain.Zone) ZoneResponse {
	return ZoneResponse{
		ID:               z.ID,
		Name:             z.Name,
		Lat:              z.Lat,
		Lon:              z.Lon,
		AudienceSignals:  z.AudienceSignals,
		TimingWindows:    z.TimingWindows,
		DwellTimeSeconds: z.DwellTimeSeconds,
		CostTier:         string(z.CostTier),
		FootTrafficDaily: z.FootTrafficDaily,
	}
}

// ZoneListResponse is the catalog listing.
type ZoneListResponse struct {
	Zones []ZoneResponse `json:"zones"`
	Total int            `json:"total"`
}

// ZoneCountResponse reports the active catalog size.
type ZoneCountResponse struct {
	Count  int    `json:"count"`
	Source string `json:"source"`
}

// CatalogStatusResponse reports which tier is serving the catalog.
type CatalogStatusResponse struct {
	Source      string    `json:"source"`
	ZoneCount   int       `json:"zone_count"`
	LastRefresh time.Time `json:"last_refresh"`
	CacheValid  bool      `json:"cache_valid"`
}

// ConvertCatalogStatus maps the domain status to its API shape.
func ConvertCatalogStatus(s *domain.CatalogStatus) CatalogStatusResponse {
	return CatalogStatusResponse{
		Source:      string(s.Source),
		ZoneCount:   s.ZoneCount,
		LastRefresh: s.LastRefresh,
		CacheValid:  s.CacheValid,
	}
}
