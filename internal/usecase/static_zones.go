package usecase

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zone-recommender/internal/domain"
)

// The bundled dataset is the catalog's last-resort tier: a curated set of
// zones that keeps recommendations available with every external dependency
// down.
//
//go:embed data/zones.geojson
var staticZonesGeoJSON []byte

type geoJSONFeature struct {
	ID       string `json:"id"`
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geometry"`
	Properties struct {
		Name             string                 `json:"name"`
		AudienceSignals  domain.AudienceSignals `json:"audience_signals"`
		TimingWindows    []domain.TimingWindow  `json:"timing_windows"`
		DwellTimeSeconds int                    `json:"dwell_time_seconds"`
		CostTier         string                 `json:"cost_tier"`
		FootTrafficDaily *int                   `json:"foot_traffic_daily"`
	} `json:"properties"`
}

type geoJSONCollection struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
}

// StaticZones parses the bundled dataset. Malformed features are rejected at
// this ingestion boundary rather than surfacing later during scoring.
func StaticZones() ([]domain.Zone, error) {
	var collection geoJSONCollection
	if err := json.Unmarshal(staticZonesGeoJSON, &collection); err != nil {
		return nil, fmt.Errorf("parse bundled zones dataset: %w", err)
	}

	zones := make([]domain.Zone, 0, len(collection.Features))
	for _, f := range collection.Features {
		if len(f.Geometry.Coordinates) != 2 {
			return nil, fmt.Errorf("zone %q: geometry must be a [lon, lat] point", f.ID)
		}

		zone := domain.Zone{
			ID:               f.ID,
			Name:             f.Properties.Name,
			Lon:              f.Geometry.Coordinates[0],
			Lat:              f.Geometry.Coordinates[1],
			AudienceSignals:  f.Properties.AudienceSignals,
			TimingWindows:    f.Properties.TimingWindows,
			DwellTimeSeconds: f.Properties.DwellTimeSeconds,
			CostTier:         domain.CostTier(f.Properties.CostTier),
			FootTrafficDaily: f.Properties.FootTrafficDaily,
			CreatedAt:        time.Now().UTC(),
		}
		if !zone.Valid() {
			return nil, fmt.Errorf("zone %q failed ingestion validation", f.ID)
		}
		zones = append(zones, zone)
	}

	if len(zones) == 0 {
		return nil, fmt.Errorf("bundled zones dataset is empty")
	}

	return zones, nil
}

// StaticZonesGeoJSON returns the raw bundled dataset for map consumers.
func StaticZonesGeoJSON() []byte {
	return staticZonesGeoJSON
}
