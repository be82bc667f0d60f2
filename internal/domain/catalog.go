package domain

import "time"

// CatalogSource identifies which fallback tier served the current zone set.
type CatalogSource string

const (
	SourceMemory    CatalogSource = "memory"
	SourceStore     CatalogSource = "store"
	SourceGenerated CatalogSource = "generated"
	SourceStatic    CatalogSource = "static"
)

// CatalogStatus describes the current state of the zone catalog.
type CatalogStatus struct {
	Source      CatalogSource `json:"source"`
	ZoneCount   int           `json:"zone_count"`
	LastRefresh time.Time     `json:"last_refresh"`
	CacheValid  bool          `json:"cache_valid"`
}

// POIVenue is one venue record returned by a geodata source near a
// candidate point. Used only during live catalog generation.
type POIVenue struct {
	PlaceID string   `json:"place_id"`
	Name    string   `json:"name"`
	Types   []string `json:"types"`
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
}

// CandidatePoint is a raw placement candidate from a geodata source,
// before audience inference turns it into a Zone.
type CandidatePoint struct {
	MeterID   string  `json:"meter_id"`
	Street    string  `json:"street"`
	MetroArea string  `json:"metro_area"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Rate      string  `json:"rate"`
}
