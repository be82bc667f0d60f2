package repository

import (
	"context"

	"github.com/zone-recommender/internal/domain"
)

// GeodataRepository wraps the external geodata sources used during live
// catalog generation (tier 3).
type GeodataRepository interface {
	// CandidatePoints returns raw placement candidates (meter points).
	CandidatePoints(ctx context.Context) ([]domain.CandidatePoint, error)

	// NearbyPOIs returns venues within radiusMeters of a point.
	NearbyPOIs(ctx context.Context, lat, lon float64, radiusMeters int) ([]domain.POIVenue, error)
}
