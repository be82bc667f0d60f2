package repository

import (
	"context"

	"github.com/zone-recommender/internal/domain"
)

// ZoneRepository is the persistent store for zone records (catalog tier 2).
type ZoneRepository interface {
	// GetAll returns every stored zone.
	GetAll(ctx context.Context) ([]domain.Zone, error)

	// GetByID returns a single zone by its identifier.
	GetByID(ctx context.Context, id string) (*domain.Zone, error)

	// ReplaceAll atomically swaps the stored zone set for the given one.
	ReplaceAll(ctx context.Context, zones []domain.Zone) error

	// Count returns the number of stored zones.
	Count(ctx context.Context) (int, error)
}
