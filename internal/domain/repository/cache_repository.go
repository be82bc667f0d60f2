package repository

import (
	"context"
	"time"

	"github.com/zone-recommender/internal/domain"
)

// CacheRepository is the shared cache for scored results and catalog status.
type CacheRepository interface {
	// Get returns the cached value for key, or nil on a miss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value under key with a TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// GetScores returns cached zone scores for an event hash, or nil on a miss.
	GetScores(ctx context.Context, eventHash string) ([]domain.ZoneScore, error)

	// SetScores caches zone scores under an event hash.
	SetScores(ctx context.Context, eventHash string, scores []domain.ZoneScore, ttl time.Duration) error

	// GetCatalogStatus returns the cached catalog status, or nil on a miss.
	GetCatalogStatus(ctx context.Context) (*domain.CatalogStatus, error)

	// SetCatalogStatus caches the catalog status.
	SetCatalogStatus(ctx context.Context, status *domain.CatalogStatus, ttl time.Duration) error
}
