package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zone-recommender/internal/domain"
	"github.com/zone-recommender/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	scoresKeyPrefix  = "rec:"
	catalogStatusKey = "catalog:status"
)

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// GetScores returns previously scored zones for an event hash.
func (r *cacheRepository) GetScores(ctx context.Context, eventHash string) ([]domain.ZoneScore, error) {
	data, err := r.Get(ctx, scoresKeyPrefix+eventHash)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var scores []domain.ZoneScore
	if err := json.Unmarshal(data, &scores); err != nil {
		r.logger.Error("Failed to unmarshal cached scores",
			zap.String("event_hash", eventHash), zap.Error(err))
		return nil, fmt.Errorf("unmarshal scores: %w", err)
	}

	return scores, nil
}

// SetScores caches scored zones under an event hash.
func (r *cacheRepository) SetScores(ctx context.Context, eventHash string, scores []domain.ZoneScore, ttl time.Duration) error {
	data, err := json.Marshal(scores)
	if err != nil {
		r.logger.Error("Failed to marshal scores", zap.Error(err))
		return fmt.Errorf("marshal scores: %w", err)
	}

	return r.Set(ctx, scoresKeyPrefix+eventHash, data, ttl)
}

func (r *cacheRepository) GetCatalogStatus(ctx context.Context) (*domain.CatalogStatus, error) {
	data, err := r.Get(ctx, catalogStatusKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil // Cache miss
	}

	var status domain.CatalogStatus
	if err := json.Unmarshal(data, &status); err != nil {
		r.logger.Error("Failed to unmarshal catalog status", zap.Error(err))
		return nil, fmt.Errorf("unmarshal catalog status: %w", err)
	}

	return &status, nil
}

func (r *cacheRepository) SetCatalogStatus(ctx context.Context, status *domain.CatalogStatus, ttl time.Duration) error {
	data, err := json.Marshal(status)
	if err != nil {
		r.logger.Error("Failed to marshal catalog status", zap.Error(err))
		return fmt.Errorf("marshal catalog status: %w", err)
	}

	return r.Set(ctx, catalogStatusKey, data, ttl)
}
