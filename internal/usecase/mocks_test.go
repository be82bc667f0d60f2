package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/zone-recommender/internal/domain"
)

// MockZoneRepository is a mock of ZoneRepository
type MockZoneRepository struct {
	mock.Mock
}

func (m *MockZoneRepository) GetAll(ctx context.Context) ([]domain.Zone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Zone), args.Error(1)
}

func (m *MockZoneRepository) GetByID(ctx context.Context, id string) (*domain.Zone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Zone), args.Error(1)
}

func (m *MockZoneRepository) ReplaceAll(ctx context.Context, zones []domain.Zone) error {
	args := m.Called(ctx, zones)
	return args.Error(0)
}

func (m *MockZoneRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetScores(ctx context.Context, eventHash string) ([]domain.ZoneScore, error) {
	args := m.Called(ctx, eventHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ZoneScore), args.Error(1)
}

func (m *MockCacheRepository) SetScores(ctx context.Context, eventHash string, scores []domain.ZoneScore, ttl time.Duration) error {
	args := m.Called(ctx, eventHash, scores, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) GetCatalogStatus(ctx context.Context) (*domain.CatalogStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogStatus), args.Error(1)
}

func (m *MockCacheRepository) SetCatalogStatus(ctx context.Context, status *domain.CatalogStatus, ttl time.Duration) error {
	args := m.Called(ctx, status, ttl)
	return args.Error(0)
}

// MockGeodataRepository is a mock of GeodataRepository
type MockGeodataRepository struct {
	mock.Mock
}

func (m *MockGeodataRepository) CandidatePoints(ctx context.Context) ([]domain.CandidatePoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidatePoint), args.Error(1)
}

func (m *MockGeodataRepository) NearbyPOIs(ctx context.Context, lat, lon float64, radiusMeters int) ([]domain.POIVenue, error) {
	args := m.Called(ctx, lat, lon, radiusMeters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.POIVenue), args.Error(1)
}

// MockMatcherRepository is a mock of MatcherRepository
type MockMatcherRepository struct {
	mock.Mock
}

func (m *MockMatcherRepository) Match(ctx context.Context, queryTags, candidateTags []string) (float64, error) {
	args := m.Called(ctx, queryTags, candidateTags)
	return args.Get(0).(float64), args.Error(1)
}

func intPtr(v int) *int {
	return &v
}
