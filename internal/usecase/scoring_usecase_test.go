package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zone-recommender/internal/config"
	"github.com/zone-recommender/internal/domain"
	"github.com/zone-recommender/internal/infrastructure/matcher"
	apperrors "github.com/zone-recommender/internal/pkg/errors"
	"github.com/zone-recommender/internal/usecase"
)

func scoringTestConfig() *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			ResultCacheTTL: time.Hour,
		},
		Scoring: config.ScoringConfig{
			BatchSize:      5,
			BatchPause:     time.Millisecond,
			MatchTimeout:   100 * time.Millisecond,
			MaxRadiusMiles: 5.0,
			DwellCeilingS:  60,
			RetryAttempts:  2,
			RetryBackoff:   time.Millisecond,
		},
	}
}

// testZone sits right at the venue with an exact evening window on Monday.
func testZone(id string) domain.Zone {
	return domain.Zone{
		ID:   id,
		Name: "Test Plaza",
		Lat:  38.88,
		Lon:  -77.10,
		AudienceSignals: domain.AudienceSignals{
			Demographics: []string{"young-professionals"},
			Interests:    []string{"coffee"},
			Behaviors:    []string{"commuters"},
		},
		TimingWindows: []domain.TimingWindow{
			{Days: []string{"Monday"}, Hours: "17:00-19:00", Reasoning: "evening commute"},
		},
		DwellTimeSeconds: 60,
		CostTier:         domain.CostTierLow,
		CreatedAt:        time.Now().UTC(),
	}
}

// 2026-01-05 is a Monday.
func testQuery() domain.EventQuery {
	return domain.EventQuery{
		Name:           "Jazz Night",
		Date:           "2026-01-05",
		Time:           "18:00",
		VenueLat:       38.88,
		VenueLon:       -77.10,
		TargetAudience: []string{"young-professionals", "coffee"},
		EventType:      "concert",
	}
}

func newScoringUC(matcherRepo *MockMatcherRepository, cacheRepo *MockCacheRepository) *usecase.ScoringUseCase {
	return usecase.NewScoringUseCase(matcherRepo, cacheRepo, scoringTestConfig(), zap.NewNop())
}

func TestScoringUseCase_Score(t *testing.T) {
	ctx := context.Background()

	t.Run("component scores and total for a perfect zone", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		mockCache.On("GetScores", ctx, mock.Anything).Return(nil, nil)
		mockCache.On("SetScores", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockMatcher.On("Match", mock.Anything, mock.Anything, mock.Anything).Return(1.0, nil)

		scores, err := uc.Score(ctx, testQuery(), []domain.Zone{testZone("a")})
		require.NoError(t, err)
		require.Len(t, scores, 1)

		s := scores[0]
		assert.Equal(t, 40.0, s.AudienceMatchScore) // match strength 1.0
		assert.Equal(t, 30.0, s.TemporalScore)      // window matches period and day
		assert.Equal(t, 20.0, s.DistanceScore)      // at the venue
		assert.Equal(t, 10.0, s.DwellTimeScore)     // dwell at ceiling
		assert.Equal(t, 100.0, s.TotalScore)
		assert.NotEmpty(t, s.Reasoning)
	})

	t.Run("total equals the sum of components", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		mockCache.On("GetScores", ctx, mock.Anything).Return(nil, nil)
		mockCache.On("SetScores", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockMatcher.On("Match", mock.Anything, mock.Anything, mock.Anything).Return(0.42, nil)

		zone := testZone("a")
		zone.Lat = 38.91 // a couple of miles out
		zone.DwellTimeSeconds = 33

		scores, err := uc.Score(ctx, testQuery(), []domain.Zone{zone})
		require.NoError(t, err)
		require.Len(t, scores, 1)

		s := scores[0]
		assert.InDelta(t,
			s.AudienceMatchScore+s.TemporalScore+s.DistanceScore+s.DwellTimeScore,
			s.TotalScore, 0.05)
	})

	t.Run("distance score decreases with distance", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		mockCache.On("GetScores", ctx, mock.Anything).Return(nil, nil)
		mockCache.On("SetScores", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockMatcher.On("Match", mock.Anything, mock.Anything, mock.Anything).Return(0.5, nil)

		near := testZone("near")
		mid := testZone("mid")
		mid.Lat = 38.90
		far := testZone("far")
		far.Lat = 38.93

		scores, err := uc.Score(ctx, testQuery(), []domain.Zone{near, mid, far})
		require.NoError(t, err)
		require.Len(t, scores, 3)

		byID := map[string]domain.ZoneScore{}
		for _, s := range scores {
			byID[s.ZoneID] = s
		}
		assert.Greater(t, byID["near"].DistanceScore, byID["mid"].DistanceScore)
		assert.Greater(t, byID["mid"].DistanceScore, byID["far"].DistanceScore)
	})

	t.Run("matcher failure falls back to keyword heuristic", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		mockCache.On("GetScores", ctx, mock.Anything).Return(nil, nil)
		mockCache.On("SetScores", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockMatcher.On("Match", mock.Anything, mock.Anything, mock.Anything).
			Return(0.0, errors.New("connection refused"))

		scores, err := uc.Score(ctx, testQuery(), []domain.Zone{testZone("a")})
		require.NoError(t, err)
		require.Len(t, scores, 1)

		// Both target tags have a keyword overlap in the zone's signals.
		assert.Equal(t, 40.0, scores[0].AudienceMatchScore)

		var matcherSrc *domain.DataSource
		for i := range scores[0].DataSources {
			if scores[0].DataSources[i].Name == "semantic_matcher" {
				matcherSrc = &scores[0].DataSources[i]
			}
		}
		require.NotNil(t, matcherSrc)
		assert.Equal(t, domain.SourceNotDetected, matcherSrc.Status)
	})

	t.Run("rate limited call is retried once then degrades", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		mockCache.On("GetScores", ctx, mock.Anything).Return(nil, nil)
		mockCache.On("SetScores", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockMatcher.On("Match", mock.Anything, mock.Anything, mock.Anything).
			Return(0.0, matcher.ErrRateLimited)

		scores, err := uc.Score(ctx, testQuery(), []domain.Zone{testZone("a")})
		require.NoError(t, err)
		require.Len(t, scores, 1)

		// One original attempt plus one retry.
		mockMatcher.AssertNumberOfCalls(t, "Match", 2)
		assert.Equal(t, 40.0, scores[0].AudienceMatchScore) // heuristic
	})

	t.Run("identical query is served from the result cache", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		cached := []domain.ZoneScore{
			{
				ZoneID:             "a",
				AudienceMatchScore: 22.0,
				TemporalScore:      30.0, // scored for evening, same as the query
				DistanceScore:      16.0,
				DwellTimeScore:     9.0,
				TotalScore:         77.0,
			},
		}
		mockCache.On("GetScores", ctx, mock.Anything).Return(cached, nil)

		scores, err := uc.Score(ctx, testQuery(), []domain.Zone{testZone("a")})
		require.NoError(t, err)
		require.Len(t, scores, 1)
		assert.Equal(t, 22.0, scores[0].AudienceMatchScore)
		assert.Equal(t, 30.0, scores[0].TemporalScore)
		assert.Equal(t, 77.0, scores[0].TotalScore)
		mockMatcher.AssertNotCalled(t, "Match")
	})

	t.Run("cached result is re-aligned when the requested period differs", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		// The hash ignores the time period, so an earlier evening pass is
		// found for a morning request against an evening-only zone.
		cached := []domain.ZoneScore{
			{
				ZoneID:             "a",
				AudienceMatchScore: 38.0,
				TemporalScore:      30.0, // scored for evening
				DistanceScore:      18.0,
				DwellTimeScore:     9.0,
				TotalScore:         95.0,
			},
		}
		mockCache.On("GetScores", ctx, mock.Anything).Return(cached, nil)

		query := testQuery()
		query.TimePeriod = domain.PeriodMorning

		scores, err := uc.Score(ctx, query, []domain.Zone{testZone("a")})
		require.NoError(t, err)
		require.Len(t, scores, 1)

		s := scores[0]
		assert.Less(t, s.TemporalScore, 30.0)
		assert.Equal(t, 38.0, s.AudienceMatchScore)
		assert.InDelta(t, 38.0+s.TemporalScore+18.0+9.0, s.TotalScore, 0.05)
		mockMatcher.AssertNotCalled(t, "Match")
	})

	t.Run("zone without timing windows gets a neutral temporal score", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		mockCache.On("GetScores", ctx, mock.Anything).Return(nil, nil)
		mockCache.On("SetScores", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockMatcher.On("Match", mock.Anything, mock.Anything, mock.Anything).Return(0.5, nil)

		zone := testZone("a")
		zone.TimingWindows = nil

		scores, err := uc.Score(ctx, testQuery(), []domain.Zone{zone})
		require.NoError(t, err)
		assert.Equal(t, 15.0, scores[0].TemporalScore)
	})

	t.Run("invalid coordinates are rejected", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		query := testQuery()
		query.VenueLat = 91.0

		_, err := uc.Score(ctx, query, []domain.Zone{testZone("a")})
		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, "INVALID_QUERY", appErr.Code)
	})

	t.Run("empty target audience is rejected", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		query := testQuery()
		query.TargetAudience = nil

		_, err := uc.Score(ctx, query, []domain.Zone{testZone("a")})
		require.Error(t, err)
	})
}

func TestScoringUseCase_Rerank(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes temporal only, without matcher calls", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		previous := []domain.ZoneScore{
			{
				ZoneID:             "a",
				AudienceMatchScore: 32.0,
				TemporalScore:      30.0, // scored for evening
				DistanceScore:      18.0,
				DwellTimeScore:     9.0,
				TotalScore:         89.0,
				DistanceMiles:      0.3,
			},
		}
		mockCache.On("GetScores", ctx, mock.Anything).Return(previous, nil)

		scores, err := uc.Rerank(ctx, testQuery(), domain.PeriodMorning, []domain.Zone{testZone("a")})
		require.NoError(t, err)
		require.Len(t, scores, 1)

		s := scores[0]
		// The evening-only window no longer matches morning.
		assert.Less(t, s.TemporalScore, 30.0)
		assert.Equal(t, 32.0, s.AudienceMatchScore)
		assert.Equal(t, 18.0, s.DistanceScore)
		assert.Equal(t, 9.0, s.DwellTimeScore)
		assert.InDelta(t, 32.0+s.TemporalScore+18.0+9.0, s.TotalScore, 0.05)
		mockMatcher.AssertNotCalled(t, "Match")
	})

	t.Run("rerank to the same period reproduces the original temporal score", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		previous := []domain.ZoneScore{
			{
				ZoneID:             "a",
				AudienceMatchScore: 32.0,
				TemporalScore:      30.0,
				DistanceScore:      18.0,
				DwellTimeScore:     9.0,
				TotalScore:         89.0,
			},
		}
		mockCache.On("GetScores", ctx, mock.Anything).Return(previous, nil)

		scores, err := uc.Rerank(ctx, testQuery(), domain.PeriodEvening, []domain.Zone{testZone("a")})
		require.NoError(t, err)
		require.Len(t, scores, 1)
		assert.Equal(t, 30.0, scores[0].TemporalScore)
		assert.Equal(t, 89.0, scores[0].TotalScore)
	})

	t.Run("missing previous result falls back to a full scoring pass", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		mockCache.On("GetScores", ctx, mock.Anything).Return(nil, nil)
		mockCache.On("SetScores", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mockMatcher.On("Match", mock.Anything, mock.Anything, mock.Anything).Return(0.5, nil)

		scores, err := uc.Rerank(ctx, testQuery(), domain.PeriodMorning, []domain.Zone{testZone("a")})
		require.NoError(t, err)
		require.Len(t, scores, 1)
		mockMatcher.AssertCalled(t, "Match", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid time period is rejected", func(t *testing.T) {
		mockMatcher := &MockMatcherRepository{}
		mockCache := &MockCacheRepository{}
		uc := newScoringUC(mockMatcher, mockCache)

		_, err := uc.Rerank(ctx, testQuery(), domain.TimePeriod("midnight"), []domain.Zone{testZone("a")})
		require.Error(t, err)
	})
}
