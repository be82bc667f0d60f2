package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zone-recommender/internal/config"
	"github.com/zone-recommender/internal/domain"
	"github.com/zone-recommender/internal/usecase"
)

func riskTestConfig() *config.Config {
	return &config.Config{
		Risk: config.RiskConfig{
			HighTrafficDaily: 1000,
			MinDwellSeconds:  20,
			MinAudienceScore: 24.0,
			MinTemporalScore: 15.0,
			MaxAlternatives:  3,
		},
	}
}

func riskZone(id string, traffic *int, dwell int, signals []string) domain.Zone {
	return domain.Zone{
		ID:   id,
		Name: id,
		Lat:  38.88,
		Lon:  -77.10,
		AudienceSignals: domain.AudienceSignals{
			Interests: signals,
		},
		DwellTimeSeconds: dwell,
		CostTier:         domain.CostTierLow,
		FootTrafficDaily: traffic,
		CreatedAt:        time.Now().UTC(),
	}
}

func TestRiskUseCase_Annotate(t *testing.T) {
	uc := usecase.NewRiskUseCase(riskTestConfig())

	t.Run("busy transit zone with poor fit is flagged", func(t *testing.T) {
		// High traffic, short dwell, weak audience match and timing: the
		// classic crowded-station trap.
		zones := []domain.Zone{
			riskZone("station", intPtr(12000), 15, []string{"transit", "commuting"}),
		}
		scores := []domain.ZoneScore{
			{ZoneID: "station", AudienceMatchScore: 10.0, TemporalScore: 5.0, TotalScore: 55.0, Rank: 1},
		}

		annotated := uc.Annotate(scores, zones)
		require.Len(t, annotated, 1)
		require.True(t, annotated[0].Flagged())

		types := map[string]domain.Severity{}
		for _, c := range annotated[0].RiskWarning.Categories {
			types[c.Type] = c.Severity
		}
		assert.Contains(t, types, domain.RiskLowDwellTime)
		assert.Contains(t, types, domain.RiskPoorAudienceMatch)
		assert.Contains(t, types, domain.RiskTimingMisalignment)
		assert.Equal(t, domain.SeverityWarning, types[domain.RiskPoorAudienceMatch])
		assert.Equal(t, domain.SeverityWarning, annotated[0].RiskWarning.DominantSeverity())
	})

	t.Run("quiet zone with identical weaknesses is not flagged", func(t *testing.T) {
		// Same weak signals but no measured high traffic: nothing to warn
		// about, low scores already say it all.
		zones := []domain.Zone{
			riskZone("corner", intPtr(400), 15, []string{"transit"}),
		}
		scores := []domain.ZoneScore{
			{ZoneID: "corner", AudienceMatchScore: 10.0, TemporalScore: 5.0, TotalScore: 35.0, Rank: 1},
		}

		annotated := uc.Annotate(scores, zones)
		assert.False(t, annotated[0].Flagged())
	})

	t.Run("zone with unknown traffic is never flagged", func(t *testing.T) {
		zones := []domain.Zone{
			riskZone("unknown", nil, 5, nil),
		}
		scores := []domain.ZoneScore{
			{ZoneID: "unknown", AudienceMatchScore: 2.0, TemporalScore: 5.0, TotalScore: 20.0, Rank: 1},
		}

		annotated := uc.Annotate(scores, zones)
		assert.False(t, annotated[0].Flagged())
	})

	t.Run("healthy busy zone is not flagged", func(t *testing.T) {
		zones := []domain.Zone{
			riskZone("plaza", intPtr(5000), 60, []string{"coffee", "social", "dining"}),
		}
		scores := []domain.ZoneScore{
			{ZoneID: "plaza", AudienceMatchScore: 35.0, TemporalScore: 30.0, TotalScore: 95.0, Rank: 1},
		}

		annotated := uc.Annotate(scores, zones)
		assert.False(t, annotated[0].Flagged())
	})

	t.Run("visual noise for a busy zone with thin signals", func(t *testing.T) {
		zones := []domain.Zone{
			riskZone("billboard-alley", intPtr(9000), 60, []string{"transit"}),
		}
		scores := []domain.ZoneScore{
			{ZoneID: "billboard-alley", AudienceMatchScore: 30.0, TemporalScore: 30.0, TotalScore: 90.0, Rank: 1},
		}

		annotated := uc.Annotate(scores, zones)
		require.True(t, annotated[0].Flagged())
		assert.Equal(t, domain.RiskVisualNoise, annotated[0].RiskWarning.Categories[0].Type)
	})

	t.Run("alternatives point at unflagged higher-ranked zones", func(t *testing.T) {
		zones := []domain.Zone{
			riskZone("good-1", intPtr(500), 60, []string{"coffee", "social"}),
			riskZone("good-2", intPtr(500), 60, []string{"coffee", "social"}),
			riskZone("trap", intPtr(12000), 10, []string{"transit", "commuting"}),
		}
		scores := []domain.ZoneScore{
			{ZoneID: "good-1", AudienceMatchScore: 35.0, TemporalScore: 30.0, TotalScore: 92.0, Rank: 1},
			{ZoneID: "good-2", AudienceMatchScore: 33.0, TemporalScore: 28.0, TotalScore: 88.0, Rank: 2},
			{ZoneID: "trap", AudienceMatchScore: 8.0, TemporalScore: 5.0, TotalScore: 60.0, Rank: 3},
		}

		annotated := uc.Annotate(scores, zones)
		require.True(t, annotated[2].Flagged())

		alts := annotated[2].RiskWarning.AlternativeZones
		require.Len(t, alts, 2)
		assert.Equal(t, "good-1", alts[0].ZoneID)
		assert.Equal(t, 1, alts[0].Rank)
		assert.Equal(t, "good-2", alts[1].ZoneID)
		assert.Equal(t, 2, alts[1].Rank)
	})

	t.Run("alternative reason names the most favorable component", func(t *testing.T) {
		zones := []domain.Zone{
			riskZone("match", intPtr(500), 60, []string{"coffee", "social"}),
			riskZone("nearby", intPtr(500), 60, []string{"coffee", "social"}),
			riskZone("trap", intPtr(12000), 10, []string{"transit", "commuting"}),
		}
		scores := []domain.ZoneScore{
			// Outranks the trap mainly on audience match (38 vs 8).
			{ZoneID: "match", AudienceMatchScore: 38.0, TemporalScore: 25.0, DistanceScore: 18.0, DwellTimeScore: 9.0, TotalScore: 90.0, Rank: 1},
			// Outranks the trap mainly on distance (20 vs 4).
			{ZoneID: "nearby", AudienceMatchScore: 12.0, TemporalScore: 25.0, DistanceScore: 20.0, DwellTimeScore: 9.0, TotalScore: 66.0, Rank: 2},
			{ZoneID: "trap", AudienceMatchScore: 8.0, TemporalScore: 24.0, DistanceScore: 4.0, DwellTimeScore: 2.0, TotalScore: 38.0, Rank: 3},
		}

		annotated := uc.Annotate(scores, zones)
		require.True(t, annotated[2].Flagged())

		alts := annotated[2].RiskWarning.AlternativeZones
		require.Len(t, alts, 2)
		assert.Contains(t, alts[0].Reason, "audience match")
		assert.Contains(t, alts[1].Reason, "Closer to venue")
	})

	t.Run("alternative reason falls back to the total score", func(t *testing.T) {
		zones := []domain.Zone{
			riskZone("even", intPtr(500), 60, []string{"coffee", "social"}),
			riskZone("trap", intPtr(12000), 10, []string{"transit", "commuting"}),
		}
		// Identical components, higher total: only the overall score can
		// justify the suggestion.
		scores := []domain.ZoneScore{
			{ZoneID: "even", AudienceMatchScore: 20.0, TemporalScore: 15.0, DistanceScore: 10.0, DwellTimeScore: 5.0, TotalScore: 50.5, Rank: 1},
			{ZoneID: "trap", AudienceMatchScore: 20.0, TemporalScore: 15.0, DistanceScore: 10.0, DwellTimeScore: 5.0, TotalScore: 50.0, Rank: 2},
		}

		annotated := uc.Annotate(scores, zones)
		require.True(t, annotated[1].Flagged())

		alts := annotated[1].RiskWarning.AlternativeZones
		require.Len(t, alts, 1)
		assert.Contains(t, alts[0].Reason, "overall score")
	})

	t.Run("flagged zones are not suggested as alternatives", func(t *testing.T) {
		zones := []domain.Zone{
			riskZone("trap-1", intPtr(12000), 10, []string{"transit", "commuting"}),
			riskZone("good", intPtr(500), 60, []string{"coffee", "social"}),
			riskZone("trap-2", intPtr(11000), 10, []string{"transit", "commuting"}),
		}
		scores := []domain.ZoneScore{
			{ZoneID: "trap-1", AudienceMatchScore: 8.0, TemporalScore: 5.0, TotalScore: 90.0, Rank: 1},
			{ZoneID: "good", AudienceMatchScore: 35.0, TemporalScore: 30.0, TotalScore: 85.0, Rank: 2},
			{ZoneID: "trap-2", AudienceMatchScore: 8.0, TemporalScore: 5.0, TotalScore: 60.0, Rank: 3},
		}

		annotated := uc.Annotate(scores, zones)
		require.True(t, annotated[2].Flagged())

		alts := annotated[2].RiskWarning.AlternativeZones
		require.Len(t, alts, 1)
		assert.Equal(t, "good", alts[0].ZoneID)
	})

	t.Run("flags never change ranking order", func(t *testing.T) {
		zones := []domain.Zone{
			riskZone("trap", intPtr(12000), 10, []string{"transit", "commuting"}),
			riskZone("good", intPtr(500), 60, []string{"coffee", "social"}),
		}
		scores := []domain.ZoneScore{
			{ZoneID: "trap", AudienceMatchScore: 8.0, TemporalScore: 5.0, TotalScore: 90.0, Rank: 1},
			{ZoneID: "good", AudienceMatchScore: 35.0, TemporalScore: 30.0, TotalScore: 85.0, Rank: 2},
		}

		annotated := uc.Annotate(scores, zones)
		assert.Equal(t, "trap", annotated[0].ZoneID)
		assert.Equal(t, 1, annotated[0].Rank)
		assert.Equal(t, 90.0, annotated[0].TotalScore)
	})
}
