package usecase

import (
	"fmt"

	"github.com/zone-recommender/internal/config"
	"github.com/zone-recommender/internal/domain"
)

// RiskUseCase flags ranked zones whose measured signals suggest a poor
// return despite a decent total score. It is purely advisory: flags never
// move a zone in the ranking. Only zones with sustained measured foot
// traffic are eligible, so sparse-data zones are not punished for missing
// measurements.
type RiskUseCase struct {
	cfg *config.Config
}

// NewRiskUseCase creates a RiskUseCase.
func NewRiskUseCase(cfg *config.Config) *RiskUseCase {
	return &RiskUseCase{cfg: cfg}
}

// Annotate evaluates every ranked score and returns a copy with risk
// warnings attached. Input must already carry ranks; alternative
// suggestions point at higher-ranked, unflagged zones.
func (uc *RiskUseCase) Annotate(scores []domain.ZoneScore, zones []domain.Zone) []domain.ZoneScore {
	byID := make(map[string]domain.Zone, len(zones))
	for _, z := range zones {
		byID[z.ID] = z
	}

	annotated := make([]domain.ZoneScore, len(scores))
	copy(annotated, scores)

	// Categories first, alternatives second: a zone only counts as an
	// alternative once it is known to be unflagged itself.
	for i := range annotated {
		zone, ok := byID[annotated[i].ZoneID]
		if !ok {
			continue
		}
		if cats := uc.categorize(zone, annotated[i]); len(cats) > 0 {
			annotated[i].RiskWarning = &domain.RiskWarning{
				IsFlagged:  true,
				Categories: cats,
			}
		}
	}

	for i := range annotated {
		if !annotated[i].Flagged() {
			continue
		}
		annotated[i].RiskWarning.AlternativeZones = uc.alternatives(annotated, i)
	}
	return annotated
}

// categorize returns every risk category the zone triggers. All checks are
// gated on known high foot traffic: a busy zone where the message still
// will not land is the pattern worth warning about.
func (uc *RiskUseCase) categorize(zone domain.Zone, score domain.ZoneScore) []domain.RiskCategory {
	if zone.FootTrafficDaily == nil || *zone.FootTrafficDaily <= uc.cfg.Risk.HighTrafficDaily {
		return nil
	}

	var cats []domain.RiskCategory

	if zone.DwellTimeSeconds < uc.cfg.Risk.MinDwellSeconds {
		cats = append(cats, domain.RiskCategory{
			Type:        domain.RiskLowDwellTime,
			Severity:    domain.SeverityCaution,
			DisplayName: "Low dwell time",
			Description: fmt.Sprintf(
				"High traffic but people pause only ~%ds, likely too short to read the message",
				zone.DwellTimeSeconds,
			),
		})
	}

	if score.AudienceMatchScore < uc.cfg.Risk.MinAudienceScore {
		cats = append(cats, domain.RiskCategory{
			Type:        domain.RiskPoorAudienceMatch,
			Severity:    domain.SeverityWarning,
			DisplayName: "Poor audience match",
			Description: "Heavy foot traffic, but few of the people passing match the target audience",
		})
	}

	if score.TemporalScore < uc.cfg.Risk.MinTemporalScore {
		cats = append(cats, domain.RiskCategory{
			Type:        domain.RiskTimingMisalignment,
			Severity:    domain.SeverityCaution,
			DisplayName: "Timing misalignment",
			Description: "The zone's busy windows do not line up with the event's time period",
		})
	}

	if len(zone.AudienceSignals.All()) < 2 {
		cats = append(cats, domain.RiskCategory{
			Type:        domain.RiskVisualNoise,
			Severity:    domain.SeverityCaution,
			DisplayName: "Visual noise",
			Description: "Crowded, undifferentiated location where individual messages compete for attention",
		})
	}

	return cats
}

// alternatives suggests up to the configured number of unflagged zones that
// outrank the flagged one.
func (uc *RiskUseCase) alternatives(ranked []domain.ZoneScore, flaggedIdx int) []domain.AlternativeZone {
	max := uc.cfg.Risk.MaxAlternatives
	var alts []domain.AlternativeZone

	for i := 0; i < flaggedIdx && len(alts) < max; i++ {
		if ranked[i].Flagged() {
			continue
		}
		if ranked[i].TotalScore <= ranked[flaggedIdx].TotalScore {
			continue
		}
		alts = append(alts, domain.AlternativeZone{
			ZoneID: ranked[i].ZoneID,
			Rank:   ranked[i].Rank,
			Reason: alternativeReason(ranked[i], ranked[flaggedIdx]),
		})
	}
	return alts
}

// alternativeReason names the component where the candidate most outperforms
// the flagged zone. With no component advantage the candidate still wins on
// total score, so that becomes the reason.
func alternativeReason(candidate, flagged domain.ZoneScore) string {
	reason := ""
	best := 0.0

	for _, c := range []struct {
		delta float64
		text  string
	}{
		{candidate.AudienceMatchScore - flagged.AudienceMatchScore, "Higher audience match"},
		{candidate.TemporalScore - flagged.TemporalScore, "Better timing alignment"},
		{candidate.DistanceScore - flagged.DistanceScore, "Closer to venue"},
		{candidate.DwellTimeScore - flagged.DwellTimeScore, "Longer dwell time"},
	} {
		if c.delta > best {
			best = c.delta
			reason = c.text
		}
	}

	if reason == "" {
		return fmt.Sprintf("Higher overall score (%.1f vs %.1f)", candidate.TotalScore, flagged.TotalScore)
	}
	return reason
}
