package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zone-recommender/internal/domain"
)

// RecommendationResult is the assembled output of one recommendation pass.
// ZoneIndex lets the delivery layer resolve zone details without a second
// catalog read.
type RecommendationResult struct {
	Scores      []domain.ZoneScore
	ZoneIndex   map[string]domain.Zone
	Source      domain.CatalogSource
	TimePeriod  domain.TimePeriod
	TotalZones  int
	GeneratedAt time.Time
}

func indexZones(zones []domain.Zone) map[string]domain.Zone {
	idx := make(map[string]domain.Zone, len(zones))
	for _, z := range zones {
		idx[z.ID] = z
	}
	return idx
}

// RecommendationUseCase runs the full pipeline: resolve the catalog, score
// every zone, rank, annotate risks, truncate. An empty catalog (no zones at
// any tier) is the only hard failure; an empty result after filtering is a
// valid outcome.
type RecommendationUseCase struct {
	catalog *CatalogUseCase
	scoring *ScoringUseCase
	risk    *RiskUseCase
	logger  *zap.Logger
}

// NewRecommendationUseCase creates a RecommendationUseCase.
func NewRecommendationUseCase(
	catalog *CatalogUseCase,
	scoring *ScoringUseCase,
	risk *RiskUseCase,
	logger *zap.Logger,
) *RecommendationUseCase {
	return &RecommendationUseCase{
		catalog: catalog,
		scoring: scoring,
		risk:    risk,
		logger:  logger,
	}
}

// Recommend scores and ranks the catalog for the query. A non-positive
// limit returns the full ranking.
func (uc *RecommendationUseCase) Recommend(
	ctx context.Context,
	query domain.EventQuery,
	limit int,
) (*RecommendationResult, error) {
	zones, source, err := uc.catalog.GetZones(ctx)
	if err != nil {
		return nil, err
	}

	scores, err := uc.scoring.Score(ctx, query, zones)
	if err != nil {
		return nil, err
	}

	ranked := AssembleRanking(scores, 0)
	ranked = uc.risk.Annotate(ranked, zones)
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	uc.logger.Info("Recommendation pass complete",
		zap.Int("zones_scored", len(scores)),
		zap.Int("zones_returned", len(ranked)),
		zap.String("catalog_source", string(source)),
	)

	return &RecommendationResult{
		Scores:      ranked,
		ZoneIndex:   indexZones(zones),
		Source:      source,
		TimePeriod:  query.ResolvedPeriod(),
		TotalZones:  len(scores),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Rerank re-ranks a previous recommendation under a different time period
// without re-running audience matching.
func (uc *RecommendationUseCase) Rerank(
	ctx context.Context,
	query domain.EventQuery,
	newPeriod domain.TimePeriod,
	limit int,
) (*RecommendationResult, error) {
	zones, source, err := uc.catalog.GetZones(ctx)
	if err != nil {
		return nil, err
	}

	scores, err := uc.scoring.Rerank(ctx, query, newPeriod, zones)
	if err != nil {
		return nil, err
	}

	ranked := AssembleRanking(scores, 0)
	ranked = uc.risk.Annotate(ranked, zones)
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}

	return &RecommendationResult{
		Scores:      ranked,
		ZoneIndex:   indexZones(zones),
		Source:      source,
		TimePeriod:  newPeriod,
		TotalZones:  len(scores),
		GeneratedAt: time.Now().UTC(),
	}, nil
}
