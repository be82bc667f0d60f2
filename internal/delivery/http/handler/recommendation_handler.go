package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/zone-recommender/internal/delivery/http/middleware"
	"github.com/zone-recommender/internal/domain"
	"github.com/zone-recommender/internal/pkg/utils"
	"github.com/zone-recommender/internal/pkg/validator"
	"github.com/zone-recommender/internal/usecase"
	"github.com/zone-recommender/internal/usecase/dto"
)

// RecommendationHandler serves the scoring and ranking endpoints.
type RecommendationHandler struct {
	recommendUC *usecase.RecommendationUseCase
	logger      *zap.Logger
}

// NewRecommendationHandler creates a RecommendationHandler.
func NewRecommendationHandler(recommendUC *usecase.RecommendationUseCase, logger *zap.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommendUC: recommendUC,
		logger:      logger,
	}
}

// Score godoc
// @Summary Score and rank zones for an event
// @Description Scores every zone in the active catalog against the event's audience, timing, location and dwell characteristics and returns the full ranking. The X-Access-Tier header caps the number of results (free: 3, premium: 10, internal: uncapped).
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param X-Access-Tier header string false "Access tier (free, premium, internal)" default(free)
// @Param request body dto.ScoreRequest true "Event description"
// @Success 200 {object} utils.SuccessResponse{data=dto.RecommendationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/recommendations/score [post]
func (h *RecommendationHandler) Score(c *fiber.Ctx) error {
	var req dto.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	limit := middleware.TierLimit(c, req.Limit)
	start := time.Now()

	result, err := h.recommendUC.Recommend(c.Context(), req.ToEventQuery(), limit)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp := h.buildResponse(req.Name, result)
	return utils.SendSuccess(c, resp, &utils.Meta{
		Total:    result.TotalZones,
		Limit:    limit,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

// Top godoc
// @Summary Top zone recommendations for an event
// @Description Same pipeline as /recommendations/score but returns only the top N zones, default 3 (or fewer if the access tier caps lower).
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param X-Access-Tier header string false "Access tier (free, premium, internal)" default(free)
// @Param limit query int false "Number of zones to return" default(3)
// @Param request body dto.ScoreRequest true "Event description"
// @Success 200 {object} utils.SuccessResponse{data=dto.RecommendationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/recommendations/top [post]
func (h *RecommendationHandler) Top(c *fiber.Ctx) error {
	var req dto.ScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.Limit = c.QueryInt("limit", 3)
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	limit := middleware.TierLimit(c, req.Limit)

	result, err := h.recommendUC.Recommend(c.Context(), req.ToEventQuery(), limit)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp := h.buildResponse(req.Name, result)
	return utils.SendSuccess(c, resp, &utils.Meta{
		Total: result.TotalZones,
		Limit: limit,
	})
}

// Rerank godoc
// @Summary Re-rank a previous recommendation for a new time period
// @Description Recomputes only the temporal component of an already-scored event for a different time of day. No semantic matching calls are made; audience, distance and dwell scores are reused from the original pass.
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param X-Access-Tier header string false "Access tier (free, premium, internal)" default(free)
// @Param request body dto.RerankRequest true "Original event plus the new time period"
// @Success 200 {object} utils.SuccessResponse{data=dto.RecommendationResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/recommendations/rerank [post]
func (h *RecommendationHandler) Rerank(c *fiber.Ctx) error {
	var req dto.RerankRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	limit := middleware.TierLimit(c, req.Limit)

	result, err := h.recommendUC.Rerank(
		c.Context(),
		req.ToEventQuery(),
		domain.TimePeriod(req.TimePeriod),
		limit,
	)
	if err != nil {
		return utils.SendError(c, err)
	}

	resp := h.buildResponse(req.Name, result)
	return utils.SendSuccess(c, resp, &utils.Meta{
		Total: result.TotalZones,
		Limit: limit,
	})
}

func (h *RecommendationHandler) buildResponse(eventName string, result *usecase.RecommendationResult) dto.RecommendationResponse {
	recs := make([]dto.ZoneRecommendation, 0, len(result.Scores))
	for _, s := range result.Scores {
		zone, ok := result.ZoneIndex[s.ZoneID]
		if !ok {
			h.logger.Warn("Scored zone missing from catalog index", zap.String("zone_id", s.ZoneID))
			continue
		}
		recs = append(recs, dto.ConvertRecommendation(s, zone))
	}

	return dto.RecommendationResponse{
		EventName:       eventName,
		TimePeriod:      string(result.TimePeriod),
		CatalogSource:   string(result.Source),
		Recommendations: recs,
		TotalZones:      result.TotalZones,
		GeneratedAt:     result.GeneratedAt,
	}
}
