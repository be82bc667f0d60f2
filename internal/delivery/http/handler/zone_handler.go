package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/zone-recommender/internal/pkg/utils"
	"github.com/zone-recommender/internal/usecase"
	"github.com/zone-recommender/internal/usecase/dto"
)

// ZoneHandler serves read-only access to the active zone catalog.
type ZoneHandler struct {
	catalogUC *usecase.CatalogUseCase
	logger    *zap.Logger
}

// NewZoneHandler creates a ZoneHandler.
func NewZoneHandler(catalogUC *usecase.CatalogUseCase, logger *zap.Logger) *ZoneHandler {
	return &ZoneHandler{
		catalogUC: catalogUC,
		logger:    logger,
	}
}

// List godoc
// @Summary List all zones in the active catalog
// @Tags Zones
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ZoneListResponse}
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/zones [get]
func (h *ZoneHandler) List(c *fiber.Ctx) error {
	zones, _, err := h.catalogUC.GetZones(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	items := make([]dto.ZoneResponse, 0, len(zones))
	for _, z := range zones {
		items = append(items, dto.ConvertZone(z))
	}

	return utils.SendSuccess(c, dto.ZoneListResponse{
		Zones: items,
		Total: len(items),
	}, &utils.Meta{Total: len(items)})
}

// GetByID godoc
// @Summary Get one zone by ID
// @Tags Zones
// @Produce json
// @Param id path string true "Zone ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.ZoneResponse}
// @Failure 404 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/zones/{id} [get]
func (h *ZoneHandler) GetByID(c *fiber.Ctx) error {
	zone, err := h.catalogUC.GetZoneByID(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.ConvertZone(*zone), nil)
}

// Count godoc
// @Summary Count zones in the active catalog
// @Tags Zones
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.ZoneCountResponse}
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/zones/count [get]
func (h *ZoneHandler) Count(c *fiber.Ctx) error {
	zones, source, err := h.catalogUC.GetZones(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.ZoneCountResponse{
		Count:  len(zones),
		Source: string(source),
	}, nil)
}

// GeoJSON godoc
// @Summary Bundled zone dataset as GeoJSON
// @Description Returns the curated bundled dataset for map rendering. This is the static fallback tier, not necessarily the active catalog.
// @Tags Zones
// @Produce json
// @Success 200 {object} object
// @Router /api/v1/zones/geojson [get]
func (h *ZoneHandler) GeoJSON(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(usecase.StaticZonesGeoJSON())
}
