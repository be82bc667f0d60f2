package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/zone-recommender/internal/pkg/utils"
	"github.com/zone-recommender/internal/usecase"
	"github.com/zone-recommender/internal/usecase/dto"
)

// CatalogHandler exposes catalog status and refresh control.
type CatalogHandler struct {
	catalogUC *usecase.CatalogUseCase
	logger    *zap.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalogUC *usecase.CatalogUseCase, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogUC: catalogUC,
		logger:    logger,
	}
}

// Status godoc
// @Summary Zone catalog status
// @Description Reports which fallback tier is serving the catalog, how many zones it holds and whether the in-memory snapshot is still fresh.
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.CatalogStatusResponse}
// @Router /api/v1/catalog/status [get]
func (h *CatalogHandler) Status(c *fiber.Ctx) error {
	status, err := h.catalogUC.Status(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.ConvertCatalogStatus(status), nil)
}

// Refresh godoc
// @Summary Force a catalog refresh
// @Description Regenerates the catalog from live geodata sources and persists the result. A failed refresh leaves the current zone set untouched.
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.CatalogStatusResponse}
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/catalog/refresh [post]
func (h *CatalogHandler) Refresh(c *fiber.Ctx) error {
	status, err := h.catalogUC.Refresh(c.Context())
	if err != nil {
		h.logger.Warn("Manual catalog refresh failed", zap.Error(err))
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, dto.ConvertCatalogStatus(status), nil)
}
