package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tindahan/tindahan/internal/apperrors"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/dto"
	"github.com/tindahan/tindahan/internal/middleware"

	"github.com/gin-gonic/gin"
)

// catalogHandler handles HTTP requests related to the barcode reference
// catalog. Catalog data is shared across stores and never syncs.
type catalogHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

// newCatalogHandler creates a new catalogHandler.
func newCatalogHandler(cs portssvc.CatalogSvcFacade) *catalogHandler {
	return &catalogHandler{
		catalogService: cs,
	}
}

// registerCatalogRoutes registers routes related to the reference catalog.
func registerCatalogRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade) {
	h := newCatalogHandler(catalogService)

	catalog := rg.Group("/catalog")
	{
		catalog.GET("/count", h.count)
		catalog.GET("/:barcode", h.lookup)
		catalog.POST("/seed", h.seed)
		catalog.DELETE("", h.clear)
	}
}

// lookup godoc
// @Summary Look up a barcode in the reference catalog
// @Description Resolves a scanned barcode to its reference entry to prefill a new product form
// @Tags catalog
// @Produce  json
// @Param   barcode path string true "Barcode"
// @Success 200 {object} dto.CatalogEntryResponse
// @Failure 400 {object} map[string]string "Barcode is required"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Barcode not in catalog"
// @Failure 500 {object} map[string]string "Failed to look up barcode"
// @Security BearerAuth
// @Router /catalog/{barcode} [get]
func (h *catalogHandler) lookup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entry, err := h.catalogService.Lookup(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Barcode not in catalog"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to look up barcode", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up barcode"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCatalogEntryResponse(entry))
}

// seed godoc
// @Summary Bulk-load reference catalog entries
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   entries body dto.CatalogSeedRequest true "Entries to load"
// @Success 200 {object} map[string]int "seeded"
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to seed catalog"
// @Security BearerAuth
// @Router /catalog/seed [post]
func (h *catalogHandler) seed(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CatalogSeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SeedCatalog", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	count, err := h.catalogService.Seed(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error seeding catalog", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to seed catalog", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to seed catalog"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"seeded": count})
}

// count godoc
// @Summary Count reference catalog entries
// @Tags catalog
// @Produce  json
// @Success 200 {object} map[string]int "count"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to count catalog entries"
// @Security BearerAuth
// @Router /catalog/count [get]
func (h *catalogHandler) count(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	count, err := h.catalogService.Count(c.Request.Context())
	if err != nil {
		logger.Error("Failed to count catalog entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count catalog entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// clear godoc
// @Summary Remove all reference catalog entries
// @Description Local maintenance only; catalog data is re-seedable at any time
// @Tags catalog
// @Produce  json
// @Success 204 "Catalog cleared"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to clear catalog"
// @Security BearerAuth
// @Router /catalog [delete]
func (h *catalogHandler) clear(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.catalogService.Clear(c.Request.Context()); err != nil {
		logger.Error("Failed to clear catalog", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear catalog"})
		return
	}

	c.Status(http.StatusNoContent)
}
