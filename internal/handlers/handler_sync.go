package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/middleware"

	"github.com/gin-gonic/gin"
)

// syncHandler handles HTTP requests that drive the sync engine.
type syncHandler struct {
	syncService portssvc.SyncSvcFacade
}

// newSyncHandler creates a new syncHandler.
func newSyncHandler(ss portssvc.SyncSvcFacade) *syncHandler {
	return &syncHandler{
		syncService: ss,
	}
}

// registerSyncRoutes registers routes related to sync.
func registerSyncRoutes(rg *gin.RouterGroup, syncService portssvc.SyncSvcFacade) {
	h := newSyncHandler(syncService)

	sync := rg.Group("/sync")
	{
		sync.POST("/push", h.push)
		sync.POST("/pull", h.pull)
		sync.POST("/full", h.fullSync)
		sync.POST("/restore", h.restore)
		sync.GET("/status", h.status)
	}
}

// push godoc
// @Summary Push unsynced local changes to the remote
// @Description Uploads unsynced rows including tombstones and marks them synced once the remote confirms. A no-op when a sync is already running.
// @Tags sync
// @Produce  json
// @Success 200 {object} domain.SyncResult
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Remote unreachable"
// @Security BearerAuth
// @Router /sync/push [post]
func (h *syncHandler) push(c *gin.Context) {
	h.run(c, h.syncService.Push, "push")
}

// pull godoc
// @Summary Pull remote changes newer than the local watermark
// @Tags sync
// @Produce  json
// @Success 200 {object} domain.SyncResult
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Remote unreachable"
// @Security BearerAuth
// @Router /sync/pull [post]
func (h *syncHandler) pull(c *gin.Context) {
	h.run(c, h.syncService.Pull, "pull")
}

// fullSync godoc
// @Summary Push then pull in one run
// @Tags sync
// @Produce  json
// @Success 200 {object} domain.SyncResult
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Remote unreachable"
// @Security BearerAuth
// @Router /sync/full [post]
func (h *syncHandler) fullSync(c *gin.Context) {
	h.run(c, h.syncService.FullSync, "full sync")
}

// restore godoc
// @Summary Pull everything for this owner regardless of watermark
// @Description Used to repopulate a fresh device after login
// @Tags sync
// @Produce  json
// @Success 200 {object} domain.SyncResult
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 502 {object} map[string]string "Remote unreachable"
// @Security BearerAuth
// @Router /sync/restore [post]
func (h *syncHandler) restore(c *gin.Context) {
	h.run(c, h.syncService.Restore, "restore")
}

// run executes one sync operation with shared error handling. Failed syncs
// never corrupt local data, so remote failures surface as 502 and the UI
// treats them as retryable.
func (h *syncHandler) run(c *gin.Context, op func(ctx context.Context, ownerID string) (*domain.SyncResult, error), what string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, ok := middleware.GetOwnerIDFromContext(c)
	if !ok {
		logger.Error("Owner ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := op(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrSync) {
			logger.Warn("Sync failed", slog.String("operation", what), slog.String("error", err.Error()))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		} else {
			logger.Error("Sync failed unexpectedly", slog.String("operation", what), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed"})
		}
		return
	}

	logger.Info("Sync completed",
		slog.String("operation", what),
		slog.Int("pushed", result.PushedCount),
		slog.Int("pulled", result.PulledCount),
	)
	c.JSON(http.StatusOK, result)
}

// status godoc
// @Summary Report the sync engine state
// @Description Returns the engine state, the last sync time, the last error, and whether unsynced rows remain
// @Tags sync
// @Produce  json
// @Success 200 {object} domain.SyncStatus
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to read sync status"
// @Security BearerAuth
// @Router /sync/status [get]
func (h *syncHandler) status(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ownerID, ok := middleware.GetOwnerIDFromContext(c)
	if !ok {
		logger.Error("Owner ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	status, err := h.syncService.Status(c.Request.Context(), ownerID)
	if err != nil {
		logger.Error("Failed to read sync status", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read sync status"})
		return
	}

	c.JSON(http.StatusOK, status)
}
