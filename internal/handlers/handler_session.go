package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tindahan/tindahan/internal/apperrors"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/middleware"

	"github.com/gin-gonic/gin"
)

// sessionHandler handles HTTP requests related to the offline session.
type sessionHandler struct {
	sessionService portssvc.SessionSvcFacade
}

// newSessionHandler creates a new sessionHandler.
func newSessionHandler(ss portssvc.SessionSvcFacade) *sessionHandler {
	return &sessionHandler{
		sessionService: ss,
	}
}

// registerSessionRoutes registers routes related to the offline session.
func registerSessionRoutes(rg *gin.RouterGroup, sessionService portssvc.SessionSvcFacade) {
	h := newSessionHandler(sessionService)

	session := rg.Group("/session")
	{
		session.GET("/offline-access", h.offlineAccess)
		session.POST("/refresh", h.refresh)
	}
}

// offlineAccess godoc
// @Summary Check offline access state
// @Description Classifies the cached credential bundle as valid, needs_refresh, or invalid
// @Tags session
// @Produce  json
// @Success 200 {object} map[string]string "state"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to check offline access"
// @Security BearerAuth
// @Router /session/offline-access [get]
func (h *sessionHandler) offlineAccess(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	state, err := h.sessionService.ValidateOfflineAccess(c.Request.Context(), time.Now().UTC())
	if err != nil {
		logger.Error("Failed to check offline access", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check offline access"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state.String()})
}

// refresh godoc
// @Summary Refresh the cached access token if it is due
// @Description A definitive rejection purges the bundle and returns 401; a transient failure is not an error
// @Tags session
// @Produce  json
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Refresh token rejected"
// @Failure 500 {object} map[string]string "Failed to refresh session"
// @Security BearerAuth
// @Router /session/refresh [post]
func (h *sessionHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.sessionService.RefreshIfNeeded(c.Request.Context(), time.Now().UTC()); err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Refresh token rejected")
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to refresh session", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh session"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
