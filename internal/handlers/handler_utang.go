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

// utangHandler handles HTTP requests related to the credit ledger.
type utangHandler struct {
	utangService portssvc.UtangSvcFacade
}

// newUtangHandler creates a new utangHandler.
func newUtangHandler(us portssvc.UtangSvcFacade) *utangHandler {
	return &utangHandler{
		utangService: us,
	}
}

// registerUtangRoutes registers routes related to the credit ledger.
func registerUtangRoutes(rg *gin.RouterGroup, utangService portssvc.UtangSvcFacade) {
	h := newUtangHandler(utangService)

	utang := rg.Group("/utang")
	{
		utang.POST("/payments", h.recordPayment)
		utang.POST("/charges", h.recordCharge)
		utang.GET("/customers/:customerID", h.listTransactions)
	}
}

// recordPayment godoc
// @Summary Record a payment against a customer's balance
// @Description The payment may not exceed the outstanding balance
// @Tags utang
// @Accept  json
// @Produce  json
// @Param   payment body dto.UtangPaymentRequest true "Payment details"
// @Success 201 {object} dto.UtangTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /utang/payments [post]
func (h *utangHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UtangPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetOwnerIDFromContext(c)
	if !ok {
		logger.Error("Owner ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.utangService.RecordPayment(c.Request.Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error recording payment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		} else {
			logger.Error("Failed to record payment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		}
		return
	}

	logger.Info("Payment recorded", slog.String("transaction_id", txn.ID), slog.String("customer_id", txn.CustomerID))
	c.JSON(http.StatusCreated, dto.ToUtangTransactionResponse(txn))
}

// recordCharge godoc
// @Summary Record a manual charge against a customer
// @Description Notes are required and the amount is capped
// @Tags utang
// @Accept  json
// @Produce  json
// @Param   charge body dto.UtangChargeRequest true "Charge details"
// @Success 201 {object} dto.UtangTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to record charge"
// @Security BearerAuth
// @Router /utang/charges [post]
func (h *utangHandler) recordCharge(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UtangChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordCharge", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	ownerID, ok := middleware.GetOwnerIDFromContext(c)
	if !ok {
		logger.Error("Owner ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txn, err := h.utangService.RecordCharge(c.Request.Context(), ownerID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error recording charge", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		} else {
			logger.Error("Failed to record charge", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record charge"})
		}
		return
	}

	logger.Info("Charge recorded", slog.String("transaction_id", txn.ID), slog.String("customer_id", txn.CustomerID))
	c.JSON(http.StatusCreated, dto.ToUtangTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List a customer's credit ledger
// @Description Retrieves the customer's ledger entries, newest first
// @Tags utang
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {array} dto.UtangTransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /utang/customers/{customerID} [get]
func (h *utangHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID := c.Param("customerID")

	ownerID, ok := middleware.GetOwnerIDFromContext(c)
	if !ok {
		logger.Error("Owner ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	txns, err := h.utangService.ListTransactionsByCustomer(c.Request.Context(), ownerID, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		} else {
			logger.Error("Failed to list transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToUtangTransactionResponses(txns))
}
