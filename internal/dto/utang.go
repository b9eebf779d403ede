package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// UtangPaymentRequest defines the payload for recording a credit payment.
type UtangPaymentRequest struct {
	CustomerID string          `json:"customerId" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Notes      string          `json:"notes"`
}

// UtangChargeRequest defines the payload for a manual credit charge.
// Notes are mandatory: a manual charge without context is not auditable.
type UtangChargeRequest struct {
	CustomerID string          `json:"customerId" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Notes      string          `json:"notes" binding:"required"`
}

// UtangTransactionResponse is the API representation of a ledger entry.
type UtangTransactionResponse struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customerId"`
	SaleID       string          `json:"saleId,omitempty"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	SyncedAt     *time.Time      `json:"syncedAt,omitempty"`
}

// ToUtangTransactionResponse converts a domain ledger entry.
func ToUtangTransactionResponse(t *domain.UtangTransaction) UtangTransactionResponse {
	return UtangTransactionResponse{
		ID:           t.ID,
		CustomerID:   t.CustomerID,
		SaleID:       t.SaleID,
		Type:         string(t.Type),
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Notes:        t.Notes,
		CreatedAt:    t.CreatedAt,
		SyncedAt:     t.SyncedAt,
	}
}

// ToUtangTransactionResponses converts a slice of domain ledger entries.
func ToUtangTransactionResponses(txns []domain.UtangTransaction) []UtangTransactionResponse {
	out := make([]UtangTransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToUtangTransactionResponse(&txns[i])
	}
	return out
}
