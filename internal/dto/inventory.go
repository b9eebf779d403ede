package dto

import (
	"time"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// MovementRequest defines the payload for a manual inventory movement.
//
// Type semantics: "in" adds Quantity to stock, "out" subtracts it, and
// "adjust" sets the stock to Quantity directly (absolute, not a delta).
type MovementRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Notes     string `json:"notes"`
}

// MovementResponse is the API representation of an inventory movement.
type MovementResponse struct {
	ID        string     `json:"id"`
	ProductID string     `json:"productId"`
	SaleID    string     `json:"saleId,omitempty"`
	Type      string     `json:"type"`
	Quantity  int        `json:"quantity"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	SyncedAt  *time.Time `json:"syncedAt,omitempty"`
}

// ToMovementResponse converts a domain movement to its API representation.
func ToMovementResponse(m *domain.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		SaleID:    m.SaleID,
		Type:      string(m.Type),
		Quantity:  m.Quantity,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		SyncedAt:  m.SyncedAt,
	}
}

// ToMovementResponses converts a slice of domain movements.
func ToMovementResponses(movements []domain.InventoryMovement) []MovementResponse {
	out := make([]MovementResponse, len(movements))
	for i := range movements {
		out[i] = ToMovementResponse(&movements[i])
	}
	return out
}
