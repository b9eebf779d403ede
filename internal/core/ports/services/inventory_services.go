package services

import (
	"context"

	"github.com/tindahan/tindahan/internal/core/domain"
	"github.com/tindahan/tindahan/internal/dto"
)

// InventorySvcFacade manages manual stock movements and their history.
type InventorySvcFacade interface {
	// RecordMovement applies a manual stock movement and persists the audit
	// record atomically with the product's new quantity.
	RecordMovement(ctx context.Context, ownerID string, req dto.MovementRequest) (*domain.InventoryMovement, error)

	// ListMovementsByProduct retrieves a product's movement history, newest first.
	ListMovementsByProduct(ctx context.Context, ownerID string, productID string) ([]domain.InventoryMovement, error)
}
