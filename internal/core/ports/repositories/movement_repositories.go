package repositories

import (
	"context"
	"time"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// MovementReader defines read operations for the inventory audit log.
type MovementReader interface {
	// ListMovementsByProduct returns the product's movements, newest first.
	ListMovementsByProduct(ctx context.Context, ownerID, productID string) ([]domain.InventoryMovement, error)
}

// MovementWriter defines write operations for inventory movements.
type MovementWriter interface {
	// ApplyMovement adjusts the product's stock and appends the movement
	// record in one transaction. "in" adds the quantity, "out" subtracts it
	// behind a non-negative guard, "adjust" sets the absolute count. Returns
	// the stock level after the movement.
	ApplyMovement(ctx context.Context, movement domain.InventoryMovement) (int, error)
}

// MovementSyncSupport defines the sync engine's access to movement rows.
type MovementSyncSupport interface {
	ListUnsyncedMovements(ctx context.Context, ownerID string) ([]domain.InventoryMovement, error)
	MarkMovementsSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error
	UpsertMovements(ctx context.Context, movements []domain.InventoryMovement) error
	HasUnsyncedMovements(ctx context.Context, ownerID string) (bool, error)
}

// MovementRepositoryFacade combines all movement repository interfaces.
type MovementRepositoryFacade interface {
	MovementReader
	MovementWriter
	MovementSyncSupport
}
