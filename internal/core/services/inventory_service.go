package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/dto"
	"github.com/tindahan/tindahan/internal/middleware"
)

type inventoryService struct {
	movementRepo portsrepo.MovementRepositoryFacade
	productRepo  portsrepo.ProductReader
}

// NewInventoryService creates the inventory movement service.
func NewInventoryService(movementRepo portsrepo.MovementRepositoryFacade, productRepo portsrepo.ProductReader) portssvc.InventorySvcFacade {
	return &inventoryService{movementRepo: movementRepo, productRepo: productRepo}
}

var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// RecordMovement applies a manual stock movement. "in" and "out" are deltas;
// "adjust" sets the stock level directly. The product row and the audit row
// land in the same transaction.
func (s *inventoryService) RecordMovement(ctx context.Context, ownerID string, req dto.MovementRequest) (*domain.InventoryMovement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	movementType := domain.MovementType(req.Type)
	if !movementType.Valid() {
		return nil, fmt.Errorf("%w: unknown movement type %q", apperrors.ErrValidation, req.Type)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}

	// Friendly pre-check with the product's name; the repository re-guards
	// the out-movement inside its transaction.
	product, err := s.productRepo.FindProductByID(ctx, ownerID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if movementType == domain.MovementOut && req.Quantity > product.StockQty {
		return nil, fmt.Errorf("%w: only %d of %q in stock, cannot remove %d", apperrors.ErrConflict, product.StockQty, product.Name, req.Quantity)
	}

	now := time.Now().UTC()
	movement := domain.InventoryMovement{
		ProductID: product.ID,
		Type:      movementType,
		Quantity:  req.Quantity,
		Notes:     req.Notes,
	}
	movement.Init(uuid.NewString(), ownerID, now)

	newStock, err := s.movementRepo.ApplyMovement(ctx, movement)
	if err != nil {
		logger.Error("Failed to apply movement", slog.String("error", err.Error()), slog.String("product_id", product.ID))
		return nil, err
	}

	logger.Info("Stock movement recorded",
		slog.String("product_id", product.ID),
		slog.String("type", string(movementType)),
		slog.Int("quantity", req.Quantity),
		slog.Int("new_stock", newStock),
	)
	return &movement, nil
}

func (s *inventoryService) ListMovementsByProduct(ctx context.Context, ownerID string, productID string) ([]domain.InventoryMovement, error) {
	if _, err := s.productRepo.FindProductByID(ctx, ownerID, productID); err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.ListMovementsByProduct(ctx, ownerID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	if movements == nil {
		movements = []domain.InventoryMovement{}
	}
	return movements, nil
}
