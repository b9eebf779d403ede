package repositories

import (
	"context"
	"time"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// ProductReader defines read operations for product data.
type ProductReader interface {
	// FindProductByID retrieves a non-deleted product scoped to the owner.
	FindProductByID(ctx context.Context, ownerID, productID string) (*domain.Product, error)

	// FindProductByBarcode retrieves a non-deleted product by barcode within
	// the owner's scope.
	FindProductByBarcode(ctx context.Context, ownerID, barcode string) (*domain.Product, error)

	// ListProducts returns the owner's non-deleted products, optionally
	// filtered by category, ordered by name.
	ListProducts(ctx context.Context, ownerID, categoryID string) ([]domain.Product, error)

	// ListLowStockProducts returns non-deleted products at or below their
	// low-stock threshold.
	ListLowStockProducts(ctx context.Context, ownerID string) ([]domain.Product, error)
}

// ProductWriter defines write operations for product data. Stock mutations
// go through the sale and movement repositories so they stay atomic with
// their audit rows.
type ProductWriter interface {
	// SaveProduct persists a new product.
	SaveProduct(ctx context.Context, product domain.Product) error

	// UpdateProduct updates an existing product (including soft delete).
	UpdateProduct(ctx context.Context, product domain.Product) error
}

// ProductSyncSupport defines the sync engine's access to product rows.
type ProductSyncSupport interface {
	ListUnsyncedProducts(ctx context.Context, ownerID string) ([]domain.Product, error)
	MarkProductsSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error
	UpsertProducts(ctx context.Context, products []domain.Product) error
	HasUnsyncedProducts(ctx context.Context, ownerID string) (bool, error)
}

// ProductRepositoryFacade combines all product repository interfaces.
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
	ProductSyncSupport
}
