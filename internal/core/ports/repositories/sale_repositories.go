package repositories

import (
	"context"
	"time"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// StockDelta is a per-product stock decrement applied inside a checkout
// transaction.
type StockDelta struct {
	ProductID string
	Qty       int
}

// SaleReader defines read operations for sale data.
type SaleReader interface {
	// FindSaleByID retrieves a non-deleted sale scoped to the owner.
	FindSaleByID(ctx context.Context, ownerID, saleID string) (*domain.Sale, error)

	// ListSales returns the owner's non-deleted sales within [from, to),
	// newest first. Zero times mean unbounded.
	ListSales(ctx context.Context, ownerID string, from, to time.Time) ([]domain.Sale, error)
}

// SaleWriter defines write operations for sale data.
type SaleWriter interface {
	// SaveSale runs the whole checkout as one local transaction: insert the
	// sale, apply guarded stock decrements, append the out-movements, and
	// apply the optional utang charge. Any failure rolls back everything.
	// The guard re-checks stock inside the transaction and fails the whole
	// checkout if a decrement would go negative. When credit is non-nil the
	// customer balance is read and advanced inside the same transaction and
	// credit.BalanceAfter is filled in from it.
	SaveSale(ctx context.Context, sale domain.Sale, deltas []StockDelta, movements []domain.InventoryMovement, credit *domain.UtangTransaction) error
}

// SaleSyncSupport defines the sync engine's access to sale rows.
type SaleSyncSupport interface {
	ListUnsyncedSales(ctx context.Context, ownerID string) ([]domain.Sale, error)
	MarkSalesSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error
	UpsertSales(ctx context.Context, sales []domain.Sale) error
	HasUnsyncedSales(ctx context.Context, ownerID string) (bool, error)
}

// SaleRepositoryFacade combines all sale repository interfaces.
type SaleRepositoryFacade interface {
	SaleReader
	SaleWriter
	SaleSyncSupport
}
