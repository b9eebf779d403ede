package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// UtangReader defines read operations for the credit ledger.
type UtangReader interface {
	// ListUtangByCustomer returns the customer's ledger entries, newest
	// first.
	ListUtangByCustomer(ctx context.Context, ownerID, customerID string) ([]domain.UtangTransaction, error)
}

// UtangWriter defines write operations for the credit ledger.
type UtangWriter interface {
	// SaveUtangTransaction appends the ledger entry and advances the
	// customer's running balance in one transaction, reading the current
	// balance inside it. A payment larger than that balance fails with a
	// conflict. Returns the balance after the entry.
	SaveUtangTransaction(ctx context.Context, txn domain.UtangTransaction) (decimal.Decimal, error)
}

// UtangSyncSupport defines the sync engine's access to ledger rows.
type UtangSyncSupport interface {
	ListUnsyncedUtang(ctx context.Context, ownerID string) ([]domain.UtangTransaction, error)
	MarkUtangSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error
	UpsertUtang(ctx context.Context, txns []domain.UtangTransaction) error
	HasUnsyncedUtang(ctx context.Context, ownerID string) (bool, error)
}

// UtangRepositoryFacade combines all credit-ledger repository interfaces.
type UtangRepositoryFacade interface {
	UtangReader
	UtangWriter
	UtangSyncSupport
}
