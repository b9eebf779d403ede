package repositories

import (
	"context"
	"time"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// StoreRepository persists the local store/account record. It is local-only
// state created at login; it is not part of the syncable table set.
type StoreRepository interface {
	SaveStore(ctx context.Context, store domain.Store) error
	FindStoreByID(ctx context.Context, storeID string) (*domain.Store, error)
	FindStoreByPhone(ctx context.Context, phone string) (*domain.Store, error)
}

// CredentialRepository persists the encrypted cached-credential blob. At
// most one bundle exists at a time (the last owner to log in online).
type CredentialRepository interface {
	// SaveCredentialBlob stores the sealed bundle for the owner, replacing
	// any previous bundle.
	SaveCredentialBlob(ctx context.Context, ownerID string, blob []byte) error

	// FindCredentialBlob returns the current sealed bundle,
	// apperrors.ErrNotFound when no bundle is cached.
	FindCredentialBlob(ctx context.Context) (ownerID string, blob []byte, err error)

	// DeleteCredentialBlob purges the cache (hard-ceiling expiry, invalid
	// refresh token, logout).
	DeleteCredentialBlob(ctx context.Context) error
}

// MaintenanceRepository covers whole-store housekeeping.
type MaintenanceRepository interface {
	// PurgeOwnerData hard-deletes every owner-scoped row for the owner in
	// one transaction: categories, products, customers, sales, movements,
	// utang transactions, store record, cached credential. The product
	// catalog is deliberately left untouched.
	PurgeOwnerData(ctx context.Context, ownerID string) error

	// LastSyncedAt returns the newest synced_at across all owner-scoped
	// tables, nil when nothing has ever synced. The sync engine uses it as
	// the incremental-pull watermark after a restart.
	LastSyncedAt(ctx context.Context, ownerID string) (*time.Time, error)
}
