package repositories

import (
	"context"
	"time"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// RemoteStore is the cloud-side counterpart of the Local Store: one remote
// table per syncable local table, upsert-by-id writes and owner-scoped reads.
// The catalog has no methods here: it must never cross this boundary.
//
// Fetch methods take an optional watermark: nil means unconditional (first
// pull / restore), otherwise only rows updated after it are returned.
// Field-name casing translation (snake_case on the wire) happens entirely
// inside implementations.
type RemoteStore interface {
	UpsertCategories(ctx context.Context, categories []domain.Category) error
	FetchCategories(ctx context.Context, ownerID string, updatedAfter *time.Time) ([]domain.Category, error)

	UpsertProducts(ctx context.Context, products []domain.Product) error
	FetchProducts(ctx context.Context, ownerID string, updatedAfter *time.Time) ([]domain.Product, error)

	UpsertCustomers(ctx context.Context, customers []domain.Customer) error
	FetchCustomers(ctx context.Context, ownerID string, updatedAfter *time.Time) ([]domain.Customer, error)

	UpsertSales(ctx context.Context, sales []domain.Sale) error
	FetchSales(ctx context.Context, ownerID string, updatedAfter *time.Time) ([]domain.Sale, error)

	UpsertMovements(ctx context.Context, movements []domain.InventoryMovement) error
	FetchMovements(ctx context.Context, ownerID string, updatedAfter *time.Time) ([]domain.InventoryMovement, error)

	UpsertUtang(ctx context.Context, txns []domain.UtangTransaction) error
	FetchUtang(ctx context.Context, ownerID string, updatedAfter *time.Time) ([]domain.UtangTransaction, error)

	// Ping reports remote reachability. Used to decide whether an
	// opportunistic credential refresh is worth attempting.
	Ping(ctx context.Context) error
}

// AuthProvider is the cloud auth endpoint: source of the credential bundle
// cached by the session layer.
type AuthProvider interface {
	// Login authenticates online and returns a fresh credential bundle.
	Login(ctx context.Context, phone, pin string) (*domain.CachedCredential, error)

	// Refresh exchanges a refresh token for a new access token. An
	// invalid/expired refresh token yields apperrors.ErrUnauthorized (the
	// caller purges the cache); transient transport failures yield other
	// errors (the caller keeps the cache).
	Refresh(ctx context.Context, refreshToken string) (accessToken string, expiry time.Time, newRefreshToken string, err error)
}
