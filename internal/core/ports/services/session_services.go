package services

import (
	"context"
	"time"

	"github.com/tindahan/tindahan/internal/core/domain"
	"github.com/tindahan/tindahan/internal/dto"
)

// SessionSvcFacade manages the cached credential bundle that allows the app
// to keep working without connectivity.
type SessionSvcFacade interface {
	// ValidateOfflineAccess classifies the cached credential at the given
	// instant: Valid, NeedsRefresh, or Invalid.
	ValidateOfflineAccess(ctx context.Context, now time.Time) (domain.CredentialState, error)

	// RefreshIfNeeded attempts a token refresh when the credential is in the
	// refresh window. A definitive rejection purges the bundle; a transient
	// failure leaves it in place.
	RefreshIfNeeded(ctx context.Context, now time.Time) error

	// CacheCredential seals and stores a credential bundle after online login.
	CacheCredential(ctx context.Context, cred *domain.CachedCredential) error

	// CachedCredential returns the unsealed bundle, or ErrNotFound.
	CachedCredential(ctx context.Context) (*domain.CachedCredential, error)

	// Purge removes the cached bundle.
	Purge(ctx context.Context) error
}

// AuthSvcFacade handles login and logout against the local store, falling
// back to the cached credential bundle when the remote is unreachable.
type AuthSvcFacade interface {
	// Login verifies phone + PIN online when possible, offline otherwise,
	// and issues a local API token.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// Logout purges the session and all owner data. Shared catalog data
	// survives.
	Logout(ctx context.Context, ownerID string) error
}
