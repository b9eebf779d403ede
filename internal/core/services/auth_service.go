package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/dto"
	"github.com/tindahan/tindahan/internal/middleware"
	"github.com/tindahan/tindahan/internal/platform/config"
	"github.com/tindahan/tindahan/internal/utils"
)

// Login modes reported to the UI.
const (
	LoginModeOnline  = "online"
	LoginModeOffline = "offline"
)

// authService handles login and logout. Online login is preferred; when the
// cloud is unreachable it falls back to the cached credential bundle plus a
// locally verified PIN.
type authService struct {
	storeRepo   portsrepo.StoreRepository
	maintenance portsrepo.MaintenanceRepository
	session     portssvc.SessionSvcFacade
	syncSvc     portssvc.SyncSvcFacade
	auth        portsrepo.AuthProvider

	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewAuthService creates the auth service.
func NewAuthService(
	storeRepo portsrepo.StoreRepository,
	maintenance portsrepo.MaintenanceRepository,
	session portssvc.SessionSvcFacade,
	syncSvc portssvc.SyncSvcFacade,
	auth portsrepo.AuthProvider,
	cfg *config.Config,
) portssvc.AuthSvcFacade {
	return &authService{
		storeRepo:   storeRepo,
		maintenance: maintenance,
		session:     session,
		syncSvc:     syncSvc,
		auth:        auth,
		jwtSecret:   cfg.JWTSecret,
		jwtExpiry:   cfg.JWTExpiryDuration,
		jwtIssuer:   cfg.JWTIssuer,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies phone + PIN. The online path authenticates against the
// cloud, caches a fresh credential bundle, and restores data when the
// device is empty. The offline path requires a still-valid cached bundle
// and a PIN match against the local bcrypt hash.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	phone := strings.TrimSpace(req.Phone)
	if !domain.ValidPhone(phone) {
		return nil, fmt.Errorf("%w: phone must look like 09XXXXXXXXX or +639XXXXXXXXX", apperrors.ErrValidation)
	}

	cred, err := s.auth.Login(ctx, phone, req.PIN)
	switch {
	case err == nil:
		return s.completeOnlineLogin(ctx, phone, req.PIN, cred)
	case errors.Is(err, apperrors.ErrUnauthorized):
		// The cloud answered and said no. Never fall back to the cache
		// with credentials the backend just rejected.
		logger.Warn("Online login rejected")
		return nil, fmt.Errorf("%w: wrong phone or PIN", apperrors.ErrUnauthorized)
	default:
		logger.Info("Cloud unreachable, trying offline login", slog.String("error", err.Error()))
		return s.offlineLogin(ctx, phone, req.PIN)
	}
}

func (s *authService) completeOnlineLogin(ctx context.Context, phone, pin string, cred *domain.CachedCredential) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.session.CacheCredential(ctx, cred); err != nil {
		return nil, err
	}

	pinHash, err := utils.HashPIN(pin)
	if err != nil {
		return nil, fmt.Errorf("failed to hash PIN: %w", err)
	}

	now := time.Now().UTC()
	_, findErr := s.storeRepo.FindStoreByID(ctx, cred.OwnerID)
	freshDevice := errors.Is(findErr, apperrors.ErrNotFound)
	if findErr != nil && !freshDevice {
		return nil, findErr
	}

	store := domain.Store{
		ID:        cred.OwnerID,
		Phone:     phone,
		Name:      cred.StoreName,
		PINHash:   pinHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storeRepo.SaveStore(ctx, store); err != nil {
		return nil, err
	}

	if freshDevice {
		logger.Info("Fresh device, restoring data from remote", slog.String("owner_id", cred.OwnerID))
		if _, err := s.syncSvc.Restore(ctx, cred.OwnerID); err != nil {
			// Login still succeeds; data arrives on the next sync.
			logger.Warn("Restore after login failed", slog.String("error", err.Error()))
		}
	}

	token, err := utils.GenerateJWT(cred.OwnerID, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("Online login succeeded", slog.String("owner_id", cred.OwnerID))
	return &dto.LoginResponse{
		Token:     token,
		OwnerID:   cred.OwnerID,
		StoreName: cred.StoreName,
		Mode:      LoginModeOnline,
	}, nil
}

func (s *authService) offlineLogin(ctx context.Context, phone, pin string) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	state, err := s.session.ValidateOfflineAccess(ctx, now)
	if err != nil {
		return nil, err
	}
	if state == domain.CredentialInvalid {
		return nil, fmt.Errorf("%w: offline access expired, connect to the internet to log in", apperrors.ErrUnauthorized)
	}

	cred, err := s.session.CachedCredential(ctx)
	if err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindStoreByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: wrong phone or PIN", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if store.ID != cred.OwnerID || !utils.CheckPINHash(pin, store.PINHash) {
		return nil, fmt.Errorf("%w: wrong phone or PIN", apperrors.ErrUnauthorized)
	}

	token, err := utils.GenerateJWT(store.ID, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	logger.Info("Offline login succeeded",
		slog.String("owner_id", store.ID),
		slog.String("credential_state", state.String()),
	)
	return &dto.LoginResponse{
		Token:     token,
		OwnerID:   store.ID,
		StoreName: store.Name,
		Mode:      LoginModeOffline,
	}, nil
}

// Logout purges the session and every owner-scoped row. The shared barcode
// catalog survives so the next login doesn't re-seed it.
func (s *authService) Logout(ctx context.Context, ownerID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.session.Purge(ctx); err != nil {
		return err
	}
	if err := s.maintenance.PurgeOwnerData(ctx, ownerID); err != nil {
		logger.Error("Failed to purge owner data", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
		return err
	}

	logger.Info("Logout completed", slog.String("owner_id", ownerID))
	return nil
}
