package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/middleware"
	"github.com/tindahan/tindahan/internal/platform/config"
	"github.com/tindahan/tindahan/internal/utils"
)

// sessionService manages the sealed credential bundle that gates offline
// access. The bundle lives encrypted in the local store; this service is
// the only code that sees it in the clear.
type sessionService struct {
	credRepo portsrepo.CredentialRepository
	auth     portsrepo.AuthProvider

	sealSecret     string
	validityWindow time.Duration
	clockSkew      time.Duration
	refreshWindow  time.Duration
}

// NewSessionService creates the offline session service.
func NewSessionService(credRepo portsrepo.CredentialRepository, auth portsrepo.AuthProvider, cfg *config.Config) portssvc.SessionSvcFacade {
	return &sessionService{
		credRepo:       credRepo,
		auth:           auth,
		sealSecret:     cfg.CredentialSealSecret,
		validityWindow: cfg.OfflineValidityWindow,
		clockSkew:      cfg.ClockSkewTolerance,
		refreshWindow:  cfg.TokenRefreshWindow,
	}
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

// ValidateOfflineAccess classifies the cached credential at the given
// instant.
//
// Invalid: no bundle, corrupt bundle, past the hard ceiling, or a device
// clock sitting before the cache time by more than the skew tolerance.
// NeedsRefresh: inside the window but the access token has expired.
// Valid: everything checks out.
func (s *sessionService) ValidateOfflineAccess(ctx context.Context, now time.Time) (domain.CredentialState, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cred, err := s.load(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.CredentialInvalid, nil
		}
		if errors.Is(err, utils.ErrSealedDataCorrupt) {
			logger.Warn("Cached credential corrupt, purging")
			_ = s.credRepo.DeleteCredentialBlob(ctx)
			return domain.CredentialInvalid, nil
		}
		return domain.CredentialInvalid, err
	}

	// A clock earlier than the cache time beyond tolerance means the clock
	// was rolled back; nothing time-based can be trusted.
	if now.Add(s.clockSkew).Before(cred.CachedAt) {
		logger.Warn("Device clock is behind the credential cache time")
		return domain.CredentialInvalid, nil
	}

	if now.After(cred.HardCeiling) {
		logger.Info("Offline validity window expired, purging credential")
		if err := s.credRepo.DeleteCredentialBlob(ctx); err != nil {
			return domain.CredentialInvalid, err
		}
		return domain.CredentialInvalid, nil
	}

	if now.After(cred.TokenExpiry) {
		return domain.CredentialNeedsRefresh, nil
	}
	return domain.CredentialValid, nil
}

// RefreshIfNeeded attempts an opportunistic token refresh when the access
// token has expired or is about to. A definitive rejection purges the
// bundle; a transient failure leaves it untouched for the next attempt.
func (s *sessionService) RefreshIfNeeded(ctx context.Context, now time.Time) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	cred, err := s.load(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, utils.ErrSealedDataCorrupt) {
			return nil
		}
		return err
	}

	if cred.TokenExpiry.Sub(now) > s.refreshWindow {
		return nil
	}

	accessToken, expiry, refreshToken, err := s.auth.Refresh(ctx, cred.RefreshToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Refresh token rejected, purging credential")
			if purgeErr := s.credRepo.DeleteCredentialBlob(ctx); purgeErr != nil {
				return purgeErr
			}
			return err
		}
		logger.Info("Refresh attempt failed, keeping cached credential", slog.String("error", err.Error()))
		return nil
	}

	cred.AccessToken = accessToken
	cred.TokenExpiry = expiry
	cred.RefreshToken = refreshToken
	if err := s.save(ctx, cred); err != nil {
		return err
	}

	logger.Info("Access token refreshed", slog.Time("expiry", expiry))
	return nil
}

// CacheCredential seals and stores a bundle after online login. The hard
// ceiling is fixed here: online login is the only thing that extends it.
func (s *sessionService) CacheCredential(ctx context.Context, cred *domain.CachedCredential) error {
	now := time.Now().UTC()
	cred.CachedAt = now
	cred.HardCeiling = now.Add(s.validityWindow)
	return s.save(ctx, cred)
}

// CachedCredential returns the unsealed bundle.
func (s *sessionService) CachedCredential(ctx context.Context) (*domain.CachedCredential, error) {
	return s.load(ctx)
}

// Purge removes the cached bundle.
func (s *sessionService) Purge(ctx context.Context) error {
	return s.credRepo.DeleteCredentialBlob(ctx)
}

func (s *sessionService) load(ctx context.Context) (*domain.CachedCredential, error) {
	_, blob, err := s.credRepo.FindCredentialBlob(ctx)
	if err != nil {
		return nil, err
	}
	return utils.UnsealCredential(blob, s.sealSecret)
}

func (s *sessionService) save(ctx context.Context, cred *domain.CachedCredential) error {
	blob, err := utils.SealCredential(cred, s.sealSecret)
	if err != nil {
		return fmt.Errorf("failed to seal credential: %w", err)
	}
	return s.credRepo.SaveCredentialBlob(ctx, cred.OwnerID, blob)
}
