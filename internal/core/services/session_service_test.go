package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/core/services"
	"github.com/tindahan/tindahan/internal/platform/config"
	"github.com/tindahan/tindahan/internal/utils"
)

const testSealSecret = "unit-test-seal-secret"

type SessionServiceTestSuite struct {
	suite.Suite
	mockCredRepo *MockCredentialRepository
	mockAuth     *MockAuthProvider
	service      portssvc.SessionSvcFacade
	ownerID      string
}

func (suite *SessionServiceTestSuite) SetupTest() {
	suite.mockCredRepo = new(MockCredentialRepository)
	suite.mockAuth = new(MockAuthProvider)
	cfg := &config.Config{
		CredentialSealSecret:  testSealSecret,
		OfflineValidityWindow: 720 * time.Hour,
		ClockSkewTolerance:    5 * time.Minute,
		TokenRefreshWindow:    10 * time.Minute,
	}
	suite.service = services.NewSessionService(suite.mockCredRepo, suite.mockAuth, cfg)
	suite.ownerID = uuid.NewString()
}

// sealedBundle builds a realistic sealed blob the way online login would.
func (suite *SessionServiceTestSuite) sealedBundle(cred *domain.CachedCredential) []byte {
	blob, err := utils.SealCredential(cred, testSealSecret)
	suite.Require().NoError(err)
	return blob
}

func (suite *SessionServiceTestSuite) TestValidate_NoCredential() {
	ctx := context.Background()
	suite.mockCredRepo.On("FindCredentialBlob", ctx).Return("", []byte(nil), apperrors.ErrNotFound).Once()

	state, err := suite.service.ValidateOfflineAccess(ctx, time.Now().UTC())

	suite.Require().NoError(err)
	suite.Equal(domain.CredentialInvalid, state)
	suite.mockCredRepo.AssertNotCalled(suite.T(), "DeleteCredentialBlob")
}

func (suite *SessionServiceTestSuite) TestValidate_CorruptBlobIsPurged() {
	ctx := context.Background()
	suite.mockCredRepo.On("FindCredentialBlob", ctx).Return(suite.ownerID, []byte("not a sealed blob"), nil).Once()
	suite.mockCredRepo.On("DeleteCredentialBlob", ctx).Return(nil).Once()

	state, err := suite.service.ValidateOfflineAccess(ctx, time.Now().UTC())

	suite.Require().NoError(err)
	suite.Equal(domain.CredentialInvalid, state)
	suite.mockCredRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestValidate_PastHardCeilingIsPurged() {
	ctx := context.Background()
	now := time.Now().UTC()
	blob := suite.sealedBundle(&domain.CachedCredential{
		OwnerID:     suite.ownerID,
		TokenExpiry: now.Add(-31 * 24 * time.Hour),
		CachedAt:    now.Add(-31 * 24 * time.Hour),
		HardCeiling: now.Add(-time.Hour),
	})
	suite.mockCredRepo.On("FindCredentialBlob", ctx).Return(suite.ownerID, blob, nil).Once()
	suite.mockCredRepo.On("DeleteCredentialBlob", ctx).Return(nil).Once()

	state, err := suite.service.ValidateOfflineAccess(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(domain.CredentialInvalid, state)
	suite.mockCredRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestValidate_ClockRollback() {
	ctx := context.Background()
	now := time.Now().UTC()
	blob := suite.sealedBundle(&domain.CachedCredential{
		OwnerID:     suite.ownerID,
		TokenExpiry: now.Add(time.Hour),
		CachedAt:    now,
		HardCeiling: now.Add(720 * time.Hour),
	})
	suite.mockCredRepo.On("FindCredentialBlob", ctx).Return(suite.ownerID, blob, nil).Once()

	// Clock sits an hour before the cache time, well past the 5m tolerance.
	state, err := suite.service.ValidateOfflineAccess(ctx, now.Add(-time.Hour))

	suite.Require().NoError(err)
	suite.Equal(domain.CredentialInvalid, state)
	suite.mockCredRepo.AssertNotCalled(suite.T(), "DeleteCredentialBlob")
}

func (suite *SessionServiceTestSuite) TestValidate_ExpiredTokenNeedsRefresh() {
	ctx := context.Background()
	now := time.Now().UTC()
	blob := suite.sealedBundle(&domain.CachedCredential{
		OwnerID:     suite.ownerID,
		TokenExpiry: now.Add(-time.Minute),
		CachedAt:    now.Add(-time.Hour),
		HardCeiling: now.Add(719 * time.Hour),
	})
	suite.mockCredRepo.On("FindCredentialBlob", ctx).Return(suite.ownerID, blob, nil).Once()

	state, err := suite.service.ValidateOfflineAccess(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(domain.CredentialNeedsRefresh, state)
}

func (suite *SessionServiceTestSuite) TestValidate_FullyValid() {
	ctx := context.Background()
	now := time.Now().UTC()
	blob := suite.sealedBundle(&domain.CachedCredential{
		OwnerID:     suite.ownerID,
		TokenExpiry: now.Add(time.Hour),
		CachedAt:    now.Add(-time.Hour),
		HardCeiling: now.Add(719 * time.Hour),
	})
	suite.mockCredRepo.On("FindCredentialBlob", ctx).Return(suite.ownerID, blob, nil).Once()

	state, err := suite.service.ValidateOfflineAccess(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(domain.CredentialValid, state)
}

func (suite *SessionServiceTestSuite) TestRefresh_OutsideWindowIsNoop() {
	ctx := context.Background()
	now := time.Now().UTC()
	blob := suite.sealedBundle(&domain.CachedCredential{
		OwnerID:     suite.ownerID,
		TokenExpiry: now.Add(2 * time.Hour),
		CachedAt:    now.Add(-time.Hour),
		HardCeiling: now.Add(719 * time.Hour),
	})
	suite.mockCredRepo.On("FindCredentialBlob", ctx).Return(suite.ownerID, blob, nil).Once()

	err := suite.service.RefreshIfNeeded(ctx, now)

	suite.Require().NoError(err)
	suite.mockAuth.AssertNotCalled(suite.T(), "Refresh")
}

func (suite *SessionServiceTestSuite) TestRefresh_RejectedTokenPurges() {
	ctx := context.Background()
	now := time.Now().UTC()
	blob := suite.sealedBundle(&domain.CachedCredential{
		OwnerID:      suite.ownerID,
		RefreshToken: "stale-refresh-token",
		TokenExpiry:  now.Add(-time.Minute),
		CachedAt:     now.Add(-time.Hour),
		HardCeiling:  now.Add(719 * time.Hour),
	})
	suite.mockCredRepo.On("FindCredentialBlob", ctx).Return(suite.ownerID, blob, nil).Once()
	suite.mockAuth.On("Refresh", ctx, "stale-refresh-token").
		Return("", time.Time{}, "", apperrors.ErrUnauthorized).Once()
	suite.mockCredRepo.On("DeleteCredentialBlob", ctx).Return(nil).Once()

	err := suite.service.RefreshIfNeeded(ctx, now)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockCredRepo.AssertExpectations(suite.T())
}

func (suite *SessionServiceTestSuite) TestRefresh_TransientFailureKeepsBundle() {
	ctx := context.Background()
	now := time.Now().UTC()
	blob := suite.sealedBundle(&domain.CachedCredential{
		OwnerID:      suite.ownerID,
		RefreshToken: "refresh-token",
		TokenExpiry:  now.Add(-time.Minute),
		CachedAt:     now.Add(-time.Hour),
		HardCeiling:  now.Add(719 * time.Hour),
	})
	suite.mockCredRepo.On("FindCredentialBlob", ctx).Return(suite.ownerID, blob, nil).Once()
	suite.mockAuth.On("Refresh", ctx, "refresh-token").
		Return("", time.Time{}, "", errors.New("connection timed out")).Once()

	err := suite.service.RefreshIfNeeded(ctx, now)

	suite.Require().NoError(err)
	suite.mockCredRepo.AssertNotCalled(suite.T(), "DeleteCredentialBlob")
	suite.mockCredRepo.AssertNotCalled(suite.T(), "SaveCredentialBlob")
}

func (suite *SessionServiceTestSuite) TestRefresh_SuccessResealsBundle() {
	ctx := context.Background()
	now := time.Now().UTC()
	newExpiry := now.Add(time.Hour).Truncate(time.Second)
	blob := suite.sealedBundle(&domain.CachedCredential{
		OwnerID:      suite.ownerID,
		RefreshToken: "old-refresh",
		AccessToken:  "old-access",
		TokenExpiry:  now.Add(-time.Minute),
		CachedAt:     now.Add(-time.Hour),
		HardCeiling:  now.Add(719 * time.Hour),
	})
	suite.mockCredRepo.On("FindCredentialBlob", ctx).Return(suite.ownerID, blob, nil).Once()
	suite.mockAuth.On("Refresh", ctx, "old-refresh").
		Return("new-access", newExpiry, "new-refresh", nil).Once()
	suite.mockCredRepo.On("SaveCredentialBlob", ctx, suite.ownerID, mock.AnythingOfType("[]uint8")).Return(nil).Once()

	err := suite.service.RefreshIfNeeded(ctx, now)

	suite.Require().NoError(err)

	saveCall := suite.mockCredRepo.Calls[1]
	resealed := saveCall.Arguments.Get(2).([]byte)
	cred, unsealErr := utils.UnsealCredential(resealed, testSealSecret)
	suite.Require().NoError(unsealErr)
	suite.Equal("new-access", cred.AccessToken)
	suite.Equal("new-refresh", cred.RefreshToken)
	suite.True(cred.TokenExpiry.Equal(newExpiry))
	suite.mockCredRepo.AssertExpectations(suite.T())
}

func TestSessionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
