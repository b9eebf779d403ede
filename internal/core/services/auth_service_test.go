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
	"github.com/tindahan/tindahan/internal/dto"
	"github.com/tindahan/tindahan/internal/platform/config"
	"github.com/tindahan/tindahan/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockStoreRepo   *MockStoreRepository
	mockMaintenance *MockMaintenanceRepository
	mockSession     *MockSessionService
	mockSync        *MockSyncService
	mockAuth        *MockAuthProvider
	service         portssvc.AuthSvcFacade
	ownerID         string
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockStoreRepo = new(MockStoreRepository)
	suite.mockMaintenance = new(MockMaintenanceRepository)
	suite.mockSession = new(MockSessionService)
	suite.mockSync = new(MockSyncService)
	suite.mockAuth = new(MockAuthProvider)
	cfg := &config.Config{
		JWTSecret:         "unit-test-jwt-secret",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "tindahan-test",
	}
	suite.service = services.NewAuthService(
		suite.mockStoreRepo,
		suite.mockMaintenance,
		suite.mockSession,
		suite.mockSync,
		suite.mockAuth,
		cfg,
	)
	suite.ownerID = uuid.NewString()
}

func (suite *AuthServiceTestSuite) freshBundle() *domain.CachedCredential {
	now := time.Now().UTC()
	return &domain.CachedCredential{
		OwnerID:     suite.ownerID,
		StoreName:   "Tindahan ni Aling Nena",
		AccessToken: "access",
		TokenExpiry: now.Add(time.Hour),
	}
}

func (suite *AuthServiceTestSuite) TestLogin_InvalidPhone() {
	ctx := context.Background()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Phone: "12345", PIN: "1234"})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockAuth.AssertNotCalled(suite.T(), "Login")
}

func (suite *AuthServiceTestSuite) TestLogin_OnlineFreshDeviceRestores() {
	ctx := context.Background()
	cred := suite.freshBundle()

	suite.mockAuth.On("Login", ctx, "09171234567", "1234").Return(cred, nil).Once()
	suite.mockSession.On("CacheCredential", ctx, cred).Return(nil).Once()
	suite.mockStoreRepo.On("FindStoreByID", ctx, suite.ownerID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockStoreRepo.On("SaveStore", ctx, mock.AnythingOfType("domain.Store")).Return(nil).Once()
	suite.mockSync.On("Restore", ctx, suite.ownerID).Return(&domain.SyncResult{PulledCount: 12}, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Phone: "09171234567", PIN: "1234"})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Equal(services.LoginModeOnline, resp.Mode)
	suite.Equal(suite.ownerID, resp.OwnerID)
	suite.Equal("Tindahan ni Aling Nena", resp.StoreName)
	suite.NotEmpty(resp.Token)

	saved := suite.mockStoreRepo.Calls[1].Arguments.Get(1).(domain.Store)
	suite.Equal("09171234567", saved.Phone)
	suite.True(utils.CheckPINHash("1234", saved.PINHash))

	suite.mockSync.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_OnlineKnownDeviceSkipsRestore() {
	ctx := context.Background()
	cred := suite.freshBundle()
	existing := &domain.Store{ID: suite.ownerID, Phone: "09171234567", Name: cred.StoreName}

	suite.mockAuth.On("Login", ctx, "09171234567", "1234").Return(cred, nil).Once()
	suite.mockSession.On("CacheCredential", ctx, cred).Return(nil).Once()
	suite.mockStoreRepo.On("FindStoreByID", ctx, suite.ownerID).Return(existing, nil).Once()
	suite.mockStoreRepo.On("SaveStore", ctx, mock.AnythingOfType("domain.Store")).Return(nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Phone: "09171234567", PIN: "1234"})

	suite.Require().NoError(err)
	suite.Equal(services.LoginModeOnline, resp.Mode)
	suite.mockSync.AssertNotCalled(suite.T(), "Restore")
}

func (suite *AuthServiceTestSuite) TestLogin_RejectedOnlineNeverFallsBack() {
	ctx := context.Background()

	suite.mockAuth.On("Login", ctx, "09171234567", "9999").
		Return(nil, apperrors.ErrUnauthorized).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Phone: "09171234567", PIN: "9999"})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.mockSession.AssertNotCalled(suite.T(), "ValidateOfflineAccess")
}

func (suite *AuthServiceTestSuite) TestLogin_OfflineFallback() {
	ctx := context.Background()
	pinHash, err := utils.HashPIN("1234")
	suite.Require().NoError(err)
	store := &domain.Store{ID: suite.ownerID, Phone: "09171234567", Name: "Sari-Sari Express", PINHash: pinHash}

	suite.mockAuth.On("Login", ctx, "09171234567", "1234").
		Return(nil, errors.New("dial tcp: no route to host")).Once()
	suite.mockSession.On("ValidateOfflineAccess", ctx, mock.AnythingOfType("time.Time")).
		Return(domain.CredentialValid, nil).Once()
	suite.mockSession.On("CachedCredential", ctx).Return(suite.freshBundle(), nil).Once()
	suite.mockStoreRepo.On("FindStoreByPhone", ctx, "09171234567").Return(store, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Phone: "09171234567", PIN: "1234"})

	suite.Require().NoError(err)
	suite.Equal(services.LoginModeOffline, resp.Mode)
	suite.Equal(suite.ownerID, resp.OwnerID)
	suite.Equal("Sari-Sari Express", resp.StoreName)
	suite.NotEmpty(resp.Token)
}

func (suite *AuthServiceTestSuite) TestLogin_OfflineExpiredWindow() {
	ctx := context.Background()

	suite.mockAuth.On("Login", ctx, "09171234567", "1234").
		Return(nil, errors.New("connection timed out")).Once()
	suite.mockSession.On("ValidateOfflineAccess", ctx, mock.AnythingOfType("time.Time")).
		Return(domain.CredentialInvalid, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Phone: "09171234567", PIN: "1234"})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
	suite.Contains(err.Error(), "offline access expired")
}

func (suite *AuthServiceTestSuite) TestLogin_OfflineWrongPIN() {
	ctx := context.Background()
	pinHash, err := utils.HashPIN("1234")
	suite.Require().NoError(err)
	store := &domain.Store{ID: suite.ownerID, Phone: "09171234567", PINHash: pinHash}

	suite.mockAuth.On("Login", ctx, "09171234567", "4321").
		Return(nil, errors.New("connection timed out")).Once()
	suite.mockSession.On("ValidateOfflineAccess", ctx, mock.AnythingOfType("time.Time")).
		Return(domain.CredentialValid, nil).Once()
	suite.mockSession.On("CachedCredential", ctx).Return(suite.freshBundle(), nil).Once()
	suite.mockStoreRepo.On("FindStoreByPhone", ctx, "09171234567").Return(store, nil).Once()

	resp, err := suite.service.Login(ctx, dto.LoginRequest{Phone: "09171234567", PIN: "4321"})

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogout_PurgesSessionAndOwnerData() {
	ctx := context.Background()

	suite.mockSession.On("Purge", ctx).Return(nil).Once()
	suite.mockMaintenance.On("PurgeOwnerData", ctx, suite.ownerID).Return(nil).Once()

	err := suite.service.Logout(ctx, suite.ownerID)

	suite.Require().NoError(err)
	suite.mockSession.AssertExpectations(suite.T())
	suite.mockMaintenance.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
