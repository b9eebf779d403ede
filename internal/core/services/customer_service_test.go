package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/core/services"
	"github.com/tindahan/tindahan/internal/dto"
)

type CustomerServiceTestSuite struct {
	suite.Suite
	mockCustomerRepo *MockCustomerRepository
	service          portssvc.CustomerSvcFacade
	ownerID          string
}

func (suite *CustomerServiceTestSuite) SetupTest() {
	suite.mockCustomerRepo = new(MockCustomerRepository)
	suite.service = services.NewCustomerService(suite.mockCustomerRepo)
	suite.ownerID = uuid.NewString()
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_Success() {
	ctx := context.Background()
	req := dto.CreateCustomerRequest{Name: "Aling Rosa", Phone: "09171234567", Address: "Purok 3"}

	suite.mockCustomerRepo.On("FindCustomerByName", ctx, suite.ownerID, "Aling Rosa").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCustomerRepo.On("FindCustomerByPhone", ctx, suite.ownerID, "09171234567").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCustomerRepo.On("SaveCustomer", ctx, mock.AnythingOfType("domain.Customer")).Return(nil).Once()

	customer, err := suite.service.CreateCustomer(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(customer)
	suite.Equal("Aling Rosa", customer.Name)
	suite.Equal("09171234567", customer.Phone)
	suite.True(customer.TotalUtang.IsZero())
	suite.True(customer.NeedsSync())
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_InvalidPhone() {
	ctx := context.Background()

	customer, err := suite.service.CreateCustomer(ctx, suite.ownerID, dto.CreateCustomerRequest{
		Name:  "Ka Pedro",
		Phone: "12345",
	})

	suite.Require().Error(err)
	suite.Nil(customer)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "SaveCustomer")
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_DuplicateNameCaseInsensitive() {
	ctx := context.Background()
	existing := &domain.Customer{Name: "Mang Tomas"}
	existing.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())

	suite.mockCustomerRepo.On("FindCustomerByName", ctx, suite.ownerID, "MANG TOMAS").Return(existing, nil).Once()

	customer, err := suite.service.CreateCustomer(ctx, suite.ownerID, dto.CreateCustomerRequest{Name: "MANG TOMAS"})

	suite.Require().Error(err)
	suite.Nil(customer)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *CustomerServiceTestSuite) TestCreateCustomer_DuplicatePhone() {
	ctx := context.Background()
	existing := &domain.Customer{Name: "Mang Tomas", Phone: "09179998877"}
	existing.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())

	suite.mockCustomerRepo.On("FindCustomerByName", ctx, suite.ownerID, "Aling Baby").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockCustomerRepo.On("FindCustomerByPhone", ctx, suite.ownerID, "09179998877").Return(existing, nil).Once()

	customer, err := suite.service.CreateCustomer(ctx, suite.ownerID, dto.CreateCustomerRequest{
		Name:  "Aling Baby",
		Phone: "09179998877",
	})

	suite.Require().Error(err)
	suite.Nil(customer)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Contains(err.Error(), "Mang Tomas")
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "SaveCustomer")
}

func (suite *CustomerServiceTestSuite) TestUpdateCustomer_KeepingOwnPhone() {
	ctx := context.Background()
	customer := &domain.Customer{Name: "Ka Berto", Phone: "09181112233"}
	customer.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())

	newAddress := "Sitio Malinis"
	phone := customer.Phone
	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customer.ID).Return(customer, nil).Once()
	suite.mockCustomerRepo.On("UpdateCustomer", ctx, mock.AnythingOfType("domain.Customer")).Return(nil).Once()

	updated, err := suite.service.UpdateCustomer(ctx, suite.ownerID, customer.ID, dto.UpdateCustomerRequest{
		Phone:   &phone,
		Address: &newAddress,
	})

	suite.Require().NoError(err)
	suite.Equal("Sitio Malinis", updated.Address)
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "FindCustomerByPhone")
}

func (suite *CustomerServiceTestSuite) TestDeleteCustomer_BlockedWithBalance() {
	ctx := context.Background()
	customer := &domain.Customer{Name: "Inday", TotalUtang: decimal.RequireFromString("75.50")}
	customer.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customer.ID).Return(customer, nil).Once()

	err := suite.service.DeleteCustomer(ctx, suite.ownerID, customer.ID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCustomerHasBalance)
	suite.Contains(err.Error(), "75.50")
	suite.mockCustomerRepo.AssertNotCalled(suite.T(), "UpdateCustomer")
}

func (suite *CustomerServiceTestSuite) TestDeleteCustomer_ZeroBalanceSoftDeletes() {
	ctx := context.Background()
	customer := &domain.Customer{Name: "Totoy", TotalUtang: decimal.Zero}
	customer.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())

	suite.mockCustomerRepo.On("FindCustomerByID", ctx, suite.ownerID, customer.ID).Return(customer, nil).Once()
	suite.mockCustomerRepo.On("UpdateCustomer", ctx, mock.AnythingOfType("domain.Customer")).Return(nil).Once()

	err := suite.service.DeleteCustomer(ctx, suite.ownerID, customer.ID)

	suite.Require().NoError(err)
	updated := suite.mockCustomerRepo.Calls[1].Arguments.Get(1).(domain.Customer)
	suite.True(updated.IsDeleted)
	suite.mockCustomerRepo.AssertExpectations(suite.T())
}

func TestCustomerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerServiceTestSuite))
}
