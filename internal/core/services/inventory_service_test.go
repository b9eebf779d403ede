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

type InventoryServiceTestSuite struct {
	suite.Suite
	mockMovementRepo *MockMovementRepository
	mockProductRepo  *MockProductRepository
	service          portssvc.InventorySvcFacade
	ownerID          string
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.mockMovementRepo = new(MockMovementRepository)
	suite.mockProductRepo = new(MockProductRepository)
	suite.service = services.NewInventoryService(suite.mockMovementRepo, suite.mockProductRepo)
	suite.ownerID = uuid.NewString()
}

func (suite *InventoryServiceTestSuite) newProduct(stock int) *domain.Product {
	p := &domain.Product{
		Name:         "Detergent Bar",
		SellingPrice: decimal.RequireFromString("15.00"),
		StockQty:     stock,
	}
	p.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())
	return p
}

func (suite *InventoryServiceTestSuite) TestRecordMovement_InAddsToStock() {
	ctx := context.Background()
	product := suite.newProduct(4)

	suite.mockProductRepo.On("FindProductByID", ctx, suite.ownerID, product.ID).Return(product, nil).Once()
	suite.mockMovementRepo.On("ApplyMovement", ctx, mock.AnythingOfType("domain.InventoryMovement")).Return(14, nil).Once()

	movement, err := suite.service.RecordMovement(ctx, suite.ownerID, dto.MovementRequest{
		ProductID: product.ID,
		Type:      "in",
		Quantity:  10,
		Notes:     "delivery from supplier",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.MovementIn, movement.Type)
	suite.Equal(10, movement.Quantity)
	suite.True(movement.NeedsSync())

	applied := suite.mockMovementRepo.Calls[0].Arguments.Get(1).(domain.InventoryMovement)
	suite.Equal(product.ID, applied.ProductID)
	suite.Equal(10, applied.Quantity)

	suite.mockMovementRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestRecordMovement_OutCannotGoNegative() {
	ctx := context.Background()
	product := suite.newProduct(2)

	suite.mockProductRepo.On("FindProductByID", ctx, suite.ownerID, product.ID).Return(product, nil).Once()

	movement, err := suite.service.RecordMovement(ctx, suite.ownerID, dto.MovementRequest{
		ProductID: product.ID,
		Type:      "out",
		Quantity:  3,
	})

	suite.Require().Error(err)
	suite.Nil(movement)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "only 2")
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "ApplyMovement")
}

func (suite *InventoryServiceTestSuite) TestRecordMovement_AdjustIsAbsolute() {
	ctx := context.Background()
	product := suite.newProduct(50)

	suite.mockProductRepo.On("FindProductByID", ctx, suite.ownerID, product.ID).Return(product, nil).Once()
	suite.mockMovementRepo.On("ApplyMovement", ctx, mock.AnythingOfType("domain.InventoryMovement")).Return(7, nil).Once()

	movement, err := suite.service.RecordMovement(ctx, suite.ownerID, dto.MovementRequest{
		ProductID: product.ID,
		Type:      "adjust",
		Quantity:  7,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.MovementAdjust, movement.Type)
	applied := suite.mockMovementRepo.Calls[0].Arguments.Get(1).(domain.InventoryMovement)
	suite.Equal(7, applied.Quantity)
}

func (suite *InventoryServiceTestSuite) TestRecordMovement_UnknownType() {
	ctx := context.Background()

	movement, err := suite.service.RecordMovement(ctx, suite.ownerID, dto.MovementRequest{
		ProductID: uuid.NewString(),
		Type:      "transfer",
		Quantity:  1,
	})

	suite.Require().Error(err)
	suite.Nil(movement)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "FindProductByID")
}

func (suite *InventoryServiceTestSuite) TestListMovements_ProductMustExist() {
	ctx := context.Background()
	productID := uuid.NewString()

	suite.mockProductRepo.On("FindProductByID", ctx, suite.ownerID, productID).Return(nil, apperrors.ErrNotFound).Once()

	movements, err := suite.service.ListMovementsByProduct(ctx, suite.ownerID, productID)

	suite.Require().Error(err)
	suite.Nil(movements)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "ListMovementsByProduct")
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}
