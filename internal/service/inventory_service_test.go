package service_test

import (
	"context"
	"testing"

	"partspos/internal/model"
	"partspos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type InventoryServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	productRepo  *MockProductRepository
	movementRepo *MockStockMovementRepository
	notifier     *recordingNotifier
	service      service.InventoryService
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.productRepo = new(MockProductRepository)
	suite.movementRepo = new(MockStockMovementRepository)
	suite.notifier = &recordingNotifier{}
	suite.service = service.NewInventoryService(fakeTxManager{}, suite.productRepo, suite.movementRepo, suite.notifier)
}

func (suite *InventoryServiceTestSuite) assertAllExpectations() {
	suite.productRepo.AssertExpectations(suite.T())
	suite.movementRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestCreateRecordsOpeningStock() {
	userID := uuid.New()

	suite.productRepo.On("FindBySKU", suite.ctx, "BP-1001").Return(nil, gorm.ErrRecordNotFound).Once()
	suite.productRepo.On("Create", suite.ctx, mock.AnythingOfType("*model.Product")).Return(nil).Once()

	var movement *model.StockMovement
	suite.movementRepo.On("Create", suite.ctx, mock.AnythingOfType("*model.StockMovement")).
		Run(func(args mock.Arguments) {
			movement = args.Get(1).(*model.StockMovement)
		}).Return(nil).Once()

	product, err := suite.service.Create(suite.ctx, service.ProductRequest{
		SKU:           "BP-1001",
		Name:          "Brake pad",
		StockQuantity: 12,
		CostPrice:     dec("60"),
		SellingPrice:  dec("95"),
	}, userID)

	suite.Require().NoError(err)
	suite.Equal(12, product.StockQuantity)
	suite.Equal(5, product.MinStockLevel, "defaults when not given")
	suite.True(product.IsActive)

	suite.Require().NotNil(movement)
	suite.Equal(model.MovementManualAdjustment, movement.ReferenceType)
	suite.Equal(0, movement.QuantityBefore)
	suite.Equal(12, movement.QuantityAfter)
	suite.assertAllExpectations()
}

func (suite *InventoryServiceTestSuite) TestCreateZeroStockSkipsMovement() {
	suite.productRepo.On("FindBySKU", suite.ctx, "OF-2002").Return(nil, gorm.ErrRecordNotFound).Once()
	suite.productRepo.On("Create", suite.ctx, mock.AnythingOfType("*model.Product")).Return(nil).Once()

	_, err := suite.service.Create(suite.ctx, service.ProductRequest{
		SKU:  "OF-2002",
		Name: "Oil filter",
	}, uuid.New())

	suite.Require().NoError(err)
	suite.assertAllExpectations()
}

func (suite *InventoryServiceTestSuite) TestCreateRejectsDuplicateSKU() {
	suite.productRepo.On("FindBySKU", suite.ctx, "BP-1001").
		Return(&model.Product{ID: uuid.New(), SKU: "BP-1001"}, nil).Once()

	_, err := suite.service.Create(suite.ctx, service.ProductRequest{
		SKU:  "BP-1001",
		Name: "Brake pad",
	}, uuid.New())

	suite.Require().ErrorIs(err, service.ErrSKUTaken)
	suite.assertAllExpectations()
}

func (suite *InventoryServiceTestSuite) TestUpdateLogsStockCorrection() {
	productID := uuid.New()
	userID := uuid.New()
	product := &model.Product{
		ID:            productID,
		SKU:           "BP-1001",
		Name:          "Brake pad",
		StockQuantity: 10,
		MinStockLevel: 5,
	}

	suite.productRepo.On("FindByIDForUpdate", suite.ctx, productID).Return(product, nil).Once()

	var movement *model.StockMovement
	suite.movementRepo.On("Create", suite.ctx, mock.AnythingOfType("*model.StockMovement")).
		Run(func(args mock.Arguments) {
			movement = args.Get(1).(*model.StockMovement)
		}).Return(nil).Once()
	suite.productRepo.On("Update", suite.ctx, product).Return(nil).Once()

	updated, err := suite.service.Update(suite.ctx, productID, service.ProductRequest{
		SKU:           "BP-1001",
		Name:          "Brake pad",
		StockQuantity: 7,
	}, userID)

	suite.Require().NoError(err)
	suite.Equal(7, updated.StockQuantity)

	suite.Require().NotNil(movement)
	suite.Equal(-3, movement.QuantityChange)
	suite.Equal(10, movement.QuantityBefore)
	suite.Equal(7, movement.QuantityAfter)

	suite.Len(suite.notifier.products, 1, "stock corrections notify")
	suite.assertAllExpectations()
}

func (suite *InventoryServiceTestSuite) TestUpdateUnchangedStockDoesNotNotify() {
	productID := uuid.New()
	product := &model.Product{
		ID:            productID,
		SKU:           "BP-1001",
		Name:          "Brake pad",
		StockQuantity: 10,
	}

	suite.productRepo.On("FindByIDForUpdate", suite.ctx, productID).Return(product, nil).Once()
	suite.productRepo.On("Update", suite.ctx, product).Return(nil).Once()

	_, err := suite.service.Update(suite.ctx, productID, service.ProductRequest{
		SKU:           "BP-1001",
		Name:          "Brake pad premium",
		StockQuantity: 10,
	}, uuid.New())

	suite.Require().NoError(err)
	suite.Equal("Brake pad premium", product.Name)
	suite.Empty(suite.notifier.products)
	suite.assertAllExpectations()
}

func (suite *InventoryServiceTestSuite) TestUpdateRejectsTakenSKU() {
	productID := uuid.New()
	product := &model.Product{ID: productID, SKU: "BP-1001", StockQuantity: 10}

	suite.productRepo.On("FindByIDForUpdate", suite.ctx, productID).Return(product, nil).Once()
	suite.productRepo.On("FindBySKU", suite.ctx, "OF-2002").
		Return(&model.Product{ID: uuid.New(), SKU: "OF-2002"}, nil).Once()

	_, err := suite.service.Update(suite.ctx, productID, service.ProductRequest{
		SKU:           "OF-2002",
		Name:          "Brake pad",
		StockQuantity: 10,
	}, uuid.New())

	suite.Require().ErrorIs(err, service.ErrSKUTaken)
	suite.assertAllExpectations()
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}
