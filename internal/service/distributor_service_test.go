package service_test

import (
	"context"
	"testing"

	"partspos/internal/model"
	"partspos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type DistributorServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	distributorRepo *MockDistributorRepository
	productRepo     *MockProductRepository
	purchaseRepo    *MockPurchaseOrderRepository
	ledgerRepo      *MockLedgerRepository
	service         service.DistributorService
}

func (suite *DistributorServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.distributorRepo = new(MockDistributorRepository)
	suite.productRepo = new(MockProductRepository)
	suite.purchaseRepo = new(MockPurchaseOrderRepository)
	suite.ledgerRepo = new(MockLedgerRepository)
	suite.service = service.NewDistributorService(
		fakeTxManager{},
		suite.distributorRepo,
		suite.productRepo,
		suite.purchaseRepo,
		suite.ledgerRepo,
	)
}

func (suite *DistributorServiceTestSuite) assertAllExpectations() {
	suite.distributorRepo.AssertExpectations(suite.T())
	suite.productRepo.AssertExpectations(suite.T())
	suite.purchaseRepo.AssertExpectations(suite.T())
	suite.ledgerRepo.AssertExpectations(suite.T())
}

func (suite *DistributorServiceTestSuite) TestDeleteRefusesWhileReferenced() {
	distributorID := uuid.New()

	suite.distributorRepo.On("FindByID", suite.ctx, distributorID).
		Return(&model.Distributor{ID: distributorID, Name: "Parts Direct"}, nil).Once()
	suite.distributorRepo.On("HasReferences", suite.ctx, distributorID).Return(true, nil).Once()

	err := suite.service.Delete(suite.ctx, distributorID)

	suite.Require().ErrorIs(err, service.ErrDistributorInUse)
	suite.assertAllExpectations()
}

func (suite *DistributorServiceTestSuite) TestDeleteRemovesUnreferenced() {
	distributorID := uuid.New()

	suite.distributorRepo.On("FindByID", suite.ctx, distributorID).
		Return(&model.Distributor{ID: distributorID}, nil).Once()
	suite.distributorRepo.On("HasReferences", suite.ctx, distributorID).Return(false, nil).Once()
	suite.distributorRepo.On("Delete", suite.ctx, distributorID).Return(nil).Once()

	err := suite.service.Delete(suite.ctx, distributorID)

	suite.Require().NoError(err)
	suite.assertAllExpectations()
}

func (suite *DistributorServiceTestSuite) TestGetDetailsAssemblesThePage() {
	distributorID := uuid.New()
	distributor := &model.Distributor{ID: distributorID, Name: "Parts Direct"}
	products := []model.Product{{ID: uuid.New(), Name: "Brake pad"}}
	orders := []model.PurchaseOrder{{ID: uuid.New(), DistributorID: distributorID}}
	transactions := []model.SupplierTransaction{{DistributorID: distributorID, Type: model.TxTypePayable, Amount: dec("100")}}

	suite.distributorRepo.On("FindByID", suite.ctx, distributorID).Return(distributor, nil).Once()
	suite.productRepo.On("ListByDistributor", suite.ctx, distributorID).Return(products, nil).Once()
	suite.purchaseRepo.On("ListByDistributor", suite.ctx, distributorID).Return(orders, nil).Once()
	suite.ledgerRepo.On("ListSupplierTx", suite.ctx, distributorID, 50).Return(transactions, nil).Once()

	details, err := suite.service.GetDetails(suite.ctx, distributorID)

	suite.Require().NoError(err)
	suite.Equal("Parts Direct", details.Distributor.Name)
	suite.Len(details.Products, 1)
	suite.Len(details.PurchaseOrders, 1)
	suite.Len(details.Transactions, 1)
	suite.assertAllExpectations()
}

func TestDistributorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DistributorServiceTestSuite))
}
