package service_test

import (
	"context"
	"testing"

	"partspos/internal/model"
	"partspos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type PurchaseServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	orderRepo       *MockPurchaseOrderRepository
	productRepo     *MockProductRepository
	movementRepo    *MockStockMovementRepository
	customerRepo    *MockCustomerRepository
	distributorRepo *MockDistributorRepository
	ledgerRepo      *MockLedgerRepository
	notifier        *recordingNotifier
	service         service.PurchaseService
}

func (suite *PurchaseServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.orderRepo = new(MockPurchaseOrderRepository)
	suite.productRepo = new(MockProductRepository)
	suite.movementRepo = new(MockStockMovementRepository)
	suite.customerRepo = new(MockCustomerRepository)
	suite.distributorRepo = new(MockDistributorRepository)
	suite.ledgerRepo = new(MockLedgerRepository)
	suite.notifier = &recordingNotifier{}

	ledger := service.NewLedgerService(suite.ledgerRepo, suite.customerRepo, suite.distributorRepo)
	suite.service = service.NewPurchaseService(
		fakeTxManager{},
		suite.orderRepo,
		suite.productRepo,
		suite.movementRepo,
		suite.distributorRepo,
		ledger,
		suite.notifier,
	)
}

func (suite *PurchaseServiceTestSuite) assertAllExpectations() {
	suite.orderRepo.AssertExpectations(suite.T())
	suite.productRepo.AssertExpectations(suite.T())
	suite.movementRepo.AssertExpectations(suite.T())
	suite.distributorRepo.AssertExpectations(suite.T())
	suite.ledgerRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestReceiveComputesWeightedAverageCost() {
	userID := uuid.New()
	distributorID := uuid.New()
	orderID := uuid.New()
	productID := uuid.New()

	product := &model.Product{ID: productID, Name: "Brake pad", StockQuantity: 10, CostPrice: dec("100")}
	order := &model.PurchaseOrder{
		ID:            orderID,
		DistributorID: distributorID,
		Status:        model.PurchaseStatusPending,
		TotalAmount:   dec("1400"),
		Items: []model.PurchaseOrderItem{{
			PurchaseOrderID: orderID,
			ProductID:       productID,
			Quantity:        10,
			UnitCost:        dec("140"),
			TotalCost:       dec("1400"),
		}},
	}

	suite.orderRepo.On("FindByIDWithItems", suite.ctx, orderID).Return(order, nil).Once()
	suite.productRepo.On("FindByIDForUpdate", suite.ctx, productID).Return(product, nil).Once()

	var movement *model.StockMovement
	suite.movementRepo.On("Create", suite.ctx, mock.AnythingOfType("*model.StockMovement")).
		Run(func(args mock.Arguments) {
			movement = args.Get(1).(*model.StockMovement)
		}).Return(nil).Once()

	suite.productRepo.On("Update", suite.ctx, product).Return(nil).Once()
	suite.ledgerRepo.On("CreateSupplierTx", suite.ctx, mock.MatchedBy(func(tx *model.SupplierTransaction) bool {
		return tx.Type == model.TxTypePayable && tx.Amount.Equal(dec("1400")) && tx.DistributorID == distributorID
	})).Return(nil).Once()
	suite.distributorRepo.On("AddToBalance", suite.ctx, distributorID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("1400"))
	})).Return(nil).Once()
	suite.orderRepo.On("Save", suite.ctx, order).Return(nil).Once()

	received, err := suite.service.Receive(suite.ctx, orderID, userID)

	suite.Require().NoError(err)
	suite.Equal(model.PurchaseStatusReceived, received.Status)
	suite.Require().NotNil(received.ReceivedAt)
	suite.Equal(model.PaymentStatusPending, received.PaymentStatus)

	// (10*100 + 1400) / 20 = 120
	suite.True(product.CostPrice.Equal(dec("120")), "weighted average cost: got %s", product.CostPrice)
	suite.Equal(20, product.StockQuantity)

	suite.Require().NotNil(movement)
	suite.Equal(model.MovementPurchaseReceipt, movement.ReferenceType)
	suite.Equal(10, movement.QuantityBefore)
	suite.Equal(20, movement.QuantityAfter)

	suite.Len(suite.notifier.products, 1)
	suite.assertAllExpectations()
}

func (suite *PurchaseServiceTestSuite) TestReceiveDerivesStatusFromPriorPayments() {
	orderID := uuid.New()
	productID := uuid.New()
	distributorID := uuid.New()

	product := &model.Product{ID: productID, Name: "Oil filter", StockQuantity: 0, CostPrice: decimal.Zero}
	order := &model.PurchaseOrder{
		ID:            orderID,
		DistributorID: distributorID,
		Status:        model.PurchaseStatusPending,
		TotalAmount:   dec("1400"),
		AmountPaid:    dec("700"),
		Items: []model.PurchaseOrderItem{{
			PurchaseOrderID: orderID,
			ProductID:       productID,
			Quantity:        10,
			UnitCost:        dec("140"),
			TotalCost:       dec("1400"),
		}},
	}

	suite.orderRepo.On("FindByIDWithItems", suite.ctx, orderID).Return(order, nil).Once()
	suite.productRepo.On("FindByIDForUpdate", suite.ctx, productID).Return(product, nil).Once()
	suite.movementRepo.On("Create", suite.ctx, mock.AnythingOfType("*model.StockMovement")).Return(nil).Once()
	suite.productRepo.On("Update", suite.ctx, product).Return(nil).Once()
	suite.ledgerRepo.On("CreateSupplierTx", suite.ctx, mock.AnythingOfType("*model.SupplierTransaction")).Return(nil).Once()
	suite.distributorRepo.On("AddToBalance", suite.ctx, distributorID, mock.Anything).Return(nil).Once()
	suite.orderRepo.On("Save", suite.ctx, order).Return(nil).Once()

	received, err := suite.service.Receive(suite.ctx, orderID, uuid.New())

	suite.Require().NoError(err)
	suite.Equal(model.PaymentStatusPartial, received.PaymentStatus)
	suite.True(product.CostPrice.Equal(dec("140")), "first receipt takes the batch cost")
	suite.assertAllExpectations()
}

func (suite *PurchaseServiceTestSuite) TestReceiveRejectsReceivedOrder() {
	orderID := uuid.New()
	order := &model.PurchaseOrder{ID: orderID, Status: model.PurchaseStatusReceived}

	suite.orderRepo.On("FindByIDWithItems", suite.ctx, orderID).Return(order, nil).Once()

	_, err := suite.service.Receive(suite.ctx, orderID, uuid.New())

	suite.Require().ErrorIs(err, service.ErrOrderAlreadyReceived)
	suite.Empty(suite.notifier.products)
	suite.assertAllExpectations()
}

func (suite *PurchaseServiceTestSuite) TestAddPaymentAllowsOverpayment() {
	orderID := uuid.New()
	distributorID := uuid.New()
	order := &model.PurchaseOrder{
		ID:            orderID,
		DistributorID: distributorID,
		Status:        model.PurchaseStatusReceived,
		TotalAmount:   dec("100"),
		PaymentStatus: model.PaymentStatusPending,
	}

	suite.orderRepo.On("FindByIDWithItems", suite.ctx, orderID).Return(order, nil).Once()
	suite.orderRepo.On("Save", suite.ctx, order).Return(nil).Once()
	suite.ledgerRepo.On("CreateSupplierTx", suite.ctx, mock.MatchedBy(func(tx *model.SupplierTransaction) bool {
		return tx.Type == model.TxTypePayment && tx.Amount.Equal(dec("150"))
	})).Return(nil).Once()
	suite.distributorRepo.On("AddToBalance", suite.ctx, distributorID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("-150"))
	})).Return(nil).Once()
	suite.ledgerRepo.On("CreateCashTx", suite.ctx, mock.MatchedBy(func(tx *model.CashTransaction) bool {
		return tx.Type == model.CashOut && tx.Source == model.CashSourceSupplierPayment && tx.Amount.Equal(dec("150"))
	})).Return(nil).Once()

	updated, err := suite.service.AddPayment(suite.ctx, orderID, service.OrderPaymentRequest{Amount: dec("150")}, uuid.New())

	suite.Require().NoError(err)
	suite.True(updated.AmountPaid.Equal(dec("150")))
	suite.Equal(model.PaymentStatusPaid, updated.PaymentStatus)
	suite.assertAllExpectations()
}

func (suite *PurchaseServiceTestSuite) TestAddPaymentRejectsNonPositiveAmount() {
	_, err := suite.service.AddPayment(suite.ctx, uuid.New(), service.OrderPaymentRequest{Amount: decimal.Zero}, uuid.New())
	suite.Require().Error(err)
	suite.assertAllExpectations()
}

func (suite *PurchaseServiceTestSuite) TestRestockWithoutDistributorOnlyMovesStock() {
	productID := uuid.New()
	product := &model.Product{ID: productID, Name: "Hose clamp", StockQuantity: 4, CostPrice: dec("50")}

	suite.productRepo.On("FindByIDForUpdate", suite.ctx, productID).Return(product, nil).Once()

	var movement *model.StockMovement
	suite.movementRepo.On("Create", suite.ctx, mock.AnythingOfType("*model.StockMovement")).
		Run(func(args mock.Arguments) {
			movement = args.Get(1).(*model.StockMovement)
		}).Return(nil).Once()
	suite.productRepo.On("Update", suite.ctx, product).Return(nil).Once()

	updated, err := suite.service.Restock(suite.ctx, productID, service.RestockRequest{
		Quantity: 6,
		UnitCost: dec("80"),
	}, uuid.New())

	suite.Require().NoError(err)
	// (4*50 + 480) / 10 = 68
	suite.True(updated.CostPrice.Equal(dec("68")), "weighted average cost: got %s", updated.CostPrice)
	suite.Equal(10, updated.StockQuantity)

	suite.Require().NotNil(movement)
	suite.Equal(model.MovementRestock, movement.ReferenceType)
	suite.Nil(movement.ReferenceID, "no purchase order without a distributor")

	suite.Len(suite.notifier.products, 1)
	suite.assertAllExpectations()
}

func (suite *PurchaseServiceTestSuite) TestRestockWithDistributorCreatesReceivedOrder() {
	productID := uuid.New()
	distributorID := uuid.New()
	sellingPrice := dec("180")
	product := &model.Product{
		ID:            productID,
		Name:          "Brake pad",
		StockQuantity: 10,
		CostPrice:     dec("100"),
		SellingPrice:  dec("150"),
		DistributorID: &distributorID,
	}

	suite.productRepo.On("FindByIDForUpdate", suite.ctx, productID).Return(product, nil).Once()

	var order *model.PurchaseOrder
	suite.orderRepo.On("Create", suite.ctx, mock.AnythingOfType("*model.PurchaseOrder")).
		Run(func(args mock.Arguments) {
			order = args.Get(1).(*model.PurchaseOrder)
		}).Return(nil).Once()
	suite.orderRepo.On("CreateItem", suite.ctx, mock.MatchedBy(func(item *model.PurchaseOrderItem) bool {
		return item.Quantity == 10 && item.UnitCost.Equal(dec("140")) && item.TotalCost.Equal(dec("1400"))
	})).Return(nil).Once()
	suite.movementRepo.On("Create", suite.ctx, mock.MatchedBy(func(mv *model.StockMovement) bool {
		return mv.ReferenceType == model.MovementRestock && mv.ReferenceID != nil
	})).Return(nil).Once()
	suite.productRepo.On("Update", suite.ctx, product).Return(nil).Once()

	suite.ledgerRepo.On("CreateSupplierTx", suite.ctx, mock.MatchedBy(func(tx *model.SupplierTransaction) bool {
		return tx.Type == model.TxTypePayable && tx.Amount.Equal(dec("1400"))
	})).Return(nil).Once()
	suite.distributorRepo.On("AddToBalance", suite.ctx, distributorID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("1400"))
	})).Return(nil).Once()
	suite.ledgerRepo.On("CreateSupplierTx", suite.ctx, mock.MatchedBy(func(tx *model.SupplierTransaction) bool {
		return tx.Type == model.TxTypePayment && tx.Amount.Equal(dec("700"))
	})).Return(nil).Once()
	suite.distributorRepo.On("AddToBalance", suite.ctx, distributorID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("-700"))
	})).Return(nil).Once()
	suite.ledgerRepo.On("CreateCashTx", suite.ctx, mock.MatchedBy(func(tx *model.CashTransaction) bool {
		return tx.Type == model.CashOut && tx.Source == model.CashSourceSupplierPayment && tx.Amount.Equal(dec("700"))
	})).Return(nil).Once()
	suite.orderRepo.On("Save", suite.ctx, mock.AnythingOfType("*model.PurchaseOrder")).Return(nil).Once()

	updated, err := suite.service.Restock(suite.ctx, productID, service.RestockRequest{
		Quantity:     10,
		UnitCost:     dec("140"),
		SellingPrice: &sellingPrice,
		AmountPaid:   dec("700"),
	}, uuid.New())

	suite.Require().NoError(err)
	suite.True(updated.CostPrice.Equal(dec("120")))
	suite.Equal(20, updated.StockQuantity)
	suite.True(updated.SellingPrice.Equal(dec("180")))

	suite.Require().NotNil(order)
	suite.Equal(model.PurchaseStatusReceived, order.Status)
	suite.Equal(model.PaymentStatusPartial, order.PaymentStatus)
	suite.Require().NotNil(order.ReceivedAt)
	suite.assertAllExpectations()
}

func (suite *PurchaseServiceTestSuite) TestCreateTotalsTheLines() {
	userID := uuid.New()
	distributorID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	suite.distributorRepo.On("FindByID", suite.ctx, distributorID).Return(&model.Distributor{ID: distributorID}, nil).Once()
	suite.productRepo.On("FindByID", suite.ctx, productA).Return(&model.Product{ID: productA}, nil).Once()
	suite.productRepo.On("FindByID", suite.ctx, productB).Return(&model.Product{ID: productB}, nil).Once()
	suite.orderRepo.On("Create", suite.ctx, mock.AnythingOfType("*model.PurchaseOrder")).Return(nil).Once()
	suite.orderRepo.On("CreateItem", suite.ctx, mock.AnythingOfType("*model.PurchaseOrderItem")).Return(nil).Twice()

	order, err := suite.service.Create(suite.ctx, service.CreatePurchaseOrderRequest{
		DistributorID: distributorID,
		InvoiceNumber: "INV-014",
		Items: []service.PurchaseOrderLineInput{
			{ProductID: productA, Quantity: 3, UnitCost: dec("40")},
			{ProductID: productB, Quantity: 2, UnitCost: dec("25.50")},
		},
	}, userID)

	suite.Require().NoError(err)
	suite.True(order.TotalAmount.Equal(dec("171")), "total: got %s", order.TotalAmount)
	suite.Equal(model.PurchaseStatusPending, order.Status)
	suite.Equal(model.PaymentStatusPending, order.PaymentStatus)
	suite.Equal("INV-014", order.InvoiceNumber)
	suite.Len(order.Items, 2)
	suite.assertAllExpectations()
}

func TestPurchaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}
