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

type CustomerServiceTestSuite struct {
	suite.Suite
	ctx             context.Context
	customerRepo    *MockCustomerRepository
	orderRepo       *MockSalesOrderRepository
	distributorRepo *MockDistributorRepository
	ledgerRepo      *MockLedgerRepository
	service         service.CustomerService
}

func (suite *CustomerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.customerRepo = new(MockCustomerRepository)
	suite.orderRepo = new(MockSalesOrderRepository)
	suite.distributorRepo = new(MockDistributorRepository)
	suite.ledgerRepo = new(MockLedgerRepository)

	ledger := service.NewLedgerService(suite.ledgerRepo, suite.customerRepo, suite.distributorRepo)
	suite.service = service.NewCustomerService(
		fakeTxManager{},
		suite.customerRepo,
		suite.orderRepo,
		suite.ledgerRepo,
		ledger,
	)
}

func (suite *CustomerServiceTestSuite) assertAllExpectations() {
	suite.customerRepo.AssertExpectations(suite.T())
	suite.orderRepo.AssertExpectations(suite.T())
	suite.ledgerRepo.AssertExpectations(suite.T())
}

func unpaidOrder(total, paid string) model.SalesOrder {
	return model.SalesOrder{
		ID:          uuid.New(),
		Status:      model.SalesStatusApproved,
		TotalAmount: dec(total),
		AmountPaid:  dec(paid),
	}
}

func (suite *CustomerServiceTestSuite) TestAccountPaymentConsumesOldestFirst() {
	customerID := uuid.New()
	userID := uuid.New()

	// Listed oldest first with open amounts 100, 50 and 30
	orders := []model.SalesOrder{
		unpaidOrder("100", "0"),
		unpaidOrder("80", "30"),
		unpaidOrder("30", "0"),
	}

	suite.customerRepo.On("FindByID", suite.ctx, customerID).Return(&model.Customer{ID: customerID}, nil).Once()
	suite.orderRepo.On("ListUnpaidByCustomer", suite.ctx, customerID).Return(orders, nil).Once()
	suite.orderRepo.On("Save", suite.ctx, mock.AnythingOfType("*model.SalesOrder")).Return(nil).Twice()

	suite.ledgerRepo.On("CreateCustomerTx", suite.ctx, mock.MatchedBy(func(tx *model.CustomerTransaction) bool {
		return tx.Type == model.TxTypePayment && tx.Amount.Equal(dec("120")) &&
			tx.OrderID == nil && tx.Reference == "Account payment"
	})).Return(nil).Once()
	suite.customerRepo.On("AddToBalance", suite.ctx, customerID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("-120"))
	})).Return(nil).Once()
	suite.ledgerRepo.On("CreateCashTx", suite.ctx, mock.MatchedBy(func(tx *model.CashTransaction) bool {
		return tx.Type == model.CashIn && tx.Source == model.CashSourceCustomerPayment && tx.Amount.Equal(dec("120"))
	})).Return(nil).Once()

	result, err := suite.service.ApplyAccountPayment(suite.ctx, customerID, service.AccountPaymentRequest{
		Amount: dec("120"),
	}, userID)

	suite.Require().NoError(err)
	suite.True(result.AmountApplied.Equal(dec("120")))
	suite.True(result.Unallocated.IsZero())

	// Oldest settled in full, second partially, third untouched
	suite.Require().Len(result.Orders, 2)
	suite.True(result.Orders[0].Applied.Equal(dec("100")))
	suite.True(result.Orders[0].Remaining.IsZero())
	suite.True(result.Orders[1].Applied.Equal(dec("20")))
	suite.True(result.Orders[1].Remaining.Equal(dec("30")))
	suite.assertAllExpectations()
}

func (suite *CustomerServiceTestSuite) TestAccountPaymentReportsUnallocatedLeftover() {
	customerID := uuid.New()

	orders := []model.SalesOrder{unpaidOrder("80", "0")}

	suite.customerRepo.On("FindByID", suite.ctx, customerID).Return(&model.Customer{ID: customerID}, nil).Once()
	suite.orderRepo.On("ListUnpaidByCustomer", suite.ctx, customerID).Return(orders, nil).Once()
	suite.orderRepo.On("Save", suite.ctx, mock.AnythingOfType("*model.SalesOrder")).Return(nil).Once()

	// Ledger and cash still carry the gross amount
	suite.ledgerRepo.On("CreateCustomerTx", suite.ctx, mock.MatchedBy(func(tx *model.CustomerTransaction) bool {
		return tx.Type == model.TxTypePayment && tx.Amount.Equal(dec("100"))
	})).Return(nil).Once()
	suite.customerRepo.On("AddToBalance", suite.ctx, customerID, mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec("-100"))
	})).Return(nil).Once()
	suite.ledgerRepo.On("CreateCashTx", suite.ctx, mock.MatchedBy(func(tx *model.CashTransaction) bool {
		return tx.Amount.Equal(dec("100"))
	})).Return(nil).Once()

	result, err := suite.service.ApplyAccountPayment(suite.ctx, customerID, service.AccountPaymentRequest{
		Amount: dec("100"),
	}, uuid.New())

	suite.Require().NoError(err)
	suite.True(result.Unallocated.Equal(dec("20")), "leftover reported, not held as credit")
	suite.Require().Len(result.Orders, 1)
	suite.True(result.Orders[0].Applied.Equal(dec("80")))
	suite.assertAllExpectations()
}

func (suite *CustomerServiceTestSuite) TestAccountPaymentRejectsNonPositiveAmount() {
	_, err := suite.service.ApplyAccountPayment(suite.ctx, uuid.New(), service.AccountPaymentRequest{
		Amount: dec("-5"),
	}, uuid.New())

	suite.Require().Error(err)
	suite.assertAllExpectations()
}

func (suite *CustomerServiceTestSuite) TestCreateRoundsCreditLimit() {
	suite.customerRepo.On("Create", suite.ctx, mock.MatchedBy(func(c *model.Customer) bool {
		return c.Name == "Ace Garage" && c.CreditLimit.Equal(dec("5000"))
	})).Return(nil).Once()

	customer, err := suite.service.Create(suite.ctx, service.CustomerRequest{
		Name:        "Ace Garage",
		Phone:       "0400111222",
		CreditLimit: dec("5000.004"),
	})

	suite.Require().NoError(err)
	suite.Equal("Ace Garage", customer.Name)
	suite.assertAllExpectations()
}

func TestCustomerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerServiceTestSuite))
}
