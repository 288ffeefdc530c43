package service_test

import (
	"context"
	"time"

	"partspos/internal/model"
	"partspos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// fakeTxManager runs the closure directly; each test asserts effects through
// the repository mocks instead of a real transaction.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- ProductRepository ---

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	args := m.Called(ctx, page, limit, search)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ListByDistributor(ctx context.Context, distributorID uuid.UUID) ([]model.Product, error) {
	args := m.Called(ctx, distributorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) ListLowStock(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// --- StockMovementRepository ---

type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) Create(ctx context.Context, movement *model.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockStockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.StockMovement, error) {
	args := m.Called(ctx, productID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StockMovement), args.Error(1)
}

// --- SalesOrderRepository ---

type MockSalesOrderRepository struct {
	mock.Mock
}

func (m *MockSalesOrderRepository) Create(ctx context.Context, order *model.SalesOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) CreateItem(ctx context.Context, item *model.SalesOrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) Save(ctx context.Context, order *model.SalesOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) SaveItem(ctx context.Context, item *model.SalesOrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockSalesOrderRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) List(ctx context.Context, page, limit int) ([]model.SalesOrder, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.SalesOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockSalesOrderRepository) ListUnpaidByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.SalesOrder, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) ListUnpaidWalkIn(ctx context.Context) ([]model.SalesOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) ListUnpaidApproved(ctx context.Context) ([]model.SalesOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SalesOrder), args.Error(1)
}

func (m *MockSalesOrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.SalesOrder, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SalesOrder), args.Error(1)
}

// --- PurchaseOrderRepository ---

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) Create(ctx context.Context, order *model.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) CreateItem(ctx context.Context, item *model.PurchaseOrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *model.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) List(ctx context.Context, page, limit int) ([]model.PurchaseOrder, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderRepository) ListByDistributor(ctx context.Context, distributorID uuid.UUID) ([]model.PurchaseOrder, error) {
	args := m.Called(ctx, distributorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) ListUnpaid(ctx context.Context) ([]model.PurchaseOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) ListUnpaidByDistributor(ctx context.Context, distributorID uuid.UUID) ([]model.PurchaseOrder, error) {
	args := m.Called(ctx, distributorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PurchaseOrder), args.Error(1)
}

// --- CustomerRepository ---

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Update(ctx context.Context, customer *model.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, page, limit int) ([]model.Customer, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) ListDebtors(ctx context.Context) ([]model.Customer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Customer), args.Error(1)
}

func (m *MockCustomerRepository) AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

// --- DistributorRepository ---

type MockDistributorRepository struct {
	mock.Mock
}

func (m *MockDistributorRepository) Create(ctx context.Context, distributor *model.Distributor) error {
	args := m.Called(ctx, distributor)
	return args.Error(0)
}

func (m *MockDistributorRepository) Update(ctx context.Context, distributor *model.Distributor) error {
	args := m.Called(ctx, distributor)
	return args.Error(0)
}

func (m *MockDistributorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDistributorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Distributor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Distributor), args.Error(1)
}

func (m *MockDistributorRepository) List(ctx context.Context) ([]model.Distributor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Distributor), args.Error(1)
}

func (m *MockDistributorRepository) ListCreditors(ctx context.Context) ([]model.Distributor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Distributor), args.Error(1)
}

func (m *MockDistributorRepository) HasReferences(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDistributorRepository) AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

// --- LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) CreateCustomerTx(ctx context.Context, tx *model.CustomerTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) CreateSupplierTx(ctx context.Context, tx *model.SupplierTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) CreateCashTx(ctx context.Context, tx *model.CashTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) ReceivableBalance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) PayableBalance(ctx context.Context, distributorID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, distributorID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) ListCustomerTx(ctx context.Context, customerID uuid.UUID, limit int) ([]model.CustomerTransaction, error) {
	args := m.Called(ctx, customerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CustomerTransaction), args.Error(1)
}

func (m *MockLedgerRepository) ListSupplierTx(ctx context.Context, distributorID uuid.UUID, limit int) ([]model.SupplierTransaction, error) {
	args := m.Called(ctx, distributorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SupplierTransaction), args.Error(1)
}

func (m *MockLedgerRepository) ListCashTx(ctx context.Context, filter repository.LedgerFilter) ([]model.CashTransaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CashTransaction), args.Error(1)
}

func (m *MockLedgerRepository) ListAllCustomerTx(ctx context.Context, filter repository.LedgerFilter) ([]model.CustomerTransaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CustomerTransaction), args.Error(1)
}

func (m *MockLedgerRepository) ListAllSupplierTx(ctx context.Context, filter repository.LedgerFilter) ([]model.SupplierTransaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SupplierTransaction), args.Error(1)
}

func (m *MockLedgerRepository) SumCustomerTxByType(ctx context.Context, txType string) (decimal.Decimal, error) {
	args := m.Called(ctx, txType)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) SumSupplierTxByType(ctx context.Context, txType string) (decimal.Decimal, error) {
	args := m.Called(ctx, txType)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- ExpenseRepository ---

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Expense), args.Error(1)
}

func (m *MockExpenseRepository) List(ctx context.Context, page, limit int) ([]model.Expense, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseRepository) SumAll(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// recordingNotifier captures post-commit stock notifications.
type recordingNotifier struct {
	products []*model.Product
}

func (n *recordingNotifier) NotifyStockChange(product *model.Product) {
	n.products = append(n.products, product)
}

// dec is a test shorthand for decimal literals.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// daysAgo builds timestamps for ordering-sensitive fixtures.
func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}
