package repository

import (
	"context"
	"time"

	"partspos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerFilter narrows ledger listings. Zero values mean "no filter".
type LedgerFilter struct {
	Type      string // entry kind: in/out for cash, customer/supplier for the unified view
	StartDate time.Time
	EndDate   time.Time
}

// LedgerRepository is the storage for the three append-only transaction logs.
// Entries are only ever inserted; the balance queries compute the signed sums
// used as the consistency oracle for the incremental party balances.
type LedgerRepository interface {
	CreateCustomerTx(ctx context.Context, tx *model.CustomerTransaction) error
	CreateSupplierTx(ctx context.Context, tx *model.SupplierTransaction) error
	CreateCashTx(ctx context.Context, tx *model.CashTransaction) error

	ReceivableBalance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
	PayableBalance(ctx context.Context, distributorID uuid.UUID) (decimal.Decimal, error)

	ListCustomerTx(ctx context.Context, customerID uuid.UUID, limit int) ([]model.CustomerTransaction, error)
	ListSupplierTx(ctx context.Context, distributorID uuid.UUID, limit int) ([]model.SupplierTransaction, error)
	ListCashTx(ctx context.Context, filter LedgerFilter) ([]model.CashTransaction, error)
	ListAllCustomerTx(ctx context.Context, filter LedgerFilter) ([]model.CustomerTransaction, error)
	ListAllSupplierTx(ctx context.Context, filter LedgerFilter) ([]model.SupplierTransaction, error)

	SumCustomerTxByType(ctx context.Context, txType string) (decimal.Decimal, error)
	SumSupplierTxByType(ctx context.Context, txType string) (decimal.Decimal, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) CreateCustomerTx(ctx context.Context, tx *model.CustomerTransaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *ledgerRepository) CreateSupplierTx(ctx context.Context, tx *model.SupplierTransaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *ledgerRepository) CreateCashTx(ctx context.Context, tx *model.CashTransaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

// ReceivableBalance derives the customer balance by summing the log:
// Σ(receivable) − Σ(payment).
func (r *ledgerRepository) ReceivableBalance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Balance decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.CustomerTransaction{}).
		Select("COALESCE(SUM(CASE WHEN transaction_type = ? THEN amount ELSE -amount END), 0) as balance", model.TxTypeReceivable).
		Where("customer_id = ?", customerID).
		Scan(&result).Error
	return result.Balance, err
}

// PayableBalance derives the distributor balance: Σ(payable) − Σ(payment).
func (r *ledgerRepository) PayableBalance(ctx context.Context, distributorID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Balance decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.SupplierTransaction{}).
		Select("COALESCE(SUM(CASE WHEN transaction_type = ? THEN amount ELSE -amount END), 0) as balance", model.TxTypePayable).
		Where("distributor_id = ?", distributorID).
		Scan(&result).Error
	return result.Balance, err
}

func (r *ledgerRepository) ListCustomerTx(ctx context.Context, customerID uuid.UUID, limit int) ([]model.CustomerTransaction, error) {
	var txs []model.CustomerTransaction
	if err := GetDB(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *ledgerRepository) ListSupplierTx(ctx context.Context, distributorID uuid.UUID, limit int) ([]model.SupplierTransaction, error) {
	var txs []model.SupplierTransaction
	if err := GetDB(ctx, r.db).
		Where("distributor_id = ?", distributorID).
		Order("created_at desc").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func applyLedgerDates(db *gorm.DB, filter LedgerFilter) *gorm.DB {
	if !filter.StartDate.IsZero() {
		db = db.Where("created_at >= ?", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		// Inclusive of the end day
		db = db.Where("created_at <= ?", filter.EndDate.AddDate(0, 0, 1))
	}
	return db
}

// ListCashTx returns cash entries oldest first so callers can accumulate the
// running balance as a prefix sum.
func (r *ledgerRepository) ListCashTx(ctx context.Context, filter LedgerFilter) ([]model.CashTransaction, error) {
	db := GetDB(ctx, r.db).Model(&model.CashTransaction{})
	if filter.Type != "" && filter.Type != "all" {
		db = db.Where("transaction_type = ?", filter.Type)
	}
	db = applyLedgerDates(db, filter)

	var txs []model.CashTransaction
	if err := db.Order("created_at asc").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *ledgerRepository) ListAllCustomerTx(ctx context.Context, filter LedgerFilter) ([]model.CustomerTransaction, error) {
	db := applyLedgerDates(GetDB(ctx, r.db).Model(&model.CustomerTransaction{}), filter)

	var txs []model.CustomerTransaction
	if err := db.Preload("Customer").Order("created_at asc").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *ledgerRepository) ListAllSupplierTx(ctx context.Context, filter LedgerFilter) ([]model.SupplierTransaction, error) {
	db := applyLedgerDates(GetDB(ctx, r.db).Model(&model.SupplierTransaction{}), filter)

	var txs []model.SupplierTransaction
	if err := db.Preload("Distributor").Order("created_at asc").Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *ledgerRepository) SumCustomerTxByType(ctx context.Context, txType string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.CustomerTransaction{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("transaction_type = ?", txType).
		Scan(&result).Error
	return result.Total, err
}

func (r *ledgerRepository) SumSupplierTxByType(ctx context.Context, txType string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.SupplierTransaction{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("transaction_type = ?", txType).
		Scan(&result).Error
	return result.Total, err
}
