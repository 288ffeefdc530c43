package repository

import (
	"context"

	"partspos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	Update(ctx context.Context, customer *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, page, limit int) ([]model.Customer, int64, error)
	ListDebtors(ctx context.Context) ([]model.Customer, error)
	AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	return GetDB(ctx, r.db).Create(customer).Error
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	return GetDB(ctx, r.db).Save(customer).Error
}

func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	if err := GetDB(ctx, r.db).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context, page, limit int) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	db := GetDB(ctx, r.db).Model(&model.Customer{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&customers).Error; err != nil {
		return nil, 0, err
	}

	return customers, total, nil
}

func (r *customerRepository) ListDebtors(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	if err := GetDB(ctx, r.db).
		Where("balance > 0").
		Order("balance desc").
		Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// AddToBalance adjusts the incremental receivable balance atomically in SQL.
func (r *customerRepository) AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Customer{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
}
