package repository

import (
	"context"

	"partspos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesOrderRepository interface {
	Create(ctx context.Context, order *model.SalesOrder) error
	CreateItem(ctx context.Context, item *model.SalesOrderItem) error
	Save(ctx context.Context, order *model.SalesOrder) error
	SaveItem(ctx context.Context, item *model.SalesOrderItem) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error)
	List(ctx context.Context, page, limit int) ([]model.SalesOrder, int64, error)
	ListUnpaidByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.SalesOrder, error)
	ListUnpaidWalkIn(ctx context.Context) ([]model.SalesOrder, error)
	ListUnpaidApproved(ctx context.Context) ([]model.SalesOrder, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.SalesOrder, error)
}

type salesOrderRepository struct {
	db *gorm.DB
}

func NewSalesOrderRepository(db *gorm.DB) SalesOrderRepository {
	return &salesOrderRepository{db: db}
}

func (r *salesOrderRepository) Create(ctx context.Context, order *model.SalesOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *salesOrderRepository) CreateItem(ctx context.Context, item *model.SalesOrderItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *salesOrderRepository) Save(ctx context.Context, order *model.SalesOrder) error {
	return GetDB(ctx, r.db).Omit("Items", "Customer").Save(order).Error
}

func (r *salesOrderRepository) SaveItem(ctx context.Context, item *model.SalesOrderItem) error {
	return GetDB(ctx, r.db).Omit("Product").Save(item).Error
}

func (r *salesOrderRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	var order model.SalesOrder
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Customer").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *salesOrderRepository) List(ctx context.Context, page, limit int) ([]model.SalesOrder, int64, error) {
	var orders []model.SalesOrder
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.SalesOrder{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Items").
		Preload("Customer").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// ListUnpaidByCustomer returns the customer's approved, not fully paid orders
// oldest first, which is the consumption order for payment allocation.
func (r *salesOrderRepository) ListUnpaidByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.SalesOrder, error) {
	var orders []model.SalesOrder
	if err := GetDB(ctx, r.db).
		Where("customer_id = ? AND status = ? AND total_amount > amount_paid", customerID, model.SalesStatusApproved).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *salesOrderRepository) ListUnpaidWalkIn(ctx context.Context) ([]model.SalesOrder, error) {
	var orders []model.SalesOrder
	if err := GetDB(ctx, r.db).
		Where("customer_id IS NULL AND status = ? AND total_amount > amount_paid", model.SalesStatusApproved).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *salesOrderRepository) ListUnpaidApproved(ctx context.Context) ([]model.SalesOrder, error) {
	var orders []model.SalesOrder
	if err := GetDB(ctx, r.db).
		Where("status = ? AND total_amount > amount_paid", model.SalesStatusApproved).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *salesOrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.SalesOrder, error) {
	var orders []model.SalesOrder
	if err := GetDB(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
