package repository

import (
	"context"

	"partspos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseOrderRepository interface {
	Create(ctx context.Context, order *model.PurchaseOrder) error
	CreateItem(ctx context.Context, item *model.PurchaseOrderItem) error
	Save(ctx context.Context, order *model.PurchaseOrder) error
	FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	List(ctx context.Context, page, limit int) ([]model.PurchaseOrder, int64, error)
	ListByDistributor(ctx context.Context, distributorID uuid.UUID) ([]model.PurchaseOrder, error)
	ListUnpaid(ctx context.Context) ([]model.PurchaseOrder, error)
	ListUnpaidByDistributor(ctx context.Context, distributorID uuid.UUID) ([]model.PurchaseOrder, error)
}

type purchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) PurchaseOrderRepository {
	return &purchaseOrderRepository{db: db}
}

func (r *purchaseOrderRepository) Create(ctx context.Context, order *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Create(order).Error
}

func (r *purchaseOrderRepository) CreateItem(ctx context.Context, item *model.PurchaseOrderItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *purchaseOrderRepository) Save(ctx context.Context, order *model.PurchaseOrder) error {
	return GetDB(ctx, r.db).Omit("Items", "Distributor").Save(order).Error
}

func (r *purchaseOrderRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Distributor").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *purchaseOrderRepository) List(ctx context.Context, page, limit int) ([]model.PurchaseOrder, int64, error) {
	var orders []model.PurchaseOrder
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.PurchaseOrder{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Items").
		Preload("Distributor").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *purchaseOrderRepository) ListByDistributor(ctx context.Context, distributorID uuid.UUID) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	if err := GetDB(ctx, r.db).
		Where("distributor_id = ?", distributorID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *purchaseOrderRepository) ListUnpaid(ctx context.Context) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	if err := GetDB(ctx, r.db).
		Preload("Distributor").
		Where("payment_status <> ? AND total_amount > amount_paid", model.PaymentStatusPaid).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *purchaseOrderRepository) ListUnpaidByDistributor(ctx context.Context, distributorID uuid.UUID) ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	if err := GetDB(ctx, r.db).
		Where("distributor_id = ? AND payment_status <> ?", distributorID, model.PaymentStatusPaid).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
