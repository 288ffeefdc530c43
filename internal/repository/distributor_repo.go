package repository

import (
	"context"

	"partspos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DistributorRepository interface {
	Create(ctx context.Context, distributor *model.Distributor) error
	Update(ctx context.Context, distributor *model.Distributor) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Distributor, error)
	List(ctx context.Context) ([]model.Distributor, error)
	ListCreditors(ctx context.Context) ([]model.Distributor, error)
	HasReferences(ctx context.Context, id uuid.UUID) (bool, error)
	AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
}

type distributorRepository struct {
	db *gorm.DB
}

func NewDistributorRepository(db *gorm.DB) DistributorRepository {
	return &distributorRepository{db: db}
}

func (r *distributorRepository) Create(ctx context.Context, distributor *model.Distributor) error {
	return GetDB(ctx, r.db).Create(distributor).Error
}

func (r *distributorRepository) Update(ctx context.Context, distributor *model.Distributor) error {
	return GetDB(ctx, r.db).Save(distributor).Error
}

func (r *distributorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Distributor{}).Error
}

func (r *distributorRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Distributor, error) {
	var distributor model.Distributor
	if err := GetDB(ctx, r.db).First(&distributor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &distributor, nil
}

func (r *distributorRepository) List(ctx context.Context) ([]model.Distributor, error) {
	var distributors []model.Distributor
	if err := GetDB(ctx, r.db).Order("name asc").Find(&distributors).Error; err != nil {
		return nil, err
	}
	return distributors, nil
}

func (r *distributorRepository) ListCreditors(ctx context.Context) ([]model.Distributor, error) {
	var distributors []model.Distributor
	if err := GetDB(ctx, r.db).
		Where("balance > 0").
		Order("balance desc").
		Find(&distributors).Error; err != nil {
		return nil, err
	}
	return distributors, nil
}

// HasReferences reports whether any product, purchase order or ledger entry
// still points at the distributor. Deletion is refused while any exist.
func (r *distributorRepository) HasReferences(ctx context.Context, id uuid.UUID) (bool, error) {
	db := GetDB(ctx, r.db)

	var count int64
	if err := db.Model(&model.Product{}).Where("distributor_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := db.Model(&model.PurchaseOrder{}).Where("distributor_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := db.Model(&model.SupplierTransaction{}).Where("distributor_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddToBalance adjusts the incremental payable balance atomically in SQL.
func (r *distributorRepository) AddToBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Distributor{}).
		Where("id = ?", id).
		Update("balance", gorm.Expr("balance + ?", delta)).Error
}
