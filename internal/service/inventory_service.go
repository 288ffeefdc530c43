package service

import (
	"context"
	"errors"
	"fmt"

	"partspos/internal/model"
	"partspos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrSKUTaken = errors.New("a product with this SKU already exists")

type ProductRequest struct {
	SKU           string           `json:"sku" binding:"required"`
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	StockQuantity int              `json:"stock_quantity"`
	CostPrice     decimal.Decimal  `json:"cost_price"`
	SellingPrice  decimal.Decimal  `json:"selling_price"`
	DistributorID *uuid.UUID       `json:"distributor_id"`
	VehicleType   string           `json:"vehicle_type"`
	VehicleModel  string           `json:"vehicle_model"`
	PartNumber    string           `json:"part_number"`
	MinStockLevel *int             `json:"min_stock_level"`
}

// ProductDetails is the product page payload: the product, its recent
// movements and who supplies it.
type ProductDetails struct {
	Product   *model.Product        `json:"product"`
	Movements []model.StockMovement `json:"movements"`
}

type InventoryService interface {
	Create(ctx context.Context, req ProductRequest, userID uuid.UUID) (*model.Product, error)
	Update(ctx context.Context, id uuid.UUID, req ProductRequest, userID uuid.UUID) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*ProductDetails, error)
	List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error)
	ListLowStock(ctx context.Context) ([]model.Product, error)
}

type inventoryService struct {
	txManager    repository.TransactionManager
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	notifier     StockNotifier
}

func NewInventoryService(
	txManager repository.TransactionManager,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	notifier StockNotifier,
) InventoryService {
	return &inventoryService{
		txManager:    txManager,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		notifier:     notifier,
	}
}

// Create adds a product to the catalog. Opening stock, when given, is
// recorded as a manual adjustment so the movement log covers every unit the
// product has ever held.
func (s *inventoryService) Create(ctx context.Context, req ProductRequest, userID uuid.UUID) (*model.Product, error) {
	if req.StockQuantity < 0 {
		return nil, errors.New("stock quantity cannot be negative")
	}

	var product *model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.productRepo.FindBySKU(txCtx, req.SKU)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			return ErrSKUTaken
		}

		minStock := 5
		if req.MinStockLevel != nil {
			minStock = *req.MinStockLevel
		}
		product = &model.Product{
			SKU:           req.SKU,
			Name:          req.Name,
			Description:   req.Description,
			StockQuantity: req.StockQuantity,
			CostPrice:     req.CostPrice.Round(2),
			SellingPrice:  req.SellingPrice.Round(2),
			DistributorID: req.DistributorID,
			VehicleType:   req.VehicleType,
			VehicleModel:  req.VehicleModel,
			PartNumber:    req.PartNumber,
			MinStockLevel: minStock,
			IsActive:      true,
		}
		if err := s.productRepo.Create(txCtx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		if req.StockQuantity > 0 {
			if err := s.movementRepo.Create(txCtx, &model.StockMovement{
				ProductID:      product.ID,
				QuantityChange: req.StockQuantity,
				QuantityBefore: 0,
				QuantityAfter:  req.StockQuantity,
				ReferenceType:  model.MovementManualAdjustment,
				UserID:         userID,
			}); err != nil {
				return fmt.Errorf("failed to record opening stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// Update edits catalog fields. A changed stock quantity is treated as a
// manual correction and logged as an adjustment movement for the difference.
func (s *inventoryService) Update(ctx context.Context, id uuid.UUID, req ProductRequest, userID uuid.UUID) (*model.Product, error) {
	if req.StockQuantity < 0 {
		return nil, errors.New("stock quantity cannot be negative")
	}

	var product *model.Product
	var stockChanged bool
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		product, err = s.productRepo.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return fmt.Errorf("product not found: %w", err)
		}

		if req.SKU != product.SKU {
			existing, err := s.productRepo.FindBySKU(txCtx, req.SKU)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if existing != nil {
				return ErrSKUTaken
			}
			product.SKU = req.SKU
		}

		if req.StockQuantity != product.StockQuantity {
			before := product.StockQuantity
			if err := s.movementRepo.Create(txCtx, &model.StockMovement{
				ProductID:      product.ID,
				QuantityChange: req.StockQuantity - before,
				QuantityBefore: before,
				QuantityAfter:  req.StockQuantity,
				ReferenceType:  model.MovementManualAdjustment,
				UserID:         userID,
			}); err != nil {
				return fmt.Errorf("failed to record stock adjustment: %w", err)
			}
			product.StockQuantity = req.StockQuantity
			stockChanged = true
		}

		product.Name = req.Name
		product.Description = req.Description
		product.CostPrice = req.CostPrice.Round(2)
		product.SellingPrice = req.SellingPrice.Round(2)
		product.DistributorID = req.DistributorID
		product.VehicleType = req.VehicleType
		product.VehicleModel = req.VehicleModel
		product.PartNumber = req.PartNumber
		if req.MinStockLevel != nil {
			product.MinStockLevel = *req.MinStockLevel
		}
		if err := s.productRepo.Update(txCtx, product); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stockChanged && s.notifier != nil {
		s.notifier.NotifyStockChange(product)
	}
	return product, nil
}

func (s *inventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("product not found: %w", err)
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *inventoryService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *inventoryService) GetDetails(ctx context.Context, id uuid.UUID) (*ProductDetails, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}
	movements, err := s.movementRepo.ListByProduct(ctx, id, 50)
	if err != nil {
		return nil, err
	}
	return &ProductDetails{Product: product, Movements: movements}, nil
}

func (s *inventoryService) List(ctx context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	return s.productRepo.List(ctx, page, limit, search)
}

func (s *inventoryService) ListLowStock(ctx context.Context) ([]model.Product, error) {
	return s.productRepo.ListLowStock(ctx)
}
