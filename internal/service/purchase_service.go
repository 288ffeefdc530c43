package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"partspos/internal/model"
	"partspos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrOrderAlreadyReceived = errors.New("purchase order has already been received")

type PurchaseOrderLineInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"required"`
}

type CreatePurchaseOrderRequest struct {
	DistributorID uuid.UUID                `json:"distributor_id" binding:"required"`
	InvoiceNumber string                   `json:"invoice_number"`
	Notes         string                   `json:"notes"`
	Items         []PurchaseOrderLineInput `json:"items" binding:"required,min=1,dive"`
}

type RestockRequest struct {
	Quantity     int              `json:"quantity" binding:"required,gt=0"`
	UnitCost     decimal.Decimal  `json:"unit_cost" binding:"required"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	AmountPaid   decimal.Decimal  `json:"amount_paid"`
}

type PurchaseService interface {
	Create(ctx context.Context, req CreatePurchaseOrderRequest, userID uuid.UUID) (*model.PurchaseOrder, error)
	Receive(ctx context.Context, orderID uuid.UUID, userID uuid.UUID) (*model.PurchaseOrder, error)
	AddPayment(ctx context.Context, orderID uuid.UUID, req OrderPaymentRequest, userID uuid.UUID) (*model.PurchaseOrder, error)
	Restock(ctx context.Context, productID uuid.UUID, req RestockRequest, userID uuid.UUID) (*model.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)
	List(ctx context.Context, page, limit int) ([]model.PurchaseOrder, int64, error)
}

type purchaseService struct {
	txManager       repository.TransactionManager
	orderRepo       repository.PurchaseOrderRepository
	productRepo     repository.ProductRepository
	movementRepo    repository.StockMovementRepository
	distributorRepo repository.DistributorRepository
	ledger          LedgerService
	notifier        StockNotifier
}

func NewPurchaseService(
	txManager repository.TransactionManager,
	orderRepo repository.PurchaseOrderRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	distributorRepo repository.DistributorRepository,
	ledger LedgerService,
	notifier StockNotifier,
) PurchaseService {
	return &purchaseService{
		txManager:       txManager,
		orderRepo:       orderRepo,
		productRepo:     productRepo,
		movementRepo:    movementRepo,
		distributorRepo: distributorRepo,
		ledger:          ledger,
		notifier:        notifier,
	}
}

func (s *purchaseService) Create(ctx context.Context, req CreatePurchaseOrderRequest, userID uuid.UUID) (*model.PurchaseOrder, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("purchase order must have at least one item")
	}

	var order *model.PurchaseOrder
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.distributorRepo.FindByID(txCtx, req.DistributorID); err != nil {
			return fmt.Errorf("distributor not found: %w", err)
		}

		totalAmount := decimal.Zero
		for _, line := range req.Items {
			if line.Quantity <= 0 {
				return fmt.Errorf("quantity must be positive for product %s", line.ProductID)
			}
			if !line.UnitCost.IsPositive() {
				return fmt.Errorf("unit cost must be positive for product %s", line.ProductID)
			}
			if _, err := s.productRepo.FindByID(txCtx, line.ProductID); err != nil {
				return fmt.Errorf("product %s not found: %w", line.ProductID, err)
			}
			totalAmount = totalAmount.Add(line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order = &model.PurchaseOrder{
			DistributorID: req.DistributorID,
			CreatedBy:     userID,
			Status:        model.PurchaseStatusPending,
			TotalAmount:   totalAmount.Round(2),
			PaymentStatus: model.PaymentStatusPending,
			InvoiceNumber: req.InvoiceNumber,
			Notes:         req.Notes,
		}
		if err := s.orderRepo.Create(txCtx, order); err != nil {
			return fmt.Errorf("failed to create purchase order: %w", err)
		}

		for _, line := range req.Items {
			unitCost := line.UnitCost.Round(2)
			item := &model.PurchaseOrderItem{
				PurchaseOrderID: order.ID,
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				UnitCost:        unitCost,
				TotalCost:       unitCost.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
			}
			if err := s.orderRepo.CreateItem(txCtx, item); err != nil {
				return fmt.Errorf("failed to create purchase order item: %w", err)
			}
			order.Items = append(order.Items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Receive applies the stock and valuation effects of the order exactly once.
// Payments may have been pre-recorded against the pending order, so the
// payment status is derived from whatever amount_paid already holds.
func (s *purchaseService) Receive(ctx context.Context, orderID uuid.UUID, userID uuid.UUID) (*model.PurchaseOrder, error) {
	var order *model.PurchaseOrder
	var touched []*model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDWithItems(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("purchase order not found: %w", err)
		}
		if order.Status != model.PurchaseStatusPending {
			return ErrOrderAlreadyReceived
		}

		products, err := s.lockOrderProducts(txCtx, order.Items)
		if err != nil {
			return err
		}

		for _, item := range order.Items {
			product := products[item.ProductID]
			if err := s.receiveStock(txCtx, product, item.Quantity, item.UnitCost, item.TotalCost,
				model.MovementPurchaseReceipt, &order.ID, userID); err != nil {
				return err
			}
		}
		for _, product := range products {
			if err := s.productRepo.Update(txCtx, product); err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
			touched = append(touched, product)
		}

		if err := s.ledger.PostSupplierEntry(txCtx, &model.SupplierTransaction{
			DistributorID:   order.DistributorID,
			PurchaseOrderID: &order.ID,
			Type:            model.TxTypePayable,
			Amount:          order.TotalAmount,
			Reference:       fmt.Sprintf("Purchase %s", order.ID),
			CreatedBy:       userID,
		}); err != nil {
			return err
		}

		now := time.Now()
		order.Status = model.PurchaseStatusReceived
		order.ReceivedAt = &now
		order.PaymentStatus = derivePaymentStatus(order.AmountPaid, order.TotalAmount)
		if err := s.orderRepo.Save(txCtx, order); err != nil {
			return fmt.Errorf("failed to mark order received: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		for _, product := range touched {
			s.notifier.NotifyStockChange(product)
		}
	}
	return order, nil
}

// AddPayment records a payment toward the distributor. There is no upper
// bound against the remaining amount; overpaying a supplier is allowed.
func (s *purchaseService) AddPayment(ctx context.Context, orderID uuid.UUID, req OrderPaymentRequest, userID uuid.UUID) (*model.PurchaseOrder, error) {
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, errors.New("payment amount must be greater than zero")
	}

	var order *model.PurchaseOrder
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDWithItems(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("purchase order not found: %w", err)
		}

		order.AmountPaid = order.AmountPaid.Add(amount)
		order.PaymentStatus = derivePaymentStatus(order.AmountPaid, order.TotalAmount)
		if err := s.orderRepo.Save(txCtx, order); err != nil {
			return fmt.Errorf("failed to update purchase order: %w", err)
		}

		if err := s.ledger.PostSupplierEntry(txCtx, &model.SupplierTransaction{
			DistributorID:   order.DistributorID,
			PurchaseOrderID: &order.ID,
			Type:            model.TxTypePayment,
			Amount:          amount,
			PaymentMethod:   req.PaymentMethod,
			Reference:       fmt.Sprintf("Payment on purchase %s", order.ID),
			Notes:           req.Notes,
			CreatedBy:       userID,
		}); err != nil {
			return err
		}
		return s.ledger.PostCashEntry(txCtx, &model.CashTransaction{
			Type:        model.CashOut,
			Amount:      amount,
			Source:      model.CashSourceSupplierPayment,
			ReferenceID: &order.ID,
			Description: fmt.Sprintf("Payment on purchase %s", order.ID),
			CreatedBy:   userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Restock receives new stock for a single product straight from its product
// page. When the product has a distributor, a single-line purchase order is
// created already received, with the same ledger postings as the standard
// path; otherwise only the stock and valuation change.
func (s *purchaseService) Restock(ctx context.Context, productID uuid.UUID, req RestockRequest, userID uuid.UUID) (*model.Product, error) {
	if req.Quantity <= 0 {
		return nil, errors.New("restock quantity must be positive")
	}
	unitCost := req.UnitCost.Round(2)
	if !unitCost.IsPositive() {
		return nil, errors.New("unit cost must be positive")
	}
	amountPaid := req.AmountPaid.Round(2)
	if amountPaid.IsNegative() {
		return nil, errors.New("amount paid cannot be negative")
	}
	totalCost := unitCost.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2)

	var product *model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		product, err = s.productRepo.FindByIDForUpdate(txCtx, productID)
		if err != nil {
			return fmt.Errorf("product not found: %w", err)
		}

		var order *model.PurchaseOrder
		movementType := model.MovementRestock
		var referenceID *uuid.UUID
		if product.DistributorID != nil {
			order = &model.PurchaseOrder{
				DistributorID: *product.DistributorID,
				CreatedBy:     userID,
				Status:        model.PurchaseStatusPending,
				TotalAmount:   totalCost,
				Notes:         fmt.Sprintf("Restock of %s", product.Name),
			}
			if err := s.orderRepo.Create(txCtx, order); err != nil {
				return fmt.Errorf("failed to create restock order: %w", err)
			}
			if err := s.orderRepo.CreateItem(txCtx, &model.PurchaseOrderItem{
				PurchaseOrderID: order.ID,
				ProductID:       product.ID,
				Quantity:        req.Quantity,
				UnitCost:        unitCost,
				TotalCost:       totalCost,
			}); err != nil {
				return fmt.Errorf("failed to create restock order item: %w", err)
			}
			referenceID = &order.ID
		}

		if err := s.receiveStock(txCtx, product, req.Quantity, unitCost, totalCost,
			movementType, referenceID, userID); err != nil {
			return err
		}
		if req.SellingPrice != nil && req.SellingPrice.IsPositive() {
			product.SellingPrice = req.SellingPrice.Round(2)
		}
		if err := s.productRepo.Update(txCtx, product); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}

		if order != nil {
			if err := s.ledger.PostSupplierEntry(txCtx, &model.SupplierTransaction{
				DistributorID:   order.DistributorID,
				PurchaseOrderID: &order.ID,
				Type:            model.TxTypePayable,
				Amount:          totalCost,
				Reference:       fmt.Sprintf("Purchase %s", order.ID),
				CreatedBy:       userID,
			}); err != nil {
				return err
			}

			if amountPaid.IsPositive() {
				if err := s.ledger.PostSupplierEntry(txCtx, &model.SupplierTransaction{
					DistributorID:   order.DistributorID,
					PurchaseOrderID: &order.ID,
					Type:            model.TxTypePayment,
					Amount:          amountPaid,
					Reference:       fmt.Sprintf("Payment on purchase %s", order.ID),
					CreatedBy:       userID,
				}); err != nil {
					return err
				}
				if err := s.ledger.PostCashEntry(txCtx, &model.CashTransaction{
					Type:        model.CashOut,
					Amount:      amountPaid,
					Source:      model.CashSourceSupplierPayment,
					ReferenceID: &order.ID,
					Description: fmt.Sprintf("Payment on purchase %s", order.ID),
					CreatedBy:   userID,
				}); err != nil {
					return err
				}
			}

			now := time.Now()
			order.Status = model.PurchaseStatusReceived
			order.ReceivedAt = &now
			order.AmountPaid = amountPaid
			order.PaymentStatus = derivePaymentStatus(amountPaid, totalCost)
			if err := s.orderRepo.Save(txCtx, order); err != nil {
				return fmt.Errorf("failed to mark restock order received: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyStockChange(product)
	}
	return product, nil
}

func (s *purchaseService) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	return s.orderRepo.FindByIDWithItems(ctx, id)
}

func (s *purchaseService) List(ctx context.Context, page, limit int) ([]model.PurchaseOrder, int64, error) {
	return s.orderRepo.List(ctx, page, limit)
}

// receiveStock folds a received batch into the product under an already-held
// row lock: weighted-average cost, quantity, and the audit movement. The
// caller persists the product so several lines can accumulate first.
//
//	wac = (qty_before * cost_before + batch_total_cost) / (qty_before + qty)
//
// falling back to the batch unit cost when the resulting quantity is zero.
func (s *purchaseService) receiveStock(
	ctx context.Context,
	product *model.Product,
	quantity int,
	unitCost, totalCost decimal.Decimal,
	movementType string,
	referenceID *uuid.UUID,
	userID uuid.UUID,
) error {
	qtyBefore := product.StockQuantity
	qtyAfter := qtyBefore + quantity

	if qtyAfter == 0 {
		product.CostPrice = unitCost
	} else {
		existingValue := product.CostPrice.Mul(decimal.NewFromInt(int64(qtyBefore)))
		product.CostPrice = existingValue.Add(totalCost).
			Div(decimal.NewFromInt(int64(qtyAfter))).Round(2)
	}
	product.StockQuantity = qtyAfter

	if err := s.movementRepo.Create(ctx, &model.StockMovement{
		ProductID:      product.ID,
		QuantityChange: quantity,
		QuantityBefore: qtyBefore,
		QuantityAfter:  qtyAfter,
		ReferenceType:  movementType,
		ReferenceID:    referenceID,
		UserID:         userID,
	}); err != nil {
		return fmt.Errorf("failed to record stock movement: %w", err)
	}
	return nil
}

func (s *purchaseService) lockOrderProducts(ctx context.Context, items []model.PurchaseOrderItem) (map[uuid.UUID]*model.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})

	products := make(map[uuid.UUID]*model.Product, len(ids))
	for _, id := range ids {
		product, err := s.productRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", id, err)
		}
		products[id] = product
	}
	return products, nil
}

// derivePaymentStatus maps amount paid against the total onto the purchase
// payment vocabulary.
func derivePaymentStatus(paid, total decimal.Decimal) string {
	switch {
	case !paid.IsPositive():
		return model.PaymentStatusPending
	case paid.GreaterThanOrEqual(total):
		return model.PaymentStatusPaid
	default:
		return model.PaymentStatusPartial
	}
}
