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

var (
	ErrOrderNotDraft    = errors.New("only draft orders can be approved")
	ErrOrderNotApproved = errors.New("order must be approved before taking payments")
)

// StockNotifier receives stock-change events after they have committed.
type StockNotifier interface {
	NotifyStockChange(product *model.Product)
}

// StockShortage describes one line that asked for more than is on hand.
type StockShortage struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Requested   int       `json:"requested"`
	Available   int       `json:"available"`
}

// InsufficientStockError lists every shortage so the caller can fix the whole
// order in one round trip.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	msg := "insufficient stock:"
	for _, s := range e.Shortages {
		msg += fmt.Sprintf(" %s (requested %d, available %d);", s.ProductName, s.Requested, s.Available)
	}
	return msg
}

type SalesOrderLineInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

type CreateSalesOrderRequest struct {
	CustomerID    *uuid.UUID            `json:"customer_id"`
	CustomerName  string                `json:"customer_name"`
	CustomerPhone string                `json:"customer_phone"`
	OrderType     string                `json:"order_type"`
	AmountPaid    decimal.Decimal       `json:"amount_paid"`
	DueDate       *time.Time            `json:"due_date"`
	Items         []SalesOrderLineInput `json:"items" binding:"required,min=1,dive"`
}

type ApproveLineInput struct {
	ItemID uuid.UUID       `json:"item_id" binding:"required"`
	Price  decimal.Decimal `json:"price" binding:"required"`
}

type ApproveSalesOrderRequest struct {
	Items []ApproveLineInput `json:"items" binding:"required,min=1,dive"`
}

type OrderPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

type SalesService interface {
	CreateDraft(ctx context.Context, req CreateSalesOrderRequest, userID uuid.UUID, userRole string) (*model.SalesOrder, error)
	Approve(ctx context.Context, orderID uuid.UUID, req ApproveSalesOrderRequest, userID uuid.UUID) (*model.SalesOrder, error)
	AddPayment(ctx context.Context, orderID uuid.UUID, req OrderPaymentRequest, userID uuid.UUID) (*model.SalesOrder, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error)
	List(ctx context.Context, page, limit int) ([]model.SalesOrder, int64, error)
}

type salesService struct {
	txManager    repository.TransactionManager
	orderRepo    repository.SalesOrderRepository
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	customerRepo repository.CustomerRepository
	ledger       LedgerService
	notifier     StockNotifier
}

func NewSalesService(
	txManager repository.TransactionManager,
	orderRepo repository.SalesOrderRepository,
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	customerRepo repository.CustomerRepository,
	ledger LedgerService,
	notifier StockNotifier,
) SalesService {
	return &salesService{
		txManager:    txManager,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		movementRepo: movementRepo,
		customerRepo: customerRepo,
		ledger:       ledger,
		notifier:     notifier,
	}
}

// CreateDraft records the order without touching stock. Stock sufficiency is
// checked here only to fail fast with an itemized error; two drafts can still
// be created against the same unit of stock, and only approval enforces the
// real check under row locks.
func (s *salesService) CreateDraft(ctx context.Context, req CreateSalesOrderRequest, userID uuid.UUID, userRole string) (*model.SalesOrder, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("order must have at least one item")
	}

	orderType := req.OrderType
	if orderType == "" {
		orderType = model.OrderTypeSale
	}
	if orderType != model.OrderTypeSale && orderType != model.OrderTypeCreditSale {
		return nil, fmt.Errorf("invalid order type: %s", orderType)
	}

	// Only admins may pre-record a payment on a draft
	amountPaid := decimal.Zero
	if userRole == model.RoleAdmin && req.AmountPaid.IsPositive() {
		amountPaid = req.AmountPaid.Round(2)
	}

	dueDate := req.DueDate
	if orderType == model.OrderTypeCreditSale && dueDate == nil && amountPaid.IsZero() {
		d := time.Now().AddDate(0, 0, 30)
		dueDate = &d
	}

	var order *model.SalesOrder
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if req.CustomerID != nil {
			if _, err := s.customerRepo.FindByID(txCtx, *req.CustomerID); err != nil {
				return fmt.Errorf("customer not found: %w", err)
			}
		}

		var shortages []StockShortage
		products := make(map[uuid.UUID]*model.Product, len(req.Items))
		for _, line := range req.Items {
			if line.Quantity <= 0 {
				return fmt.Errorf("quantity must be positive for product %s", line.ProductID)
			}
			product, err := s.productRepo.FindByID(txCtx, line.ProductID)
			if err != nil {
				return fmt.Errorf("product %s not found: %w", line.ProductID, err)
			}
			if !product.IsActive {
				return fmt.Errorf("product %s is inactive", product.Name)
			}
			if product.StockQuantity < line.Quantity {
				shortages = append(shortages, StockShortage{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   line.Quantity,
					Available:   product.StockQuantity,
				})
			}
			products[line.ProductID] = product
		}
		if len(shortages) > 0 {
			return &InsufficientStockError{Shortages: shortages}
		}

		order = &model.SalesOrder{
			CreatedBy:     userID,
			CustomerID:    req.CustomerID,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Status:        model.SalesStatusDraft,
			OrderType:     orderType,
			AmountPaid:    amountPaid,
			DueDate:       dueDate,
		}
		if err := s.orderRepo.Create(txCtx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, line := range req.Items {
			item := &model.SalesOrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			}
			if err := s.orderRepo.CreateItem(txCtx, item); err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
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

// Approve prices the lines, deducts stock under row locks and posts the
// ledger entries. All effects commit together or not at all; re-approving an
// approved order fails without side effects.
func (s *salesService) Approve(ctx context.Context, orderID uuid.UUID, req ApproveSalesOrderRequest, userID uuid.UUID) (*model.SalesOrder, error) {
	prices := make(map[uuid.UUID]decimal.Decimal, len(req.Items))
	for _, line := range req.Items {
		if !line.Price.IsPositive() {
			return nil, fmt.Errorf("price must be positive for item %s", line.ItemID)
		}
		prices[line.ItemID] = line.Price.Round(2)
	}

	var order *model.SalesOrder
	var touched []*model.Product
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDWithItems(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("order not found: %w", err)
		}
		if order.Status != model.SalesStatusDraft {
			return ErrOrderNotDraft
		}
		if len(order.Items) == 0 {
			return errors.New("order has no items")
		}
		for _, item := range order.Items {
			if _, ok := prices[item.ID]; !ok {
				return fmt.Errorf("missing price for item %s", item.ID)
			}
		}

		products, err := s.lockProducts(txCtx, order.Items)
		if err != nil {
			return err
		}

		// Sufficiency is judged per product over all its lines combined
		required := make(map[uuid.UUID]int, len(products))
		for _, item := range order.Items {
			required[item.ProductID] += item.Quantity
		}
		var shortages []StockShortage
		for id, need := range required {
			product := products[id]
			if product.StockQuantity < need {
				shortages = append(shortages, StockShortage{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   need,
					Available:   product.StockQuantity,
				})
			}
		}
		if len(shortages) > 0 {
			sort.Slice(shortages, func(i, j int) bool {
				return shortages[i].ProductName < shortages[j].ProductName
			})
			return &InsufficientStockError{Shortages: shortages}
		}

		totalAmount := decimal.Zero
		totalProfit := decimal.Zero
		for i := range order.Items {
			item := &order.Items[i]
			product := products[item.ProductID]
			price := prices[item.ID]
			qty := decimal.NewFromInt(int64(item.Quantity))

			totalAmount = totalAmount.Add(price.Mul(qty))
			totalProfit = totalProfit.Add(price.Sub(product.CostPrice).Mul(qty))

			item.Price = &price
			if err := s.orderRepo.SaveItem(txCtx, item); err != nil {
				return fmt.Errorf("failed to price order item: %w", err)
			}

			before := product.StockQuantity
			product.StockQuantity -= item.Quantity
			if err := s.movementRepo.Create(txCtx, &model.StockMovement{
				ProductID:      product.ID,
				QuantityChange: -item.Quantity,
				QuantityBefore: before,
				QuantityAfter:  product.StockQuantity,
				ReferenceType:  model.MovementSale,
				ReferenceID:    &order.ID,
				UserID:         userID,
			}); err != nil {
				return fmt.Errorf("failed to record stock movement: %w", err)
			}
		}

		// Movements above snapshot intermediate quantities per line; the
		// product row itself is written once with the final quantity.
		for _, product := range products {
			if err := s.productRepo.Update(txCtx, product); err != nil {
				return fmt.Errorf("failed to update product stock: %w", err)
			}
			touched = append(touched, product)
		}

		totalAmount = totalAmount.Round(2)
		if order.AmountPaid.GreaterThan(totalAmount) {
			return errors.New("amount paid exceeds order total")
		}

		order.Status = model.SalesStatusApproved
		order.ApprovedBy = &userID
		order.TotalAmount = totalAmount
		order.TotalProfit = totalProfit.Round(2)
		if err := s.orderRepo.Save(txCtx, order); err != nil {
			return fmt.Errorf("failed to approve order: %w", err)
		}

		if order.CustomerID != nil {
			if err := s.ledger.PostCustomerEntry(txCtx, &model.CustomerTransaction{
				CustomerID: *order.CustomerID,
				OrderID:    &order.ID,
				Type:       model.TxTypeReceivable,
				Amount:     order.TotalAmount,
				Reference:  fmt.Sprintf("Sale %s", order.ID),
				CreatedBy:  userID,
			}); err != nil {
				return err
			}
		}

		if order.AmountPaid.IsPositive() {
			if order.CustomerID != nil {
				if err := s.ledger.PostCustomerEntry(txCtx, &model.CustomerTransaction{
					CustomerID: *order.CustomerID,
					OrderID:    &order.ID,
					Type:       model.TxTypePayment,
					Amount:     order.AmountPaid,
					Reference:  fmt.Sprintf("Payment on sale %s", order.ID),
					CreatedBy:  userID,
				}); err != nil {
					return err
				}
			}
			if err := s.ledger.PostCashEntry(txCtx, &model.CashTransaction{
				Type:        model.CashIn,
				Amount:      order.AmountPaid,
				Source:      model.CashSourceSales,
				ReferenceID: &order.ID,
				Description: fmt.Sprintf("Payment on sale %s", order.ID),
				CreatedBy:   userID,
			}); err != nil {
				return err
			}
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

// AddPayment records a payment against one approved order. The amount is
// bounded by what the order still owes.
func (s *salesService) AddPayment(ctx context.Context, orderID uuid.UUID, req OrderPaymentRequest, userID uuid.UUID) (*model.SalesOrder, error) {
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, errors.New("payment amount must be greater than zero")
	}

	var order *model.SalesOrder
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDWithItems(txCtx, orderID)
		if err != nil {
			return fmt.Errorf("order not found: %w", err)
		}
		if order.Status != model.SalesStatusApproved {
			return ErrOrderNotApproved
		}
		if amount.GreaterThan(order.RemainingAmount()) {
			return fmt.Errorf("payment %s exceeds remaining amount %s", amount, order.RemainingAmount())
		}

		order.AmountPaid = order.AmountPaid.Add(amount)
		if err := s.orderRepo.Save(txCtx, order); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		if order.CustomerID != nil {
			if err := s.ledger.PostCustomerEntry(txCtx, &model.CustomerTransaction{
				CustomerID:    *order.CustomerID,
				OrderID:       &order.ID,
				Type:          model.TxTypePayment,
				Amount:        amount,
				PaymentMethod: req.PaymentMethod,
				Reference:     fmt.Sprintf("Payment on sale %s", order.ID),
				Notes:         req.Notes,
				CreatedBy:     userID,
			}); err != nil {
				return err
			}
		}
		return s.ledger.PostCashEntry(txCtx, &model.CashTransaction{
			Type:        model.CashIn,
			Amount:      amount,
			Source:      model.CashSourceSales,
			ReferenceID: &order.ID,
			Description: fmt.Sprintf("Payment on sale %s", order.ID),
			CreatedBy:   userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *salesService) GetByID(ctx context.Context, id uuid.UUID) (*model.SalesOrder, error) {
	return s.orderRepo.FindByIDWithItems(ctx, id)
}

func (s *salesService) List(ctx context.Context, page, limit int) ([]model.SalesOrder, int64, error) {
	return s.orderRepo.List(ctx, page, limit)
}

// lockProducts acquires exclusive row locks on every distinct product an
// order touches, in ascending id order so concurrent multi-product
// operations cannot deadlock.
func (s *salesService) lockProducts(ctx context.Context, items []model.SalesOrderItem) (map[uuid.UUID]*model.Product, error) {
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
