package service

import (
	"context"
	"errors"
	"fmt"

	"partspos/internal/model"
	"partspos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CustomerRequest struct {
	Name        string          `json:"name" binding:"required"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

type AccountPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

// AccountPaymentResult reports how a payment spread across the customer's
// open orders.
type AccountPaymentResult struct {
	AmountApplied decimal.Decimal     `json:"amount_applied"`
	Unallocated   decimal.Decimal     `json:"unallocated"`
	Orders        []OrderAllocation   `json:"orders"`
}

type OrderAllocation struct {
	OrderID   uuid.UUID       `json:"order_id"`
	Applied   decimal.Decimal `json:"applied"`
	Remaining decimal.Decimal `json:"remaining"`
}

type CustomerService interface {
	Create(ctx context.Context, req CustomerRequest) (*model.Customer, error)
	Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*model.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	List(ctx context.Context, page, limit int) ([]model.Customer, int64, error)
	ListOrders(ctx context.Context, id uuid.UUID) ([]model.SalesOrder, error)
	ListTransactions(ctx context.Context, id uuid.UUID, limit int) ([]model.CustomerTransaction, error)
	ApplyAccountPayment(ctx context.Context, customerID uuid.UUID, req AccountPaymentRequest, userID uuid.UUID) (*AccountPaymentResult, error)
}

type customerService struct {
	txManager    repository.TransactionManager
	customerRepo repository.CustomerRepository
	orderRepo    repository.SalesOrderRepository
	ledgerRepo   repository.LedgerRepository
	ledger       LedgerService
}

func NewCustomerService(
	txManager repository.TransactionManager,
	customerRepo repository.CustomerRepository,
	orderRepo repository.SalesOrderRepository,
	ledgerRepo repository.LedgerRepository,
	ledger LedgerService,
) CustomerService {
	return &customerService{
		txManager:    txManager,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		ledgerRepo:   ledgerRepo,
		ledger:       ledger,
	}
}

func (s *customerService) Create(ctx context.Context, req CustomerRequest) (*model.Customer, error) {
	customer := &model.Customer{
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		CreditLimit: req.CreditLimit.Round(2),
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req CustomerRequest) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer not found: %w", err)
	}
	customer.Name = req.Name
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.CreditLimit = req.CreditLimit.Round(2)
	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	return s.customerRepo.FindByID(ctx, id)
}

func (s *customerService) List(ctx context.Context, page, limit int) ([]model.Customer, int64, error) {
	return s.customerRepo.List(ctx, page, limit)
}

func (s *customerService) ListOrders(ctx context.Context, id uuid.UUID) ([]model.SalesOrder, error) {
	return s.orderRepo.ListByCustomer(ctx, id)
}

func (s *customerService) ListTransactions(ctx context.Context, id uuid.UUID, limit int) ([]model.CustomerTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.ledgerRepo.ListCustomerTx(ctx, id, limit)
}

// ApplyAccountPayment takes one payment against the customer's account and
// consumes it oldest debt first. Exactly one ledger payment entry and one
// cash-in entry are posted for the gross amount; the per-order spread is
// bookkeeping on amount_paid only. A leftover beyond all open orders stays
// unallocated and is reported back, not held as credit.
func (s *customerService) ApplyAccountPayment(ctx context.Context, customerID uuid.UUID, req AccountPaymentRequest, userID uuid.UUID) (*AccountPaymentResult, error) {
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, errors.New("payment amount must be greater than zero")
	}

	result := &AccountPaymentResult{AmountApplied: amount}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.customerRepo.FindByID(txCtx, customerID); err != nil {
			return fmt.Errorf("customer not found: %w", err)
		}

		orders, err := s.orderRepo.ListUnpaidByCustomer(txCtx, customerID)
		if err != nil {
			return err
		}

		remaining := amount
		for i := range orders {
			if !remaining.IsPositive() {
				break
			}
			order := &orders[i]
			due := order.RemainingAmount()
			applied := due
			if remaining.LessThan(due) {
				applied = remaining
			}
			order.AmountPaid = order.AmountPaid.Add(applied)
			remaining = remaining.Sub(applied)
			if err := s.orderRepo.Save(txCtx, order); err != nil {
				return fmt.Errorf("failed to update order: %w", err)
			}
			result.Orders = append(result.Orders, OrderAllocation{
				OrderID:   order.ID,
				Applied:   applied,
				Remaining: order.RemainingAmount(),
			})
		}
		result.Unallocated = remaining

		if err := s.ledger.PostCustomerEntry(txCtx, &model.CustomerTransaction{
			CustomerID:    customerID,
			Type:          model.TxTypePayment,
			Amount:        amount,
			PaymentMethod: req.PaymentMethod,
			Reference:     "Account payment",
			Notes:         req.Notes,
			CreatedBy:     userID,
		}); err != nil {
			return err
		}
		return s.ledger.PostCashEntry(txCtx, &model.CashTransaction{
			Type:        model.CashIn,
			Amount:      amount,
			Source:      model.CashSourceCustomerPayment,
			ReferenceID: &customerID,
			Description: "Customer account payment",
			CreatedBy:   userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
