package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"partspos/internal/model"
	"partspos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseRequest struct {
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
	ExpenseDate *time.Time      `json:"expense_date"`
}

type ExpenseService interface {
	Create(ctx context.Context, req ExpenseRequest, userID uuid.UUID) (*model.Expense, error)
	Update(ctx context.Context, id uuid.UUID, req ExpenseRequest, userID uuid.UUID) (*model.Expense, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Expense, error)
	List(ctx context.Context, page, limit int) ([]model.Expense, int64, error)
}

type expenseService struct {
	txManager   repository.TransactionManager
	expenseRepo repository.ExpenseRepository
	ledger      LedgerService
}

func NewExpenseService(
	txManager repository.TransactionManager,
	expenseRepo repository.ExpenseRepository,
	ledger LedgerService,
) ExpenseService {
	return &expenseService{
		txManager:   txManager,
		expenseRepo: expenseRepo,
		ledger:      ledger,
	}
}

func (s *expenseService) Create(ctx context.Context, req ExpenseRequest, userID uuid.UUID) (*model.Expense, error) {
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, errors.New("expense amount must be greater than zero")
	}

	expenseDate := time.Now()
	if req.ExpenseDate != nil {
		expenseDate = *req.ExpenseDate
	}

	var expense *model.Expense
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		expense = &model.Expense{
			Category:    req.Category,
			Amount:      amount,
			Description: req.Description,
			ExpenseDate: expenseDate,
			CreatedBy:   userID,
		}
		if err := s.expenseRepo.Create(txCtx, expense); err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
		return s.ledger.PostCashEntry(txCtx, &model.CashTransaction{
			Type:        model.CashOut,
			Amount:      amount,
			Source:      model.CashSourceExpense,
			ReferenceID: &expense.ID,
			Description: fmt.Sprintf("%s: %s", req.Category, req.Description),
			CreatedBy:   userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

// Update edits the expense row but corrects the cash book with a delta entry
// instead of rewriting it. Raising the amount posts an extra cash-out for the
// difference; lowering it posts a cash-in refund entry.
func (s *expenseService) Update(ctx context.Context, id uuid.UUID, req ExpenseRequest, userID uuid.UUID) (*model.Expense, error) {
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, errors.New("expense amount must be greater than zero")
	}

	var expense *model.Expense
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		expense, err = s.expenseRepo.FindByID(txCtx, id)
		if err != nil {
			return fmt.Errorf("expense not found: %w", err)
		}

		delta := amount.Sub(expense.Amount)

		expense.Category = req.Category
		expense.Amount = amount
		expense.Description = req.Description
		if req.ExpenseDate != nil {
			expense.ExpenseDate = *req.ExpenseDate
		}
		if err := s.expenseRepo.Update(txCtx, expense); err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}

		if delta.IsZero() {
			return nil
		}
		entryType := model.CashOut
		if delta.IsNegative() {
			entryType = model.CashIn
			delta = delta.Neg()
		}
		return s.ledger.PostCashEntry(txCtx, &model.CashTransaction{
			Type:        entryType,
			Amount:      delta,
			Source:      model.CashSourceExpense,
			ReferenceID: &expense.ID,
			Description: fmt.Sprintf("Adjustment for %s expense", expense.Category),
			CreatedBy:   userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) GetByID(ctx context.Context, id uuid.UUID) (*model.Expense, error) {
	return s.expenseRepo.FindByID(ctx, id)
}

func (s *expenseService) List(ctx context.Context, page, limit int) ([]model.Expense, int64, error) {
	return s.expenseRepo.List(ctx, page, limit)
}
