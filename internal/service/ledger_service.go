package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"partspos/internal/model"
	"partspos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnifiedLedgerResult is the combined customer+supplier ledger view with a
// running balance and overall outstanding totals.
type UnifiedLedgerResult struct {
	Transactions     []model.LedgerLine `json:"transactions"`
	TotalReceivables decimal.Decimal    `json:"total_receivables"`
	TotalPayables    decimal.Decimal    `json:"total_payables"`
}

// LedgerService owns the three append-only logs. Posting only checks that
// the amount is positive and the entry type is known; callers have already
// validated their business rules. Each post also maintains the party's
// incremental balance in the same transaction, and the summed balance stays
// available as a consistency check.
type LedgerService interface {
	PostCustomerEntry(ctx context.Context, entry *model.CustomerTransaction) error
	PostSupplierEntry(ctx context.Context, entry *model.SupplierTransaction) error
	PostCashEntry(ctx context.Context, entry *model.CashTransaction) error

	DerivedReceivableBalance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
	DerivedPayableBalance(ctx context.Context, distributorID uuid.UUID) (decimal.Decimal, error)

	CashBook(ctx context.Context, txType string, startDate, endDate time.Time) ([]model.CashBookLine, error)
	UnifiedLedger(ctx context.Context, ledgerType string, startDate, endDate time.Time) (UnifiedLedgerResult, error)
}

type ledgerService struct {
	ledgerRepo      repository.LedgerRepository
	customerRepo    repository.CustomerRepository
	distributorRepo repository.DistributorRepository
}

func NewLedgerService(
	ledgerRepo repository.LedgerRepository,
	customerRepo repository.CustomerRepository,
	distributorRepo repository.DistributorRepository,
) LedgerService {
	return &ledgerService{
		ledgerRepo:      ledgerRepo,
		customerRepo:    customerRepo,
		distributorRepo: distributorRepo,
	}
}

func (s *ledgerService) PostCustomerEntry(ctx context.Context, entry *model.CustomerTransaction) error {
	if !entry.Amount.IsPositive() {
		return errors.New("ledger entry amount must be greater than zero")
	}
	if entry.Type != model.TxTypeReceivable && entry.Type != model.TxTypePayment {
		return errors.New("invalid customer ledger entry type")
	}

	if err := s.ledgerRepo.CreateCustomerTx(ctx, entry); err != nil {
		return err
	}

	// Keep the incremental balance in lockstep with the log
	delta := entry.Amount
	if entry.Type == model.TxTypePayment {
		delta = delta.Neg()
	}
	return s.customerRepo.AddToBalance(ctx, entry.CustomerID, delta)
}

func (s *ledgerService) PostSupplierEntry(ctx context.Context, entry *model.SupplierTransaction) error {
	if !entry.Amount.IsPositive() {
		return errors.New("ledger entry amount must be greater than zero")
	}
	if entry.Type != model.TxTypePayable && entry.Type != model.TxTypePayment {
		return errors.New("invalid supplier ledger entry type")
	}

	if err := s.ledgerRepo.CreateSupplierTx(ctx, entry); err != nil {
		return err
	}

	delta := entry.Amount
	if entry.Type == model.TxTypePayment {
		delta = delta.Neg()
	}
	return s.distributorRepo.AddToBalance(ctx, entry.DistributorID, delta)
}

func (s *ledgerService) PostCashEntry(ctx context.Context, entry *model.CashTransaction) error {
	if !entry.Amount.IsPositive() {
		return errors.New("cash entry amount must be greater than zero")
	}
	if entry.Type != model.CashIn && entry.Type != model.CashOut {
		return errors.New("invalid cash entry type")
	}
	return s.ledgerRepo.CreateCashTx(ctx, entry)
}

func (s *ledgerService) DerivedReceivableBalance(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	return s.ledgerRepo.ReceivableBalance(ctx, customerID)
}

func (s *ledgerService) DerivedPayableBalance(ctx context.Context, distributorID uuid.UUID) (decimal.Decimal, error) {
	return s.ledgerRepo.PayableBalance(ctx, distributorID)
}

// CashBook returns the filtered cash log newest first, each line carrying the
// running balance accumulated oldest first.
func (s *ledgerService) CashBook(ctx context.Context, txType string, startDate, endDate time.Time) ([]model.CashBookLine, error) {
	entries, err := s.ledgerRepo.ListCashTx(ctx, repository.LedgerFilter{
		Type:      txType,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return nil, err
	}

	balance := decimal.Zero
	lines := make([]model.CashBookLine, 0, len(entries))
	for _, entry := range entries {
		if entry.Type == model.CashIn {
			balance = balance.Add(entry.Amount)
		} else {
			balance = balance.Sub(entry.Amount)
		}
		lines = append(lines, model.CashBookLine{Entry: entry, RunningBalance: balance})
	}

	// Latest first, keeping each line's accumulated balance
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines, nil
}

func (s *ledgerService) UnifiedLedger(ctx context.Context, ledgerType string, startDate, endDate time.Time) (UnifiedLedgerResult, error) {
	filter := repository.LedgerFilter{StartDate: startDate, EndDate: endDate}

	var lines []model.LedgerLine

	if ledgerType == "" || ledgerType == "all" || ledgerType == "customer" {
		customerTxs, err := s.ledgerRepo.ListAllCustomerTx(ctx, filter)
		if err != nil {
			return UnifiedLedgerResult{}, err
		}
		for _, tx := range customerTxs {
			entity := "Unknown"
			if tx.Customer != nil {
				entity = tx.Customer.Name
			}
			lines = append(lines, model.LedgerLine{
				CreatedAt:       tx.CreatedAt,
				Ledger:          "customer",
				Entity:          entity,
				EntityID:        tx.CustomerID.String(),
				TransactionType: tx.Type,
				Amount:          tx.Amount,
				Reference:       tx.Reference,
				Notes:           tx.Notes,
				PaymentMethod:   tx.PaymentMethod,
			})
		}
	}

	if ledgerType == "" || ledgerType == "all" || ledgerType == "supplier" {
		supplierTxs, err := s.ledgerRepo.ListAllSupplierTx(ctx, filter)
		if err != nil {
			return UnifiedLedgerResult{}, err
		}
		for _, tx := range supplierTxs {
			entity := "Unknown"
			if tx.Distributor != nil {
				entity = tx.Distributor.Name
			}
			lines = append(lines, model.LedgerLine{
				CreatedAt:       tx.CreatedAt,
				Ledger:          "supplier",
				Entity:          entity,
				EntityID:        tx.DistributorID.String(),
				TransactionType: tx.Type,
				Amount:          tx.Amount,
				Reference:       tx.Reference,
				Notes:           tx.Notes,
				PaymentMethod:   tx.PaymentMethod,
			})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].CreatedAt.Before(lines[j].CreatedAt)
	})

	// Running balance: receivables raise what is owed to us, customer payments
	// lower it; payables lower the net position, supplier payments raise it.
	balance := decimal.Zero
	for i := range lines {
		switch {
		case lines[i].TransactionType == model.TxTypeReceivable:
			balance = balance.Add(lines[i].Amount)
		case lines[i].Ledger == "customer" && lines[i].TransactionType == model.TxTypePayment:
			balance = balance.Sub(lines[i].Amount)
		case lines[i].TransactionType == model.TxTypePayable:
			balance = balance.Sub(lines[i].Amount)
		case lines[i].Ledger == "supplier" && lines[i].TransactionType == model.TxTypePayment:
			balance = balance.Add(lines[i].Amount)
		}
		lines[i].RunningBalance = balance
	}

	// Latest first for display
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}

	totalReceivables, err := s.netLedgerTotal(ctx, s.ledgerRepo.SumCustomerTxByType, model.TxTypeReceivable)
	if err != nil {
		return UnifiedLedgerResult{}, err
	}
	totalPayables, err := s.netLedgerTotal(ctx, s.ledgerRepo.SumSupplierTxByType, model.TxTypePayable)
	if err != nil {
		return UnifiedLedgerResult{}, err
	}

	return UnifiedLedgerResult{
		Transactions:     lines,
		TotalReceivables: totalReceivables,
		TotalPayables:    totalPayables,
	}, nil
}

func (s *ledgerService) netLedgerTotal(ctx context.Context, sum func(context.Context, string) (decimal.Decimal, error), debtType string) (decimal.Decimal, error) {
	debt, err := sum(ctx, debtType)
	if err != nil {
		return decimal.Zero, err
	}
	paid, err := sum(ctx, model.TxTypePayment)
	if err != nil {
		return decimal.Zero, err
	}
	net := debt.Sub(paid)
	if net.IsNegative() {
		return decimal.Zero, nil
	}
	return net, nil
}
