package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer ledger entry kinds: receivable increases customer debt, payment
// decreases it. Supplier entries mirror this with payable/payment.
const (
	TxTypeReceivable = "receivable"
	TxTypePayable    = "payable"
	TxTypePayment    = "payment"
)

// Cash book entry kinds and sources.
const (
	CashIn  = "in"
	CashOut = "out"

	CashSourceSales           = "sales"
	CashSourceCustomerPayment = "customer_payment"
	CashSourceSupplierPayment = "supplier_payment"
	CashSourceExpense         = "expense"
	CashSourceManual          = "manual"
)

// CustomerTransaction is one row of the accounts-receivable ledger.
// Append-only; corrections are new offsetting entries, never edits.
type CustomerTransaction struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer      *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	OrderID       *uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	Type          string     `gorm:"column:transaction_type;type:varchar(20);not null;index" json:"transaction_type"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"` // always positive
	PaymentMethod string     `gorm:"type:varchar(50)" json:"payment_method"`
	Reference     string     `gorm:"type:varchar(200)" json:"reference"`
	Notes         string     `gorm:"type:text" json:"notes"`
	CreatedBy     uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
}

// SupplierTransaction is one row of the accounts-payable ledger.
type SupplierTransaction struct {
	ID              uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DistributorID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"distributor_id"`
	Distributor     *Distributor `gorm:"foreignKey:DistributorID" json:"distributor,omitempty"`
	PurchaseOrderID *uuid.UUID   `gorm:"type:uuid;index" json:"purchase_order_id"`
	Type            string       `gorm:"column:transaction_type;type:varchar(20);not null;index" json:"transaction_type"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod   string       `gorm:"type:varchar(50)" json:"payment_method"`
	Reference       string       `gorm:"type:varchar(200)" json:"reference"`
	Notes           string       `gorm:"type:text" json:"notes"`
	CreatedBy       uuid.UUID    `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt       time.Time    `gorm:"index" json:"created_at"`
}

// CashTransaction is one row of the cash book. The running balance is a
// prefix sum over entries ordered by creation time.
type CashTransaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type        string          `gorm:"column:transaction_type;type:varchar(20);not null;index" json:"transaction_type"` // in, out
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Source      string          `gorm:"type:varchar(100);not null;index" json:"source"`
	ReferenceID *uuid.UUID      `gorm:"type:uuid" json:"reference_id"` // related order, PO or expense
	Description string          `gorm:"type:text" json:"description"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}
