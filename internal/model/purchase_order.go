package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder status constants. Cancelled is reserved vocabulary with no
// implemented transition.
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusReceived  = "received"
	PurchaseStatusCancelled = "cancelled"
)

// Purchase payment status, derived from AmountPaid vs TotalAmount.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

// PurchaseOrder is an order placed with a distributor. Stock and valuation
// effects happen exactly once, at the pending→received transition.
type PurchaseOrder struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DistributorID uuid.UUID           `gorm:"type:uuid;not null;index" json:"distributor_id"`
	Distributor   *Distributor        `gorm:"foreignKey:DistributorID" json:"distributor,omitempty"`
	CreatedBy     uuid.UUID           `gorm:"type:uuid;not null" json:"created_by"`
	Status        string              `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(12,2);default:0" json:"total_amount"`
	AmountPaid    decimal.Decimal     `gorm:"type:decimal(12,2);default:0" json:"amount_paid"`
	PaymentStatus string              `gorm:"type:varchar(20);default:'pending';index" json:"payment_status"`
	InvoiceNumber string              `gorm:"type:varchar(100)" json:"invoice_number"`
	Notes         string              `gorm:"type:text" json:"notes"`
	Items         []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	ReceivedAt    *time.Time          `json:"received_at"`
}

// RemainingAmount is what we still owe the distributor on this order.
func (po *PurchaseOrder) RemainingAmount() decimal.Decimal {
	return po.TotalAmount.Sub(po.AmountPaid)
}

// PurchaseOrderItem is a line on a purchase order.
type PurchaseOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index" json:"purchase_order_id"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product         *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity        int             `gorm:"type:int;not null" json:"quantity"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_cost"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_cost"`
}
