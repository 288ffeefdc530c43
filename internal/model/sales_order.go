package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesOrder status constants. Cancelled exists in the vocabulary for
// forward compatibility; no transition currently produces it.
const (
	SalesStatusDraft     = "draft"
	SalesStatusApproved  = "approved"
	SalesStatusCancelled = "cancelled"
)

// Sales order types
const (
	OrderTypeSale       = "sale"
	OrderTypeCreditSale = "credit_sale"
)

// SalesOrder is a customer order. It is created as a draft with unpriced
// items; approval prices the items, deducts stock and freezes the order.
type SalesOrder struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CreatedBy     uuid.UUID        `gorm:"type:uuid;not null" json:"created_by"`
	ApprovedBy    *uuid.UUID       `gorm:"type:uuid" json:"approved_by"`
	CustomerID    *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id"` // nil for walk-in sales
	Customer      *Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CustomerName  string           `gorm:"type:varchar(200)" json:"customer_name"` // walk-in fallback
	CustomerPhone string           `gorm:"type:varchar(20)" json:"customer_phone"`
	Status        string           `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	OrderType     string           `gorm:"type:varchar(20);default:'sale'" json:"order_type"`
	TotalAmount   decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"total_amount"`
	TotalProfit   decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"total_profit"`
	AmountPaid    decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"amount_paid"`
	DueDate       *time.Time       `json:"due_date"`
	Items         []SalesOrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// RemainingAmount is what the customer still owes on this order.
func (o *SalesOrder) RemainingAmount() decimal.Decimal {
	return o.TotalAmount.Sub(o.AmountPaid)
}

// SalesOrderItem is a line on a sales order. Price stays nil while the order
// is a draft and is filled in at approval time.
type SalesOrderItem struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int              `gorm:"type:int;not null" json:"quantity"`
	Price     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
}
