package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a spare part in the catalog. StockQuantity and
// CostPrice are mutated only through stock-movement events (sales approval,
// purchase receipt, restock, manual adjustment).
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU           string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name          string          `gorm:"type:varchar(255);not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	StockQuantity int             `gorm:"type:int;default:0;not null" json:"stock_quantity"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"cost_price"` // weighted average
	SellingPrice  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"selling_price"`
	DistributorID *uuid.UUID      `gorm:"type:uuid;index" json:"distributor_id"`
	Distributor   *Distributor    `gorm:"foreignKey:DistributorID" json:"distributor,omitempty"`
	VehicleType   string          `gorm:"type:varchar(100)" json:"vehicle_type"`
	VehicleModel  string          `gorm:"type:varchar(100)" json:"vehicle_model"`
	PartNumber    string          `gorm:"type:varchar(100)" json:"part_number"`
	MinStockLevel int             `gorm:"type:int;default:5" json:"min_stock_level"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// StockMovement reference types
const (
	MovementSale             = "sale"
	MovementPurchaseReceipt  = "purchase_receipt"
	MovementManualAdjustment = "manual_adjustment"
	MovementRestock          = "restock"
)

// StockMovement is the append-only audit trail of every quantity change.
// QuantityBefore/After snapshot the product row at insertion time so drift
// can be detected later; rows are never updated or deleted.
type StockMovement struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Product        *Product   `gorm:"foreignKey:ProductID" json:"-"`
	QuantityChange int        `gorm:"type:int;not null" json:"quantity_change"` // positive adds, negative removes
	QuantityBefore int        `gorm:"type:int;not null" json:"quantity_before"`
	QuantityAfter  int        `gorm:"type:int;not null" json:"quantity_after"`
	ReferenceType  string     `gorm:"type:varchar(50);not null;index" json:"reference_type"`
	ReferenceID    *uuid.UUID `gorm:"type:uuid;index" json:"reference_id"` // causing order / purchase order
	UserID         uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}
