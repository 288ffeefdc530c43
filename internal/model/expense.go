package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense tracks overhead costs like salaries and bills. Expenses are never
// hard deleted: editing the amount posts a cash-book delta entry so the cash
// log stays append-only.
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string          `gorm:"type:text" json:"description"`
	ExpenseDate time.Time       `gorm:"index" json:"expense_date"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
