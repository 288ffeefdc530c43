package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a registered buyer with a receivable ledger. Balance is the
// incremental aggregate of that ledger (receivables minus payments) and is
// updated in the same transaction as every ledger append; the summed form
// remains available from the ledger as a consistency check.
type Customer struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Phone       string          `gorm:"type:varchar(20)" json:"phone"`
	Address     string          `gorm:"type:text" json:"address"`
	CreditLimit decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"credit_limit"`
	Balance     decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"balance"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
