package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Distributor is a supplier we buy from. Balance mirrors the payable ledger
// (payables minus payments) and is maintained incrementally alongside it.
type Distributor struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string          `gorm:"type:varchar(200);not null" json:"name"`
	ContactPerson string          `gorm:"type:varchar(200)" json:"contact_person"`
	Phone         string          `gorm:"type:varchar(20)" json:"phone"`
	Email         string          `gorm:"type:varchar(200)" json:"email"`
	Address       string          `gorm:"type:text" json:"address"`
	PaymentTerms  int             `gorm:"type:int;default:30" json:"payment_terms"` // days
	Balance       decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
