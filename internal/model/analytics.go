package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardMetrics aggregates the headline numbers shown on the dashboard,
// optionally scoped to a single month.
type DashboardMetrics struct {
	TotalRevenue     decimal.Decimal      `json:"total_revenue"`
	GrossProfit      decimal.Decimal      `json:"gross_profit"`
	NetProfit        decimal.Decimal      `json:"net_profit"`
	TotalExpenses    decimal.Decimal      `json:"total_expenses"`
	TotalOrders      int64                `json:"total_orders"`
	TotalPurchases   decimal.Decimal      `json:"total_purchases"`
	TotalReceivables decimal.Decimal      `json:"total_receivables"`
	TotalPayables    decimal.Decimal      `json:"total_payables"`
	TopProducts      []ProductRanking     `json:"top_products"`
	TopDistributors  []DistributorRanking `json:"top_distributors"`
	MonthlySales     []decimal.Decimal    `json:"monthly_sales"` // 12 entries, Jan..Dec
}

// ProductRanking ranks products by units sold on approved orders.
type ProductRanking struct {
	ProductName string          `gorm:"column:name" json:"product_name"`
	ProductSKU  string          `gorm:"column:sku" json:"product_sku"`
	TotalSold   int             `gorm:"column:total_sold" json:"total_sold"`
	Revenue     decimal.Decimal `gorm:"column:revenue" json:"revenue"`
	Profit      decimal.Decimal `gorm:"column:profit" json:"profit"`
}

// DistributorRanking ranks distributors by received purchase volume.
type DistributorRanking struct {
	DistributorName string          `gorm:"column:name" json:"distributor_name"`
	PurchaseCount   int             `gorm:"column:purchase_count" json:"purchase_count"`
	TotalPurchases  decimal.Decimal `gorm:"column:total_purchases" json:"total_purchases"`
}

// AgingItem is one open balance bucketed by days outstanding.
type AgingItem struct {
	ID      string          `json:"id"`
	Party   string          `json:"party"`
	Amount  decimal.Decimal `json:"amount"`
	Date    string          `json:"date"`
	DaysDue int             `json:"days_due"`
}

// AgingBuckets groups open balances into the standard aging windows.
type AgingBuckets struct {
	Bucket0To30  []AgingItem `json:"0-30"`
	Bucket31To60 []AgingItem `json:"31-60"`
	Bucket61To90 []AgingItem `json:"61-90"`
	Bucket90Plus []AgingItem `json:"90+"`
}

// CashBookLine is a cash transaction annotated with its running balance.
type CashBookLine struct {
	Entry          CashTransaction `json:"entry"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// LedgerLine is one row of the unified customer+supplier ledger view.
type LedgerLine struct {
	CreatedAt       time.Time       `json:"created_at"`
	Ledger          string          `json:"ledger"` // customer, supplier
	Entity          string          `json:"entity"`
	EntityID        string          `json:"entity_id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Reference       string          `json:"reference"`
	Notes           string          `json:"notes"`
	PaymentMethod   string          `json:"payment_method"`
	RunningBalance  decimal.Decimal `json:"running_balance"`
}
