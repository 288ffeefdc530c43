package repository

import (
	"context"
	"fmt"
	"time"

	"partspos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesTotals carries the aggregate numbers over approved sales orders.
type SalesTotals struct {
	Revenue decimal.Decimal `gorm:"column:revenue"`
	Profit  decimal.Decimal `gorm:"column:profit"`
	Orders  int64           `gorm:"column:orders"`
}

type AnalyticsRepository interface {
	GetSalesTotals(ctx context.Context, start, end time.Time) (SalesTotals, error)
	GetPurchasesTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	GetExpensesTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	GetOutstandingReceivables(ctx context.Context) (decimal.Decimal, error)
	GetOutstandingPayables(ctx context.Context) (decimal.Decimal, error)
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error)
	GetTopDistributors(ctx context.Context, start, end time.Time, limit int) ([]model.DistributorRanking, error)
	GetMonthlyRevenue(ctx context.Context, year int) ([]decimal.Decimal, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func rangeScope(db *gorm.DB, column string, start, end time.Time) *gorm.DB {
	if !start.IsZero() {
		db = db.Where(column+" >= ?", start)
	}
	if !end.IsZero() {
		db = db.Where(column+" < ?", end)
	}
	return db
}

func (r *analyticsRepository) GetSalesTotals(ctx context.Context, start, end time.Time) (SalesTotals, error) {
	var totals SalesTotals
	db := GetDB(ctx, r.db).Model(&model.SalesOrder{}).
		Select("COALESCE(SUM(total_amount), 0) as revenue, COALESCE(SUM(total_profit), 0) as profit, COUNT(*) as orders").
		Where("status = ?", model.SalesStatusApproved)
	if err := rangeScope(db, "created_at", start, end).Scan(&totals).Error; err != nil {
		return SalesTotals{}, fmt.Errorf("failed to query sales totals: %w", err)
	}
	return totals, nil
}

func (r *analyticsRepository) GetPurchasesTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	db := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("status = ?", model.PurchaseStatusReceived)
	if err := rangeScope(db, "created_at", start, end).Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to query purchases total: %w", err)
	}
	return result.Total, nil
}

func (r *analyticsRepository) GetExpensesTotal(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	db := GetDB(ctx, r.db).Model(&model.Expense{}).
		Select("COALESCE(SUM(amount), 0) as total")
	if err := rangeScope(db, "expense_date", start, end).Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to query expenses total: %w", err)
	}
	return result.Total, nil
}

func (r *analyticsRepository) GetOutstandingReceivables(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.SalesOrder{}).
		Select("COALESCE(SUM(total_amount - amount_paid), 0) as total").
		Where("status = ? AND total_amount > amount_paid", model.SalesStatusApproved).
		Scan(&result).Error
	return result.Total, err
}

func (r *analyticsRepository) GetOutstandingPayables(ctx context.Context) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := GetDB(ctx, r.db).Model(&model.PurchaseOrder{}).
		Select("COALESCE(SUM(total_amount - amount_paid), 0) as total").
		Where("payment_status <> ?", model.PaymentStatusPaid).
		Scan(&result).Error
	return result.Total, err
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]model.ProductRanking, error) {
	var rankings []model.ProductRanking
	db := GetDB(ctx, r.db).Table("sales_order_items").
		Select("products.name as name, products.sku as sku, SUM(sales_order_items.quantity) as total_sold, "+
			"SUM(sales_order_items.quantity * sales_order_items.price) as revenue, "+
			"SUM((sales_order_items.price - products.cost_price) * sales_order_items.quantity) as profit").
		Joins("JOIN products ON products.id = sales_order_items.product_id").
		Joins("JOIN sales_orders ON sales_orders.id = sales_order_items.order_id").
		Where("sales_orders.status = ?", model.SalesStatusApproved)
	db = rangeScope(db, "sales_orders.created_at", start, end)
	if err := db.Group("products.id, products.name, products.sku").
		Order("total_sold DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	return rankings, nil
}

func (r *analyticsRepository) GetTopDistributors(ctx context.Context, start, end time.Time, limit int) ([]model.DistributorRanking, error) {
	var rankings []model.DistributorRanking
	db := GetDB(ctx, r.db).Table("purchase_orders").
		Select("distributors.name as name, COUNT(purchase_orders.id) as purchase_count, "+
			"COALESCE(SUM(purchase_orders.total_amount), 0) as total_purchases").
		Joins("JOIN distributors ON distributors.id = purchase_orders.distributor_id").
		Where("purchase_orders.status = ?", model.PurchaseStatusReceived)
	db = rangeScope(db, "purchase_orders.created_at", start, end)
	if err := db.Group("distributors.id, distributors.name").
		Order("total_purchases DESC").
		Limit(limit).
		Scan(&rankings).Error; err != nil {
		return nil, fmt.Errorf("failed to query top distributors: %w", err)
	}
	return rankings, nil
}

// GetMonthlyRevenue returns approved-order revenue per calendar month of the
// given year, Jan..Dec.
func (r *analyticsRepository) GetMonthlyRevenue(ctx context.Context, year int) ([]decimal.Decimal, error) {
	type row struct {
		Month   int             `gorm:"column:month"`
		Revenue decimal.Decimal `gorm:"column:revenue"`
	}
	var rows []row
	if err := GetDB(ctx, r.db).Model(&model.SalesOrder{}).
		Select("EXTRACT(MONTH FROM created_at)::int as month, COALESCE(SUM(total_amount), 0) as revenue").
		Where("status = ? AND EXTRACT(YEAR FROM created_at) = ?", model.SalesStatusApproved, year).
		Group("month").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query monthly revenue: %w", err)
	}

	monthly := make([]decimal.Decimal, 12)
	for i := range monthly {
		monthly[i] = decimal.Zero
	}
	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			monthly[row.Month-1] = row.Revenue
		}
	}
	return monthly, nil
}
