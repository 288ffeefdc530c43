package service

import (
	"context"
	"time"

	"partspos/internal/model"
	"partspos/internal/repository"
)

// ReceivablesView lists who owes us: registered debtors plus unpaid walk-in
// orders that have no customer account to carry the debt.
type ReceivablesView struct {
	Customers    []model.Customer   `json:"customers"`
	WalkInOrders []model.SalesOrder `json:"walk_in_orders"`
}

// PayablesView lists whom we owe, with the open purchase orders behind each
// balance.
type PayablesView struct {
	Distributors []model.Distributor   `json:"distributors"`
	UnpaidOrders []model.PurchaseOrder `json:"unpaid_orders"`
}

type AnalyticsService interface {
	Dashboard(ctx context.Context, year, month int) (*model.DashboardMetrics, error)
	ReceivablesAging(ctx context.Context) (*model.AgingBuckets, error)
	PayablesAging(ctx context.Context) (*model.AgingBuckets, error)
	Receivables(ctx context.Context) (*ReceivablesView, error)
	Payables(ctx context.Context) (*PayablesView, error)
}

type analyticsService struct {
	analyticsRepo   repository.AnalyticsRepository
	customerRepo    repository.CustomerRepository
	distributorRepo repository.DistributorRepository
	salesRepo       repository.SalesOrderRepository
	purchaseRepo    repository.PurchaseOrderRepository
}

func NewAnalyticsService(
	analyticsRepo repository.AnalyticsRepository,
	customerRepo repository.CustomerRepository,
	distributorRepo repository.DistributorRepository,
	salesRepo repository.SalesOrderRepository,
	purchaseRepo repository.PurchaseOrderRepository,
) AnalyticsService {
	return &analyticsService{
		analyticsRepo:   analyticsRepo,
		customerRepo:    customerRepo,
		distributorRepo: distributorRepo,
		salesRepo:       salesRepo,
		purchaseRepo:    purchaseRepo,
	}
}

// Dashboard aggregates the headline metrics. Year and month scope the
// period; zero values mean all time, a year without a month means that whole
// year.
func (s *analyticsService) Dashboard(ctx context.Context, year, month int) (*model.DashboardMetrics, error) {
	var start, end time.Time
	switch {
	case year > 0 && month >= 1 && month <= 12:
		start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		end = start.AddDate(0, 1, 0)
	case year > 0:
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
		end = start.AddDate(1, 0, 0)
	}

	sales, err := s.analyticsRepo.GetSalesTotals(ctx, start, end)
	if err != nil {
		return nil, err
	}
	purchases, err := s.analyticsRepo.GetPurchasesTotal(ctx, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.analyticsRepo.GetExpensesTotal(ctx, start, end)
	if err != nil {
		return nil, err
	}
	receivables, err := s.analyticsRepo.GetOutstandingReceivables(ctx)
	if err != nil {
		return nil, err
	}
	payables, err := s.analyticsRepo.GetOutstandingPayables(ctx)
	if err != nil {
		return nil, err
	}
	topProducts, err := s.analyticsRepo.GetTopProducts(ctx, start, end, 5)
	if err != nil {
		return nil, err
	}
	topDistributors, err := s.analyticsRepo.GetTopDistributors(ctx, start, end, 5)
	if err != nil {
		return nil, err
	}

	chartYear := year
	if chartYear == 0 {
		chartYear = time.Now().Year()
	}
	monthly, err := s.analyticsRepo.GetMonthlyRevenue(ctx, chartYear)
	if err != nil {
		return nil, err
	}

	return &model.DashboardMetrics{
		TotalRevenue:     sales.Revenue,
		GrossProfit:      sales.Profit,
		NetProfit:        sales.Profit.Sub(expenses),
		TotalExpenses:    expenses,
		TotalOrders:      sales.Orders,
		TotalPurchases:   purchases,
		TotalReceivables: receivables,
		TotalPayables:    payables,
		TopProducts:      topProducts,
		TopDistributors:  topDistributors,
		MonthlySales:     monthly,
	}, nil
}

func (s *analyticsService) ReceivablesAging(ctx context.Context) (*model.AgingBuckets, error) {
	orders, err := s.salesRepo.ListUnpaidApproved(ctx)
	if err != nil {
		return nil, err
	}

	buckets := &model.AgingBuckets{}
	now := time.Now()
	for _, order := range orders {
		party := order.CustomerName
		if order.Customer != nil {
			party = order.Customer.Name
		}
		if party == "" {
			party = "Walk-in"
		}
		addToBucket(buckets, model.AgingItem{
			ID:      order.ID.String(),
			Party:   party,
			Amount:  order.RemainingAmount(),
			Date:    order.CreatedAt.Format("2006-01-02"),
			DaysDue: int(now.Sub(order.CreatedAt).Hours() / 24),
		})
	}
	return buckets, nil
}

func (s *analyticsService) PayablesAging(ctx context.Context) (*model.AgingBuckets, error) {
	orders, err := s.purchaseRepo.ListUnpaid(ctx)
	if err != nil {
		return nil, err
	}

	buckets := &model.AgingBuckets{}
	now := time.Now()
	for _, order := range orders {
		party := "Unknown"
		if order.Distributor != nil {
			party = order.Distributor.Name
		}
		addToBucket(buckets, model.AgingItem{
			ID:      order.ID.String(),
			Party:   party,
			Amount:  order.RemainingAmount(),
			Date:    order.CreatedAt.Format("2006-01-02"),
			DaysDue: int(now.Sub(order.CreatedAt).Hours() / 24),
		})
	}
	return buckets, nil
}

func addToBucket(buckets *model.AgingBuckets, item model.AgingItem) {
	switch {
	case item.DaysDue <= 30:
		buckets.Bucket0To30 = append(buckets.Bucket0To30, item)
	case item.DaysDue <= 60:
		buckets.Bucket31To60 = append(buckets.Bucket31To60, item)
	case item.DaysDue <= 90:
		buckets.Bucket61To90 = append(buckets.Bucket61To90, item)
	default:
		buckets.Bucket90Plus = append(buckets.Bucket90Plus, item)
	}
}

func (s *analyticsService) Receivables(ctx context.Context) (*ReceivablesView, error) {
	debtors, err := s.customerRepo.ListDebtors(ctx)
	if err != nil {
		return nil, err
	}
	walkIns, err := s.salesRepo.ListUnpaidWalkIn(ctx)
	if err != nil {
		return nil, err
	}
	return &ReceivablesView{Customers: debtors, WalkInOrders: walkIns}, nil
}

func (s *analyticsService) Payables(ctx context.Context) (*PayablesView, error) {
	creditors, err := s.distributorRepo.ListCreditors(ctx)
	if err != nil {
		return nil, err
	}
	unpaid, err := s.purchaseRepo.ListUnpaid(ctx)
	if err != nil {
		return nil, err
	}
	return &PayablesView{Distributors: creditors, UnpaidOrders: unpaid}, nil
}
