package service

import (
	"time"

	"gadget-prima-pos/internal/model"
	"gadget-prima-pos/internal/repository"
)

// DashboardStats is the overview card row.
type DashboardStats struct {
	RevenueToday     int64 `json:"revenue_today"`
	RevenueWeek      int64 `json:"revenue_week"`
	RevenueMonth     int64 `json:"revenue_month"`
	TransactionsToday int64 `json:"transactions_today"`
	TotalProducts    int64 `json:"total_products"`
	LowStockCount    int64 `json:"low_stock_count"`
	OutOfStockCount  int64 `json:"out_of_stock_count"`
}

// HourlyRevenue is one point of today's per-hour revenue chart.
type HourlyRevenue struct {
	Hour    int   `json:"hour"`
	Revenue int64 `json:"revenue"`
	Count   int64 `json:"count"`
}

type DashboardService interface {
	GetStats() (*DashboardStats, error)
	GetRevenueSeries(days int) ([]repository.DailyRevenue, error)
	GetHourlyRevenue() ([]HourlyRevenue, error)
	GetBestSellers(days, limit int) ([]repository.BestSeller, error)
	GetCategoryRevenue(days int) ([]repository.CategoryRevenue, error)
	GetPaymentBreakdown(days int) ([]repository.PaymentBreakdown, error)
	GetRecentTransactions(limit int) ([]model.Transaction, error)
}

type dashboardService struct {
	transactions repository.TransactionRepository
	products     repository.ProductRepository
}

func NewDashboardService(transactions repository.TransactionRepository, products repository.ProductRepository) DashboardService {
	return &dashboardService{
		transactions: transactions,
		products:     products,
	}
}

func (s *dashboardService) GetStats() (*DashboardStats, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	revenueToday, err := s.transactions.RevenueBetween(todayStart, now)
	if err != nil {
		return nil, err
	}
	revenueWeek, err := s.transactions.RevenueBetween(todayStart.AddDate(0, 0, -6), now)
	if err != nil {
		return nil, err
	}
	revenueMonth, err := s.transactions.RevenueBetween(todayStart.AddDate(0, -1, 0), now)
	if err != nil {
		return nil, err
	}
	transactionsToday, err := s.transactions.CountPaidBetween(todayStart, now)
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.products.CountAll()
	if err != nil {
		return nil, err
	}
	lowStock, err := s.products.CountLowStock()
	if err != nil {
		return nil, err
	}
	outOfStock, err := s.products.CountOutOfStock()
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		RevenueToday:      revenueToday,
		RevenueWeek:       revenueWeek,
		RevenueMonth:      revenueMonth,
		TransactionsToday: transactionsToday,
		TotalProducts:     totalProducts,
		LowStockCount:     lowStock,
		OutOfStockCount:   outOfStock,
	}, nil
}

func (s *dashboardService) GetRevenueSeries(days int) ([]repository.DailyRevenue, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return s.transactions.DailyRevenue(start, end)
}

// GetHourlyRevenue buckets today's paid transactions per hour in Go,
// which keeps the SQL portable across Postgres and the SQLite test DB.
func (s *dashboardService) GetHourlyRevenue() ([]HourlyRevenue, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	transactions, err := s.transactions.FindPaidBetween(todayStart, now)
	if err != nil {
		return nil, err
	}

	series := make([]HourlyRevenue, 24)
	for i := range series {
		series[i].Hour = i
	}
	for _, t := range transactions {
		hour := t.CreatedAt.Hour()
		series[hour].Revenue += t.Total
		series[hour].Count++
	}
	return series, nil
}

func (s *dashboardService) GetBestSellers(days, limit int) ([]repository.BestSeller, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return s.transactions.BestSellers(start, end, limit)
}

func (s *dashboardService) GetCategoryRevenue(days int) ([]repository.CategoryRevenue, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return s.transactions.CategoryRevenue(start, end)
}

func (s *dashboardService) GetPaymentBreakdown(days int) ([]repository.PaymentBreakdown, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return s.transactions.PaymentBreakdown(start, end)
}

func (s *dashboardService) GetRecentTransactions(limit int) ([]model.Transaction, error) {
	return s.transactions.Recent(limit)
}
