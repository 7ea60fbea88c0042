package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"gadget-prima-pos/internal/pricing"
	"gadget-prima-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportSummary is the financial rollup for an inclusive date range.
type ReportSummary struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	TotalRevenue       int64   `json:"total_revenue"`
	TransactionCount   int64   `json:"transaction_count"`
	AverageTransaction int64   `json:"average_transaction"`
	COGS               int64   `json:"cogs"`
	GrossProfit        int64   `json:"gross_profit"`
	GrossMarginPercent float64 `json:"gross_margin_percent"`
	OperatingExpenses  int64   `json:"operating_expenses"`
	NetProfit          int64   `json:"net_profit"`
	NetMarginPercent   float64 `json:"net_margin_percent"`

	CategoryBreakdown []repository.CategoryRevenue  `json:"category_breakdown"`
	ProductBreakdown  []ProductReportRow            `json:"product_breakdown"`
	PaymentBreakdown  []repository.PaymentBreakdown `json:"payment_breakdown"`
}

// ProductReportRow is the per-product P&L line in the report.
type ProductReportRow struct {
	ProductName  string `json:"product_name"`
	QuantitySold int64  `json:"quantity_sold"`
	Revenue      int64  `json:"revenue"`
	COGS         int64  `json:"cogs"`
	Profit       int64  `json:"profit"`
}

type ReportService interface {
	Summary(startDate, endDate string) (*ReportSummary, error)
	ExportCSV(w io.Writer, startDate, endDate string) error
}

type reportService struct {
	transactions repository.TransactionRepository
	expenses     repository.ExpenseRepository
	engine       *pricing.Engine
}

func NewReportService(
	transactions repository.TransactionRepository,
	expenses repository.ExpenseRepository,
	engine *pricing.Engine,
) ReportService {
	return &reportService{
		transactions: transactions,
		expenses:     expenses,
		engine:       engine,
	}
}

func (s *reportService) Summary(startDate, endDate string) (*ReportSummary, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	revenue, err := s.transactions.RevenueBetween(start, end)
	if err != nil {
		return nil, err
	}
	count, err := s.transactions.CountPaidBetween(start, end)
	if err != nil {
		return nil, err
	}
	soldItems, err := s.transactions.SoldItemsBetween(start, end)
	if err != nil {
		return nil, err
	}
	categoryBreakdown, err := s.transactions.CategoryRevenue(start, end)
	if err != nil {
		return nil, err
	}
	paymentBreakdown, err := s.transactions.PaymentBreakdown(start, end)
	if err != nil {
		return nil, err
	}
	// Operating expenses are the real expense records in the range, not
	// a flat percentage estimate.
	operatingExpenses, err := s.expenses.SumBetween(start, end)
	if err != nil {
		return nil, err
	}

	var cogs int64
	perProduct := map[string]*ProductReportRow{}
	for _, item := range soldItems {
		itemCOGS := s.engine.COGS(item.BuyPrice, item.Price, item.Quantity)
		cogs += itemCOGS

		row, ok := perProduct[item.ProductName]
		if !ok {
			row = &ProductReportRow{ProductName: item.ProductName}
			perProduct[item.ProductName] = row
		}
		row.QuantitySold += int64(item.Quantity)
		row.Revenue += item.Subtotal
		row.COGS += itemCOGS
		row.Profit = row.Revenue - row.COGS
	}

	productBreakdown := make([]ProductReportRow, 0, len(perProduct))
	for _, row := range perProduct {
		productBreakdown = append(productBreakdown, *row)
	}
	sort.Slice(productBreakdown, func(i, j int) bool {
		return productBreakdown[i].Revenue > productBreakdown[j].Revenue
	})

	grossProfit := revenue - cogs
	netProfit := grossProfit - operatingExpenses

	summary := &ReportSummary{
		StartDate:          startDate,
		EndDate:            endDate,
		TotalRevenue:       revenue,
		TransactionCount:   count,
		COGS:               cogs,
		GrossProfit:        grossProfit,
		GrossMarginPercent: marginPercent(grossProfit, revenue),
		OperatingExpenses:  operatingExpenses,
		NetProfit:          netProfit,
		NetMarginPercent:   marginPercent(netProfit, revenue),
		CategoryBreakdown:  categoryBreakdown,
		ProductBreakdown:   productBreakdown,
		PaymentBreakdown:   paymentBreakdown,
	}
	if count > 0 {
		summary.AverageTransaction = revenue / count
	}
	return summary, nil
}

// ExportCSV writes the filtered transaction list: UTF-8 BOM so
// spreadsheet apps detect the encoding, semicolon-delimited fields.
func (s *reportService) ExportCSV(w io.Writer, startDate, endDate string) error {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return err
	}
	transactions, err := s.transactions.FindPaidBetween(start, end)
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	header := []string{"Nomor", "Tanggal", "Kasir", "Metode", "Item", "Subtotal", "Pajak", "Total"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, t := range transactions {
		var itemCount int
		for _, item := range t.Items {
			itemCount += item.Quantity
		}
		record := []string{
			t.Number,
			t.CreatedAt.Format("2006-01-02 15:04:05"),
			t.CashierName,
			string(t.PaymentMethod),
			strconv.Itoa(itemCount),
			strconv.FormatInt(t.Subtotal, 10),
			strconv.FormatInt(t.Tax, 10),
			strconv.FormatInt(t.Total, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// parseRange expands YYYY-MM-DD inputs into the inclusive range
// [start 00:00:00, end 23:59:59].
func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date, use YYYY-MM-DD: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02", endDate, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date, use YYYY-MM-DD: %w", err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date is before start date")
	}
	return start, end.Add(24*time.Hour - time.Second), nil
}

func marginPercent(profit, revenue int64) float64 {
	if revenue == 0 {
		return 0
	}
	return decimal.NewFromInt(profit).
		Div(decimal.NewFromInt(revenue)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}
