package service

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"gadget-prima-pos/internal/config"
	"gadget-prima-pos/internal/model"
	"gadget-prima-pos/internal/pricing"
	"gadget-prima-pos/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newReportTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "reports.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Category{}, &model.Product{},
		&model.Transaction{}, &model.TransactionItem{}, &model.Expense{},
	))
	return db
}

func newReportService(t *testing.T, db *gorm.DB) ReportService {
	t.Helper()
	engine := pricing.NewEngine(config.BusinessConfig{
		TaxRate:          decimal.RequireFromString("0.11"),
		COGSFallbackRate: decimal.RequireFromString("0.60"),
	})
	return NewReportService(repository.NewTransactionRepo(db), repository.NewExpenseRepo(db), engine)
}

func seedPaidSale(t *testing.T, db *gorm.DB, number string, at time.Time, items []model.TransactionItem) *model.Transaction {
	t.Helper()

	var subtotal int64
	for i := range items {
		items[i].Subtotal = int64(items[i].Quantity) * items[i].Price
		subtotal += items[i].Subtotal
	}
	tax := decimal.NewFromInt(subtotal).Mul(decimal.RequireFromString("0.11")).Round(0).IntPart()

	sale := &model.Transaction{
		Number:        number,
		Status:        model.StatusPaid,
		PaymentMethod: model.PaymentCash,
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal + tax,
		AmountPaid:    subtotal + tax,
		PaidAt:        &at,
		CashierName:   "Budi",
	}
	require.NoError(t, db.Create(sale).Error)
	// pin created_at inside the report window
	require.NoError(t, db.Model(&model.Transaction{}).
		Where("id = ?", sale.ID).
		Update("created_at", at).Error)
	return sale
}

func TestReportSummary(t *testing.T) {
	db := newReportTestDB(t)
	svc := newReportService(t, db)

	phone := &model.Product{SKU: "PHN-1001", Name: "Phone X", Price: 100000, BuyPrice: 60000, Stock: 10}
	require.NoError(t, db.Create(phone).Error)
	// no recorded purchase price: COGS falls back to 60% of sell price
	caseProduct := &model.Product{SKU: "ACC-2002", Name: "Case", Price: 50000, BuyPrice: 0, Stock: 20}
	require.NoError(t, db.Create(caseProduct).Error)

	inRange := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)
	seedPaidSale(t, db, "TRX-20260310-AAAA1111", inRange, []model.TransactionItem{
		{ProductID: phone.ID, ProductName: phone.Name, Price: phone.Price, Quantity: 2},
		{ProductID: caseProduct.ID, ProductName: caseProduct.Name, Price: caseProduct.Price, Quantity: 1},
	})

	// a sale on the inclusive end day, late in the evening
	endOfRange := time.Date(2026, 3, 31, 23, 30, 0, 0, time.Local)
	seedPaidSale(t, db, "TRX-20260331-BBBB2222", endOfRange, []model.TransactionItem{
		{ProductID: phone.ID, ProductName: phone.Name, Price: phone.Price, Quantity: 1},
	})

	// outside the range entirely
	seedPaidSale(t, db, "TRX-20260401-CCCC3333", time.Date(2026, 4, 1, 9, 0, 0, 0, time.Local), []model.TransactionItem{
		{ProductID: phone.ID, ProductName: phone.Name, Price: phone.Price, Quantity: 5},
	})

	rent := &model.Expense{
		Date:        time.Date(2026, 3, 5, 0, 0, 0, 0, time.Local),
		Description: "Sewa ruko",
		Category:    "rent",
		Amount:      40000,
	}
	require.NoError(t, db.Create(rent).Error)

	summary, err := svc.Summary("2026-03-01", "2026-03-31")
	require.NoError(t, err)

	// revenue: (250000 + 27500) + (100000 + 11000)
	assert.Equal(t, int64(388500), summary.TotalRevenue)
	assert.Equal(t, int64(2), summary.TransactionCount)
	assert.Equal(t, int64(194250), summary.AverageTransaction)

	// COGS: phone 3 * 60000, case 1 * 50000 * 0.60
	assert.Equal(t, int64(210000), summary.COGS)
	assert.Equal(t, int64(178500), summary.GrossProfit)

	assert.Equal(t, int64(40000), summary.OperatingExpenses)
	assert.Equal(t, int64(138500), summary.NetProfit)
	assert.InDelta(t, 35.65, summary.NetMarginPercent, 0.01)

	require.Len(t, summary.ProductBreakdown, 2)
	assert.Equal(t, "Phone X", summary.ProductBreakdown[0].ProductName)
	assert.Equal(t, int64(3), summary.ProductBreakdown[0].QuantitySold)
	assert.Equal(t, int64(300000), summary.ProductBreakdown[0].Revenue)

	require.Len(t, summary.PaymentBreakdown, 1)
	assert.Equal(t, "cash", summary.PaymentBreakdown[0].PaymentMethod)
	assert.Equal(t, int64(2), summary.PaymentBreakdown[0].Count)
}

func TestReportSummaryEmptyRange(t *testing.T) {
	db := newReportTestDB(t)
	svc := newReportService(t, db)

	summary, err := svc.Summary("2026-01-01", "2026-01-31")
	require.NoError(t, err)

	assert.Zero(t, summary.TotalRevenue)
	assert.Zero(t, summary.TransactionCount)
	assert.Zero(t, summary.AverageTransaction)
	assert.Zero(t, summary.NetMarginPercent)
}

func TestReportSummaryRejectsInvertedRange(t *testing.T) {
	db := newReportTestDB(t)
	svc := newReportService(t, db)

	_, err := svc.Summary("2026-03-31", "2026-03-01")
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	db := newReportTestDB(t)
	svc := newReportService(t, db)

	phone := &model.Product{SKU: "PHN-1001", Name: "Phone X", Price: 100000, BuyPrice: 60000, Stock: 10}
	require.NoError(t, db.Create(phone).Error)
	seedPaidSale(t, db, "TRX-20260310-AAAA1111", time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local), []model.TransactionItem{
		{ProductID: phone.ID, ProductName: phone.Name, Price: phone.Price, Quantity: 2},
	})

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(&buf, "2026-03-01", "2026-03-31"))

	out := buf.Bytes()
	// UTF-8 BOM so spreadsheet apps pick the right encoding
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}))

	body := string(out[3:])
	lines := bytes.Split([]byte(body), []byte("\n"))
	assert.Equal(t, "Nomor;Tanggal;Kasir;Metode;Item;Subtotal;Pajak;Total", string(lines[0]))
	assert.Contains(t, string(lines[1]), "TRX-20260310-AAAA1111;")
	assert.Contains(t, string(lines[1]), ";cash;2;200000;22000;222000")
}
