package checkout

import (
	"path/filepath"
	"testing"
	"time"

	"gadget-prima-pos/internal/config"
	"gadget-prima-pos/internal/model"
	"gadget-prima-pos/internal/pricing"
	"gadget-prima-pos/internal/repository"
	"gadget-prima-pos/internal/ws"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testActor = Actor{ID: "cashier-1", Name: "Budi", Email: "budi@gadgetprima.id"}

func newTestService(t *testing.T) (*service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "register.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Product{}, &model.Transaction{}, &model.TransactionItem{}, &model.StockHistory{},
	))

	hub := ws.NewHub(zap.NewNop())
	go hub.Run()

	engine := pricing.NewEngine(config.BusinessConfig{
		TaxRate:          decimal.RequireFromString("0.11"),
		COGSFallbackRate: decimal.RequireFromString("0.60"),
	})
	sessions := NewSessionStore(30*time.Minute, zap.NewNop())
	cfg := config.CheckoutConfig{
		SessionTTL:     30 * time.Minute,
		QRISExpiry:     15 * time.Minute,
		ExpiryInterval: time.Minute,
		QRISBaseURL:    "https://pay.test/qris",
	}

	svc := NewService(
		db,
		repository.NewProductRepo(db),
		repository.NewTransactionRepo(db),
		repository.NewStockHistoryRepo(db),
		sessions, engine, hub, zap.NewNop(), cfg,
	)
	return svc.(*service), db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		SKU:   pricing.GenerateSKU("PHN"),
		Name:  name,
		Price: price,
		Stock: stock,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func currentStock(t *testing.T, db *gorm.DB, p *model.Product) int {
	t.Helper()
	var fresh model.Product
	require.NoError(t, db.First(&fresh, "id = ?", p.ID).Error)
	return fresh.Stock
}

func TestPayCash(t *testing.T) {
	svc, db := newTestService(t)
	phone := seedProduct(t, db, "Phone X", 100000, 10)

	session := svc.StartSession()
	_, err := svc.AddItem(session.ID, phone.ID)
	require.NoError(t, err)
	view, err := svc.AddItem(session.ID, phone.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(200000), view.Subtotal)
	assert.Equal(t, int64(22000), view.Tax)
	assert.Equal(t, int64(222000), view.Total)

	t.Run("underpayment is rejected", func(t *testing.T) {
		_, err := svc.PayCash(session.ID, 221999, testActor)
		assert.ErrorIs(t, err, ErrInsufficientPayment)
		assert.Equal(t, 10, currentStock(t, db, phone))
	})

	t.Run("sale decrements stock and records the ledger", func(t *testing.T) {
		transaction, err := svc.PayCash(session.ID, 250000, testActor)
		require.NoError(t, err)

		assert.Equal(t, model.StatusPaid, transaction.Status)
		assert.Equal(t, model.PaymentCash, transaction.PaymentMethod)
		assert.Equal(t, int64(222000), transaction.Total)
		assert.Equal(t, int64(28000), transaction.Change)
		require.NotNil(t, transaction.PaidAt)
		assert.Regexp(t, `^TRX-\d{8}-[0-9A-F]{8}$`, transaction.Number)
		assert.Equal(t, "Budi", transaction.CashierName)

		assert.Equal(t, 8, currentStock(t, db, phone))

		var entries []model.StockHistory
		require.NoError(t, db.Where("product_id = ?", phone.ID).Find(&entries).Error)
		require.Len(t, entries, 1)
		assert.Equal(t, model.MovementOut, entries[0].Type)
		assert.Equal(t, 2, entries[0].Amount)
		assert.Equal(t, 8, entries[0].ResultingStock)

		// cart is reset for the next customer
		view, err := svc.GetCart(session.ID)
		require.NoError(t, err)
		assert.Empty(t, view.Items)
	})
}

func TestPayRejectsEmptyCart(t *testing.T) {
	svc, db := newTestService(t)
	session := svc.StartSession()

	_, err := svc.PayCash(session.ID, 100000, testActor)
	assert.ErrorIs(t, err, ErrEmptyCart)
	_, err = svc.PayCard(session.ID, testActor)
	assert.ErrorIs(t, err, ErrEmptyCart)
	_, err = svc.PayQRIS(session.ID, testActor)
	assert.ErrorIs(t, err, ErrEmptyCart)

	var count int64
	require.NoError(t, db.Model(&model.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestStockIsAuthoritativeAtCommit(t *testing.T) {
	// two registers race for the last unit; the second settle must fail
	svc, db := newTestService(t)
	lastUnit := seedProduct(t, db, "Limited Edition", 500000, 1)

	first := svc.StartSession()
	second := svc.StartSession()
	_, err := svc.AddItem(first.ID, lastUnit.ID)
	require.NoError(t, err)
	_, err = svc.AddItem(second.ID, lastUnit.ID)
	require.NoError(t, err)

	_, err = svc.PayCard(first.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, 0, currentStock(t, db, lastUnit))

	_, err = svc.PayCard(second.ID, testActor)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 0, currentStock(t, db, lastUnit))
}

func TestQRISFlow(t *testing.T) {
	svc, db := newTestService(t)
	tablet := seedProduct(t, db, "Tablet S", 300000, 5)

	session := svc.StartSession()
	_, err := svc.AddItem(session.ID, tablet.ID)
	require.NoError(t, err)

	pending, err := svc.PayQRIS(session.ID, testActor)
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, pending.Status)
	require.NotNil(t, pending.PaymentRef)
	assert.Regexp(t, `^QR-[0-9A-F]{16}$`, *pending.PaymentRef)
	assert.Equal(t, "https://pay.test/qris/"+*pending.PaymentRef, pending.QRPayload)
	assert.Nil(t, pending.PaidAt)

	// stock is reserved while the customer scans
	assert.Equal(t, 4, currentStock(t, db, tablet))

	t.Run("callback confirms exactly once", func(t *testing.T) {
		paid, err := svc.ConfirmQRIS(*pending.PaymentRef)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPaid, paid.Status)
		assert.Equal(t, paid.Total, paid.AmountPaid)
		require.NotNil(t, paid.PaidAt)

		// repeated callback is a no-op, not an error
		again, err := svc.ConfirmQRIS(*pending.PaymentRef)
		require.NoError(t, err)
		assert.Equal(t, model.StatusPaid, again.Status)
		assert.Equal(t, paid.PaidAt.Unix(), again.PaidAt.Unix())

		// settled transactions can no longer be cancelled
		_, err = svc.CancelTransaction(pending.ID, "Budi")
		assert.ErrorIs(t, err, ErrNotPending)
		assert.Equal(t, 4, currentStock(t, db, tablet))
	})

	t.Run("unknown reference is refused", func(t *testing.T) {
		_, err := svc.ConfirmQRIS("QR-DOESNOTEXIST00")
		assert.Error(t, err)
	})
}

func TestCancelRestoresStock(t *testing.T) {
	svc, db := newTestService(t)
	watch := seedProduct(t, db, "Watch Lite", 150000, 3)

	session := svc.StartSession()
	_, err := svc.AddItem(session.ID, watch.ID)
	require.NoError(t, err)
	_, err = svc.AddItem(session.ID, watch.ID)
	require.NoError(t, err)

	pending, err := svc.PayQRIS(session.ID, testActor)
	require.NoError(t, err)
	assert.Equal(t, 1, currentStock(t, db, watch))

	cancelled, err := svc.CancelTransaction(pending.ID, "Budi")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, 3, currentStock(t, db, watch))

	var entries []model.StockHistory
	require.NoError(t, db.Where("product_id = ? AND type = ?", watch.ID, model.MovementIn).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Amount)
	assert.Contains(t, entries[0].Reason, "payment cancelled")

	// cancelling twice fails
	_, err = svc.CancelTransaction(pending.ID, "Budi")
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestExpireStale(t *testing.T) {
	svc, db := newTestService(t)
	phone := seedProduct(t, db, "Phone Y", 200000, 2)

	session := svc.StartSession()
	_, err := svc.AddItem(session.ID, phone.ID)
	require.NoError(t, err)
	pending, err := svc.PayQRIS(session.ID, testActor)
	require.NoError(t, err)

	// age the pending transaction past the expiry window
	stale := time.Now().Add(-time.Hour)
	require.NoError(t, db.Model(&model.Transaction{}).
		Where("id = ?", pending.ID).
		Update("created_at", stale).Error)

	svc.expireStale()

	var fresh model.Transaction
	require.NoError(t, db.First(&fresh, "id = ?", pending.ID).Error)
	assert.Equal(t, model.StatusExpired, fresh.Status)
	assert.Equal(t, 2, currentStock(t, db, phone))
}
