package service

import (
	"path/filepath"
	"testing"

	"gadget-prima-pos/internal/model"
	"gadget-prima-pos/internal/repository"
	"gadget-prima-pos/internal/ws"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newCatalogService(t *testing.T) (CatalogService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Category{}, &model.Brand{}, &model.Product{}, &model.StockHistory{},
	))

	hub := ws.NewHub(zap.NewNop())
	go hub.Run()

	svc := NewCatalogService(
		db,
		repository.NewProductRepo(db),
		repository.NewCategoryRepo(db),
		repository.NewStockHistoryRepo(db),
		hub,
	)
	return svc, db
}

func TestCreateProduct(t *testing.T) {
	svc, db := newCatalogService(t)

	t.Run("initial stock is recorded in the ledger", func(t *testing.T) {
		product := &model.Product{SKU: "PHN-1234", Name: "Phone X", Price: 100000, Stock: 10}
		require.NoError(t, svc.CreateProduct(product, "admin-1", "Admin"))

		history, err := svc.GetStockHistory(product.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, model.MovementIn, history[0].Type)
		assert.Equal(t, 10, history[0].Amount)
		assert.Equal(t, "initial stock", history[0].Reason)
	})

	t.Run("duplicate SKU is rejected", func(t *testing.T) {
		err := svc.CreateProduct(&model.Product{SKU: "PHN-1234", Name: "Clone", Price: 1}, "admin-1", "Admin")
		assert.ErrorIs(t, err, ErrSKUExists)
	})

	t.Run("zero stock creates no ledger entry", func(t *testing.T) {
		product := &model.Product{SKU: "ACC-9999", Name: "Case", Price: 25000}
		require.NoError(t, svc.CreateProduct(product, "admin-1", "Admin"))

		var count int64
		require.NoError(t, db.Model(&model.StockHistory{}).
			Where("product_id = ?", product.ID).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("missing required fields are rejected", func(t *testing.T) {
		err := svc.CreateProduct(&model.Product{Name: "No SKU"}, "admin-1", "Admin")
		assert.Error(t, err)
	})
}

func TestUpdateProduct(t *testing.T) {
	svc, db := newCatalogService(t)

	product := &model.Product{SKU: "PHN-1234", Name: "Phone X", Price: 100000, Stock: 10, ImageURL: "/uploads/old.png"}
	require.NoError(t, svc.CreateProduct(product, "admin-1", "Admin"))

	t.Run("manual stock change is ledgered as adjustment", func(t *testing.T) {
		edit := *product
		edit.Stock = 7

		updated, err := svc.UpdateProduct(product.ID, &edit, "admin-1", "Admin")
		require.NoError(t, err)
		assert.Equal(t, 7, updated.Stock)

		var entries []model.StockHistory
		require.NoError(t, db.Where("product_id = ? AND type = ?", product.ID, model.MovementAdjustment).
			Find(&entries).Error)
		require.Len(t, entries, 1)
		assert.Equal(t, -3, entries[0].Amount)
		assert.Equal(t, 7, entries[0].ResultingStock)
	})

	t.Run("blank image keeps the existing one", func(t *testing.T) {
		edit := *product
		edit.Stock = 7
		edit.ImageURL = ""

		updated, err := svc.UpdateProduct(product.ID, &edit, "admin-1", "Admin")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/old.png", updated.ImageURL)
	})

	t.Run("SKU collision with another product is rejected", func(t *testing.T) {
		other := &model.Product{SKU: "ACC-1111", Name: "Charger", Price: 50000}
		require.NoError(t, svc.CreateProduct(other, "admin-1", "Admin"))

		edit := *other
		edit.SKU = "PHN-1234"
		_, err := svc.UpdateProduct(other.ID, &edit, "admin-1", "Admin")
		assert.ErrorIs(t, err, ErrSKUExists)
	})

	t.Run("unknown product reports not found", func(t *testing.T) {
		edit := *product
		_, err := svc.UpdateProduct(uuid.New(), &edit, "admin-1", "Admin")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestGenerateSKUFromCategory(t *testing.T) {
	svc, db := newCatalogService(t)

	category := &model.Category{Name: "Smartphone", SKUPrefix: "PHN"}
	require.NoError(t, db.Create(category).Error)

	t.Run("uses the category prefix", func(t *testing.T) {
		sku, err := svc.GenerateSKU(&category.ID)
		require.NoError(t, err)
		assert.Regexp(t, `^PHN-\d{4}$`, sku)
	})

	t.Run("falls back to the generic prefix", func(t *testing.T) {
		sku, err := svc.GenerateSKU(nil)
		require.NoError(t, err)
		assert.Regexp(t, `^GEN-\d{4}$`, sku)
	})
}

func TestStockStatus(t *testing.T) {
	t.Run("boundary is inclusive", func(t *testing.T) {
		p := &model.Product{Stock: 5, MinStock: 5}
		assert.Equal(t, model.StockLow, p.Status())
		assert.True(t, p.IsLowStock())
	})

	t.Run("above threshold is in stock", func(t *testing.T) {
		p := &model.Product{Stock: 6, MinStock: 5}
		assert.Equal(t, model.StockInStock, p.Status())
	})

	t.Run("zero stock is out even with zero threshold", func(t *testing.T) {
		p := &model.Product{Stock: 0, MinStock: 0}
		assert.Equal(t, model.StockOut, p.Status())
	})
}
