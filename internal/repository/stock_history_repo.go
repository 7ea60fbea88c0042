package repository

import (
	"gadget-prima-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockHistoryRepository interface {
	Create(tx *gorm.DB, entry *model.StockHistory) error
	FindByProduct(productID uuid.UUID) ([]model.StockHistory, error)
}

type stockHistoryRepo struct {
	db *gorm.DB
}

func NewStockHistoryRepo(db *gorm.DB) StockHistoryRepository {
	return &stockHistoryRepo{db}
}

// Create accepts the *gorm.DB so ledger rows land in the same
// transaction as the stock mutation they describe.
func (r *stockHistoryRepo) Create(tx *gorm.DB, entry *model.StockHistory) error {
	return tx.Create(entry).Error
}

func (r *stockHistoryRepo) FindByProduct(productID uuid.UUID) ([]model.StockHistory, error) {
	var entries []model.StockHistory
	err := r.db.Where("product_id = ?", productID).Order("created_at DESC").Find(&entries).Error
	return entries, err
}
