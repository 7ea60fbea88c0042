package repository

import (
	"time"

	"gadget-prima-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(tx *gorm.DB, transaction *model.Transaction) error
	Save(tx *gorm.DB, transaction *model.Transaction) error
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Transaction, error)
	FindByPaymentRef(ref string) (*model.Transaction, error)
	FindPaidBetween(start, end time.Time) ([]model.Transaction, error)
	FindStalePending(olderThan time.Time) ([]model.Transaction, error)
	Recent(limit int) ([]model.Transaction, error)

	RevenueBetween(start, end time.Time) (int64, error)
	CountPaidBetween(start, end time.Time) (int64, error)
	DailyRevenue(start, end time.Time) ([]DailyRevenue, error)
	BestSellers(start, end time.Time, limit int) ([]BestSeller, error)
	CategoryRevenue(start, end time.Time) ([]CategoryRevenue, error)
	PaymentBreakdown(start, end time.Time) ([]PaymentBreakdown, error)
	SoldItemsBetween(start, end time.Time) ([]SoldItem, error)
}

// DailyRevenue is one point of the revenue-per-day chart
type DailyRevenue struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
	Count   int64  `json:"count"`
}

// BestSeller ranks products by cumulative quantity sold
type BestSeller struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	QuantitySold int64     `json:"quantity_sold"`
	Revenue      int64     `json:"revenue"`
}

// CategoryRevenue is the revenue share of one product category
type CategoryRevenue struct {
	Category string `json:"category"`
	Revenue  int64  `json:"revenue"`
}

// PaymentBreakdown is the distribution of paid transactions per method
type PaymentBreakdown struct {
	PaymentMethod string `json:"payment_method"`
	Count         int64  `json:"count"`
	Revenue       int64  `json:"revenue"`
}

// SoldItem is a line item joined with the product's current cost and
// category, the raw material for COGS and per-product breakdowns.
type SoldItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Category    string    `json:"category"`
	Quantity    int       `json:"quantity"`
	Price       int64     `json:"price"`
	Subtotal    int64     `json:"subtotal"`
	BuyPrice    int64     `json:"buy_price"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *gorm.DB, transaction *model.Transaction) error {
	return tx.Create(transaction).Error
}

func (r *transactionRepo) Save(tx *gorm.DB, transaction *model.Transaction) error {
	return tx.Save(transaction).Error
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Items").Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Items").First(&transaction, "id = ?", id).Error
	return &transaction, err
}

func (r *transactionRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := LockForUpdate(tx).Preload("Items").First(&transaction, "id = ?", id).Error
	return &transaction, err
}

func (r *transactionRepo) FindByPaymentRef(ref string) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Items").First(&transaction, "payment_ref = ?", ref).Error
	return &transaction, err
}

func (r *transactionRepo) FindPaidBetween(start, end time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Items").
		Where("status = ? AND created_at BETWEEN ? AND ?", model.StatusPaid, start, end).
		Order("created_at ASC").
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindStalePending(olderThan time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Items").
		Where("status = ? AND created_at < ?", model.StatusPending, olderThan).
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) Recent(limit int) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Items").Order("created_at DESC").Limit(limit).Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) RevenueBetween(start, end time.Time) (int64, error) {
	var revenue int64
	err := r.db.Model(&model.Transaction{}).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.StatusPaid, start, end).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	return revenue, err
}

func (r *transactionRepo) CountPaidBetween(start, end time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Transaction{}).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.StatusPaid, start, end).
		Count(&count).Error
	return count, err
}

func (r *transactionRepo) DailyRevenue(start, end time.Time) ([]DailyRevenue, error) {
	var results []DailyRevenue

	rows, err := r.db.Model(&model.Transaction{}).
		Select("DATE(created_at) as date, COALESCE(SUM(total), 0) as revenue, COUNT(*) as count").
		Where("status = ? AND created_at BETWEEN ? AND ?", model.StatusPaid, start, end).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data DailyRevenue
		if err := rows.Scan(&data.Date, &data.Revenue, &data.Count); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func (r *transactionRepo) BestSellers(start, end time.Time, limit int) ([]BestSeller, error) {
	var results []BestSeller
	err := r.db.Model(&model.TransactionItem{}).
		Select(`transaction_items.product_id,
			transaction_items.product_name,
			SUM(transaction_items.quantity) as quantity_sold,
			SUM(transaction_items.subtotal) as revenue`).
		Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
		Where("transactions.status = ? AND transactions.created_at BETWEEN ? AND ?", model.StatusPaid, start, end).
		Group("transaction_items.product_id, transaction_items.product_name").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}

func (r *transactionRepo) CategoryRevenue(start, end time.Time) ([]CategoryRevenue, error) {
	var results []CategoryRevenue
	err := r.db.Model(&model.TransactionItem{}).
		Select("COALESCE(categories.name, 'Lainnya') as category, SUM(transaction_items.subtotal) as revenue").
		Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
		Joins("LEFT JOIN products ON products.id = transaction_items.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("transactions.status = ? AND transactions.created_at BETWEEN ? AND ?", model.StatusPaid, start, end).
		Group("categories.name").
		Order("revenue DESC").
		Scan(&results).Error
	return results, err
}

func (r *transactionRepo) PaymentBreakdown(start, end time.Time) ([]PaymentBreakdown, error) {
	var results []PaymentBreakdown
	err := r.db.Model(&model.Transaction{}).
		Select("payment_method, COUNT(*) as count, COALESCE(SUM(total), 0) as revenue").
		Where("status = ? AND created_at BETWEEN ? AND ?", model.StatusPaid, start, end).
		Group("payment_method").
		Scan(&results).Error
	return results, err
}

func (r *transactionRepo) SoldItemsBetween(start, end time.Time) ([]SoldItem, error) {
	var results []SoldItem
	err := r.db.Model(&model.TransactionItem{}).
		Select(`transaction_items.product_id,
			transaction_items.product_name,
			COALESCE(categories.name, 'Lainnya') as category,
			transaction_items.quantity,
			transaction_items.price,
			transaction_items.subtotal,
			COALESCE(products.buy_price, 0) as buy_price`).
		Joins("JOIN transactions ON transactions.id = transaction_items.transaction_id").
		Joins("LEFT JOIN products ON products.id = transaction_items.product_id").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Where("transactions.status = ? AND transactions.created_at BETWEEN ? AND ?", model.StatusPaid, start, end).
		Scan(&results).Error
	return results, err
}
