package repository

import (
	"time"

	"gadget-prima-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(expense *model.Expense) error
	FindAll() ([]model.Expense, error)
	FindByID(id uuid.UUID) (*model.Expense, error)
	FindBetween(start, end time.Time) ([]model.Expense, error)
	SumBetween(start, end time.Time) (int64, error)
	Update(expense *model.Expense) error
	Delete(id uuid.UUID) error
}

type expenseRepo struct {
	db *gorm.DB
}

func NewExpenseRepo(db *gorm.DB) ExpenseRepository {
	return &expenseRepo{db}
}

func (r *expenseRepo) Create(expense *model.Expense) error {
	return r.db.Create(expense).Error
}

func (r *expenseRepo) FindAll() ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.Order("date DESC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) FindByID(id uuid.UUID) (*model.Expense, error) {
	var expense model.Expense
	err := r.db.First(&expense, "id = ?", id).Error
	return &expense, err
}

func (r *expenseRepo) FindBetween(start, end time.Time) ([]model.Expense, error) {
	var expenses []model.Expense
	err := r.db.Where("date BETWEEN ? AND ?", start, end).Order("date ASC").Find(&expenses).Error
	return expenses, err
}

func (r *expenseRepo) SumBetween(start, end time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&model.Expense{}).
		Where("date BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *expenseRepo) Update(expense *model.Expense) error {
	return r.db.Save(expense).Error
}

func (r *expenseRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Expense{}, "id = ?", id).Error
}
