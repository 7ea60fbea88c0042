package service

import (
	"errors"
	"time"

	"gadget-prima-pos/internal/model"
	"gadget-prima-pos/internal/repository"
	"gadget-prima-pos/pkg/validator"

	"github.com/google/uuid"
)

var ErrExpenseNotFound = errors.New("expense not found")

type ExpenseService interface {
	CreateExpense(req *ExpenseRequest, userID string) (*model.Expense, error)
	UpdateExpense(id uuid.UUID, req *ExpenseRequest, userID string) (*model.Expense, error)
	DeleteExpense(id uuid.UUID) error
	GetAllExpenses() ([]model.Expense, error)
	GetExpensesBetween(startDate, endDate string) ([]model.Expense, error)
}

type ExpenseRequest struct {
	Date        string `json:"date" validate:"required"` // YYYY-MM-DD
	Description string `json:"description" validate:"required"`
	Category    string `json:"category"`
	Amount      int64  `json:"amount" validate:"gt=0"`
}

type expenseService struct {
	expenses repository.ExpenseRepository
}

func NewExpenseService(expenses repository.ExpenseRepository) ExpenseService {
	return &expenseService{expenses: expenses}
}

func (s *expenseService) CreateExpense(req *ExpenseRequest, userID string) (*model.Expense, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, errors.New("invalid date format, use YYYY-MM-DD")
	}

	expense := &model.Expense{
		Date:        date,
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
	}
	expense.CreatedBy = userID
	expense.UpdatedBy = userID

	if err := s.expenses.Create(expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) UpdateExpense(id uuid.UUID, req *ExpenseRequest, userID string) (*model.Expense, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	expense, err := s.expenses.FindByID(id)
	if err != nil {
		return nil, ErrExpenseNotFound
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, errors.New("invalid date format, use YYYY-MM-DD")
	}

	expense.Date = date
	expense.Description = req.Description
	expense.Category = req.Category
	expense.Amount = req.Amount
	expense.UpdatedBy = userID

	if err := s.expenses.Update(expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *expenseService) DeleteExpense(id uuid.UUID) error {
	if _, err := s.expenses.FindByID(id); err != nil {
		return ErrExpenseNotFound
	}
	return s.expenses.Delete(id)
}

func (s *expenseService) GetAllExpenses() ([]model.Expense, error) {
	return s.expenses.FindAll()
}

func (s *expenseService) GetExpensesBetween(startDate, endDate string) ([]model.Expense, error) {
	start, end, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.expenses.FindBetween(start, end)
}
