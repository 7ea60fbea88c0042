package service

import (
	"errors"
	"fmt"

	"gadget-prima-pos/internal/model"
	"gadget-prima-pos/internal/pricing"
	"gadget-prima-pos/internal/repository"
	"gadget-prima-pos/internal/ws"
	"gadget-prima-pos/pkg/validator"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSKUExists       = errors.New("SKU already exists")
	ErrProductNotFound = errors.New("product not found")
)

type CatalogService interface {
	CreateProduct(req *model.Product, userID, userName string) error
	UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	GetAllProducts() ([]model.Product, error)
	GetProduct(id uuid.UUID) (*model.Product, error)
	GetStockHistory(productID uuid.UUID) ([]model.StockHistory, error)
	GenerateSKU(categoryID *uuid.UUID) (string, error)
}

type catalogService struct {
	db         *gorm.DB
	products   repository.ProductRepository
	categories repository.CategoryRepository
	history    repository.StockHistoryRepository
	hub        *ws.Hub
}

func NewCatalogService(
	db *gorm.DB,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	history repository.StockHistoryRepository,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		db:         db,
		products:   products,
		categories: categories,
		history:    history,
		hub:        hub,
	}
}

func (s *catalogService) CreateProduct(req *model.Product, userID, userName string) error {
	if err := validator.Validate(req); err != nil {
		return err
	}

	existing, _ := s.products.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return ErrSKUExists
	}

	req.CreatedBy = userID
	req.UpdatedBy = userID

	if err := s.products.Create(req); err != nil {
		return err
	}

	if req.Stock > 0 {
		entry := &model.StockHistory{
			ProductID:      req.ID,
			Type:           model.MovementIn,
			Amount:         req.Stock,
			ResultingStock: req.Stock,
			Reason:         "initial stock",
			Actor:          userName,
		}
		entry.CreatedBy = userID
		entry.UpdatedBy = userID
		if err := s.history.Create(s.db, entry); err != nil {
			return err
		}
	}

	s.hub.PublishStockUpdate("product_created", map[string]interface{}{
		"id":    req.ID,
		"sku":   req.SKU,
		"name":  req.Name,
		"stock": req.Stock,
		"price": req.Price,
	}, fmt.Sprintf("%s created product '%s'", userName, req.Name))

	return nil
}

// UpdateProduct edits a product under a row lock. A manual stock change
// is recorded in the movement ledger as an adjustment.
func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product, userID, userName string) (*model.Product, error) {
	var updated *model.Product

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.products.FindByIDForUpdate(tx, id)
		if err != nil {
			return ErrProductNotFound
		}

		if req.SKU != existing.SKU {
			if other, _ := s.products.FindBySKU(req.SKU); other != nil && other.ID != uuid.Nil && other.ID != id {
				return ErrSKUExists
			}
		}

		oldStock := existing.Stock

		existing.SKU = req.SKU
		existing.Name = req.Name
		existing.Description = req.Description
		existing.CategoryID = req.CategoryID
		existing.BrandID = req.BrandID
		existing.Price = req.Price
		existing.BuyPrice = req.BuyPrice
		existing.Stock = req.Stock
		existing.MinStock = req.MinStock
		existing.Unit = req.Unit
		if req.ImageURL != "" {
			existing.ImageURL = req.ImageURL
		}
		existing.UpdatedBy = userID

		if err := tx.Save(existing).Error; err != nil {
			return err
		}

		if existing.Stock != oldStock {
			entry := &model.StockHistory{
				ProductID:      existing.ID,
				Type:           model.MovementAdjustment,
				Amount:         existing.Stock - oldStock,
				ResultingStock: existing.Stock,
				Reason:         "manual adjustment",
				Actor:          userName,
			}
			entry.CreatedBy = userID
			entry.UpdatedBy = userID
			if err := s.history.Create(tx, entry); err != nil {
				return err
			}
		}

		updated = existing

		s.hub.PublishStockUpdate("product_updated", map[string]interface{}{
			"id":        existing.ID,
			"sku":       existing.SKU,
			"name":      existing.Name,
			"old_stock": oldStock,
			"new_stock": existing.Stock,
			"price":     existing.Price,
		}, fmt.Sprintf("%s updated product '%s'", userName, existing.Name))

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *catalogService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.products.FindByID(id); err != nil {
		return ErrProductNotFound
	}
	return s.products.Delete(id)
}

func (s *catalogService) GetAllProducts() ([]model.Product, error) {
	return s.products.FindAll()
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) GetStockHistory(productID uuid.UUID) ([]model.StockHistory, error) {
	if _, err := s.products.FindByID(productID); err != nil {
		return nil, ErrProductNotFound
	}
	return s.history.FindByProduct(productID)
}

// GenerateSKU produces a fresh SKU for the product form, using the
// category's configured prefix when it has one.
func (s *catalogService) GenerateSKU(categoryID *uuid.UUID) (string, error) {
	prefix := pricing.FallbackSKUPrefix
	if categoryID != nil {
		category, err := s.categories.FindByID(*categoryID)
		if err == nil && category.SKUPrefix != "" {
			prefix = category.SKUPrefix
		}
	}
	return pricing.GenerateSKU(prefix), nil
}
