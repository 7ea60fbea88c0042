package model

import "github.com/google/uuid"

// StockStatus classifies a product's stock level for display.
// The thresholds are presentation rules, not database constraints.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockLow        StockStatus = "low_stock"
	StockOut        StockStatus = "out_of_stock"
)

type Product struct {
	BaseModel
	SKU         string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string `gorm:"type:text" json:"description"`

	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category   *Category  `json:"category,omitempty" validate:"-"`
	BrandID    *uuid.UUID `gorm:"type:uuid;index" json:"brand_id"`
	Brand      *Brand     `json:"brand,omitempty" validate:"-"`

	Price    int64  `gorm:"not null;default:0" json:"price" validate:"gte=0"`     // sell price, rupiah
	BuyPrice int64  `gorm:"not null;default:0" json:"buy_price" validate:"gte=0"` // purchase cost, rupiah
	Stock    int    `gorm:"default:0" json:"stock" validate:"gte=0"`
	MinStock int    `gorm:"default:0" json:"min_stock" validate:"gte=0"` // reorder threshold, display only
	Unit     string `gorm:"type:varchar(20)" json:"unit"`
	ImageURL string `gorm:"type:varchar(500)" json:"image_url"`
}

// Status returns the display classification. A product with zero stock
// is out of stock even when min_stock is also zero.
func (p *Product) Status() StockStatus {
	if p.Stock == 0 {
		return StockOut
	}
	if p.Stock <= p.MinStock {
		return StockLow
	}
	return StockInStock
}

// IsLowStock reports whether the product sits at or below its reorder
// threshold, boundary inclusive.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
