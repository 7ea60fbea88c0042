package model

// Category is master data for the product form; SKUPrefix drives
// generated SKU codes (e.g. smartphones -> PHN-4821).
type Category struct {
	BaseModel
	Name      string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
	SKUPrefix string `gorm:"type:varchar(10)" json:"sku_prefix"`
}

// DefaultCategories seeds the catalog of a gadget store.
var DefaultCategories = []Category{
	{Name: "Smartphone", SKUPrefix: "PHN"},
	{Name: "Tablet", SKUPrefix: "TAB"},
	{Name: "Aksesoris", SKUPrefix: "ACC"},
}
