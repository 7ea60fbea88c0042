package model

// Brand is master data for the product form dropdown.
type Brand struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
}
