package model

import "time"

// Expense is an operating cost record, used only by financial reporting.
type Expense struct {
	BaseModel
	Date        time.Time `gorm:"type:date;not null;index" json:"date" validate:"required"`
	Description string    `gorm:"type:varchar(255);not null" json:"description" validate:"required"`
	Category    string    `gorm:"type:varchar(100)" json:"category"`
	Amount      int64     `gorm:"not null" json:"amount" validate:"gt=0"`
}
