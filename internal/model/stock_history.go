package model

import "github.com/google/uuid"

type StockMovementType string

const (
	MovementIn         StockMovementType = "in"
	MovementOut        StockMovementType = "out"
	MovementAdjustment StockMovementType = "adjustment"
)

// StockHistory is the movement ledger behind every stock mutation:
// checkout decrements, manual adjustments, and releases from cancelled
// or expired payments.
type StockHistory struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`

	Type           StockMovementType `gorm:"type:varchar(12);not null" json:"type"`
	Amount         int               `gorm:"not null" json:"amount"` // signed for adjustments
	ResultingStock int               `gorm:"not null" json:"resulting_stock"`
	Reason         string            `gorm:"type:varchar(255)" json:"reason"`
	Actor          string            `gorm:"type:varchar(255)" json:"actor"`
}
