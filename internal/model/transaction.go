package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
	PaymentQRIS PaymentMethod = "qris"
)

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusPaid      TransactionStatus = "paid"
	StatusCancelled TransactionStatus = "cancelled"
	StatusExpired   TransactionStatus = "expired"
)

// Transaction is a completed or in-flight sale. Amounts are snapshots
// taken at checkout; a paid transaction is never mutated afterwards.
type Transaction struct {
	BaseModel
	Number        string            `gorm:"type:varchar(30);uniqueIndex;not null" json:"number"`
	Status        TransactionStatus `gorm:"type:varchar(10);not null;index" json:"status"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(10);not null" json:"payment_method" validate:"required,oneof=cash card qris"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`

	Subtotal   int64 `gorm:"not null" json:"subtotal"`
	Tax        int64 `gorm:"not null" json:"tax"`
	Total      int64 `gorm:"not null" json:"total"`
	AmountPaid int64 `json:"amount_paid"`
	Change     int64 `json:"change"` // cash only

	PaymentRef *string    `gorm:"type:varchar(64);uniqueIndex" json:"payment_ref,omitempty"` // QRIS reference
	QRPayload  string     `gorm:"type:varchar(500)" json:"qr_payload,omitempty"`             // scannable payment URL
	PaidAt     *time.Time `json:"paid_at,omitempty"`

	CashierName string `gorm:"type:varchar(255)" json:"cashier_name"` // denormalized for receipts
}

// TransactionItem is a line-item snapshot: product name and unit price
// are frozen at add-to-cart time, not live references.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName   string    `gorm:"type:varchar(255);not null" json:"product_name"`
	Price         int64     `gorm:"not null" json:"price"` // unit price snapshot
	Quantity      int       `gorm:"not null" json:"quantity" validate:"gt=0"`
	Subtotal      int64     `gorm:"not null" json:"subtotal"`
}
