// Package checkout implements the cashier register: per-session carts,
// totals, and the payment flows (cash, card, and deferred QRIS).
package checkout

import (
	"errors"
	"sync"
	"time"

	"gadget-prima-pos/internal/model"

	"github.com/google/uuid"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrLineNotFound      = errors.New("item not in cart")
	ErrEmptyCart         = errors.New("cart is empty")
)

// Line is one cart line item. ProductName and Price are snapshots taken
// when the product is first added; they are not re-read afterwards.
type Line struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       int64     `json:"price"`
	Quantity    int       `json:"quantity"`
	Subtotal    int64     `json:"subtotal"`
}

// Cart is the register state for one checkout session. It lives in
// memory only: it is discarded on submit, explicit clear, or session
// expiry, matching the ephemeral cart of the original register.
type Cart struct {
	mu sync.Mutex

	ID            string              `json:"id"`
	Items         []Line              `json:"items"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func NewCart() *Cart {
	return &Cart{
		ID:            uuid.New().String(),
		Items:         []Line{},
		PaymentMethod: model.PaymentCash,
		UpdatedAt:     time.Now(),
	}
}

// AddItem adds one unit of the product. An existing line is incremented;
// the increment is refused without any state change when it would exceed
// the product's known stock.
func (c *Cart) AddItem(p *model.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UpdatedAt = time.Now()

	for i := range c.Items {
		if c.Items[i].ProductID == p.ID {
			if c.Items[i].Quantity+1 > p.Stock {
				return ErrInsufficientStock
			}
			c.Items[i].Quantity++
			c.Items[i].Subtotal = int64(c.Items[i].Quantity) * c.Items[i].Price
			return nil
		}
	}

	if p.Stock < 1 {
		return ErrInsufficientStock
	}
	c.Items = append(c.Items, Line{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       p.Price,
		Quantity:    1,
		Subtotal:    p.Price,
	})
	return nil
}

// UpdateQuantity applies a delta to a line. A resulting quantity of zero
// or less removes the line; exceeding the product's known stock rejects
// the change and leaves the line untouched.
func (c *Cart) UpdateQuantity(productID uuid.UUID, delta int, stock int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UpdatedAt = time.Now()

	for i := range c.Items {
		if c.Items[i].ProductID != productID {
			continue
		}
		newQuantity := c.Items[i].Quantity + delta
		if newQuantity <= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
		if newQuantity > stock {
			return ErrInsufficientStock
		}
		c.Items[i].Quantity = newQuantity
		c.Items[i].Subtotal = int64(newQuantity) * c.Items[i].Price
		return nil
	}
	return ErrLineNotFound
}

// RemoveItem unconditionally drops the line.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UpdatedAt = time.Now()

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Subtotal is the sum of all line subtotals.
func (c *Cart) Subtotal() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, line := range c.Items {
		total += line.Subtotal
	}
	return total
}

// Clear empties the cart and resets the payment method to cash.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Items = []Line{}
	c.PaymentMethod = model.PaymentCash
	c.UpdatedAt = time.Now()
}

// Lines returns a copy of the current line items.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]Line, len(c.Items))
	copy(lines, c.Items)
	return lines
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Items) == 0
}

func (c *Cart) touchedBefore(cutoff time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.UpdatedAt.Before(cutoff)
}
