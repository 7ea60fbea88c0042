package checkout

import (
	"testing"

	"gadget-prima-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(name string, price int64, stock int) *model.Product {
	p := &model.Product{Name: name, Price: price, Stock: stock}
	p.ID = uuid.New()
	return p
}

func TestCartAddItem(t *testing.T) {
	t.Run("same product increments the line", func(t *testing.T) {
		cart := NewCart()
		phone := testProduct("Phone", 100000, 10)

		require.NoError(t, cart.AddItem(phone))
		require.NoError(t, cart.AddItem(phone))

		lines := cart.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Equal(t, int64(200000), lines[0].Subtotal)
		assert.Equal(t, int64(200000), cart.Subtotal())
	})

	t.Run("add beyond stock is refused without changing the cart", func(t *testing.T) {
		cart := NewCart()
		charger := testProduct("Charger", 50000, 3)

		for i := 0; i < 3; i++ {
			require.NoError(t, cart.AddItem(charger))
		}
		err := cart.AddItem(charger)
		assert.ErrorIs(t, err, ErrInsufficientStock)

		lines := cart.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 3, lines[0].Quantity)
	})

	t.Run("out of stock product cannot be added", func(t *testing.T) {
		cart := NewCart()
		err := cart.AddItem(testProduct("Case", 25000, 0))
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.True(t, cart.IsEmpty())
	})
}

func TestCartUpdateQuantity(t *testing.T) {
	t.Run("delta past stock is rejected and the line kept", func(t *testing.T) {
		cart := NewCart()
		charger := testProduct("Charger", 50000, 3)
		for i := 0; i < 3; i++ {
			require.NoError(t, cart.AddItem(charger))
		}

		err := cart.UpdateQuantity(charger.ID, +1, charger.Stock)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, 3, cart.Lines()[0].Quantity)
	})

	t.Run("zero or negative quantity removes the line", func(t *testing.T) {
		cart := NewCart()
		phone := testProduct("Phone", 100000, 10)
		require.NoError(t, cart.AddItem(phone))

		require.NoError(t, cart.UpdateQuantity(phone.ID, -1, phone.Stock))
		assert.True(t, cart.IsEmpty())
	})

	t.Run("unknown product reports line not found", func(t *testing.T) {
		cart := NewCart()
		err := cart.UpdateQuantity(uuid.New(), 1, 10)
		assert.ErrorIs(t, err, ErrLineNotFound)
	})
}

func TestCartRemoveAndReAdd(t *testing.T) {
	// removing a line and adding the product again must restore the
	// identical state
	cart := NewCart()
	phone := testProduct("Phone", 100000, 10)
	charger := testProduct("Charger", 50000, 5)

	require.NoError(t, cart.AddItem(phone))
	require.NoError(t, cart.AddItem(charger))
	before := cart.Subtotal()

	cart.RemoveItem(charger.ID)
	require.Len(t, cart.Lines(), 1)

	require.NoError(t, cart.AddItem(charger))
	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, before, cart.Subtotal())
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, charger.ID, lines[1].ProductID)
}

func TestCartClear(t *testing.T) {
	cart := NewCart()
	cart.PaymentMethod = model.PaymentQRIS
	require.NoError(t, cart.AddItem(testProduct("Phone", 100000, 10)))

	cart.Clear()

	assert.True(t, cart.IsEmpty())
	assert.Equal(t, int64(0), cart.Subtotal())
	assert.Equal(t, model.PaymentCash, cart.PaymentMethod)
}
