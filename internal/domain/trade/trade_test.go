package trade

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("creates order", func(t *testing.T) {
		purchased := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
		o, err := NewOrder(OrderDetails{
			CustomerID:   3,
			PurchaseDate: purchased,
			TotalAmount:  decimal.NewFromInt(90_000_000),
			Status:       " Delivered ",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(3), o.CustomerID)
		assert.Equal(t, purchased, o.PurchaseDate)
		assert.Equal(t, "Delivered", o.Status)
	})

	t.Run("defaults purchase date to now", func(t *testing.T) {
		o, err := NewOrder(OrderDetails{CustomerID: 1, Status: "New"})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), o.PurchaseDate, time.Minute)
	})

	t.Run("rejects negative total", func(t *testing.T) {
		_, err := NewOrder(OrderDetails{CustomerID: 1, Status: "New", TotalAmount: decimal.NewFromInt(-1)})
		assert.ErrorContains(t, err, "cannot be negative")
	})

	t.Run("requires customer and status", func(t *testing.T) {
		_, err := NewOrder(OrderDetails{Status: "New"})
		assert.ErrorContains(t, err, "Customer is required")

		_, err = NewOrder(OrderDetails{CustomerID: 1})
		assert.ErrorContains(t, err, "status cannot be empty")
	})
}

func TestOrder_Code(t *testing.T) {
	o := &Order{}
	o.ID = 7
	assert.Equal(t, "DH007", o.Code())
}

func TestNewOrderLineItem(t *testing.T) {
	li, err := NewOrderLineItem(LineItemDetails{OrderID: 1, ProductName: "Spa package", Quantity: 3, UnitPrice: decimal.RequireFromString("150000.50")})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("450001.50").Equal(li.Subtotal()))

	_, err = NewOrderLineItem(LineItemDetails{OrderID: 1, ProductName: "x", Quantity: 0})
	assert.ErrorContains(t, err, "greater than 0")

	_, err = NewOrderLineItem(LineItemDetails{OrderID: 1, ProductName: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(-5)})
	assert.ErrorContains(t, err, "cannot be negative")

	free, err := NewOrderLineItem(LineItemDetails{OrderID: 1, ProductName: "Gift", Quantity: 1, UnitPrice: decimal.Zero})
	require.NoError(t, err)
	assert.True(t, free.Subtotal().IsZero())
}

func TestNewOrderStatusEvent(t *testing.T) {
	e, err := NewOrderStatusEvent(StatusEventDetails{OrderID: 2, Status: "Shipped"})
	require.NoError(t, err)
	assert.False(t, e.ChangedAt.IsZero())

	at := time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, e.Update(StatusEventDetails{OrderID: 2, Status: "Delivered", ChangedAt: at, Note: "left at door"}))
	assert.Equal(t, at, e.ChangedAt)
	assert.Equal(t, "left at door", e.Note)

	_, err = NewOrderStatusEvent(StatusEventDetails{OrderID: 2})
	assert.Error(t, err)
}
