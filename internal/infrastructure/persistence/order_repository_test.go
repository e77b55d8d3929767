package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, customerID int64, total string) *trade.Order {
	t.Helper()
	o, err := trade.NewOrder(trade.OrderDetails{
		CustomerID:  customerID,
		TotalAmount: decimal.RequireFromString(total),
		Status:      "pending",
	})
	require.NoError(t, err)
	return o
}

func TestGormOrderRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	order := newTestOrder(t, 1, "1250000.50")
	require.NoError(t, repo.Save(ctx, order))
	require.NotZero(t, order.ID)

	t.Run("finds the stored order", func(t *testing.T) {
		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("1250000.50").Equal(found.TotalAmount))
		assert.Equal(t, "pending", found.Status)
		assert.Equal(t, "DH001", found.Code())
	})

	t.Run("updates an existing order", func(t *testing.T) {
		require.NoError(t, order.Update(trade.OrderDetails{
			CustomerID:   2,
			TotalAmount:  decimal.NewFromInt(10),
			Status:       "paid",
			PurchaseDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		}))
		require.NoError(t, repo.Save(ctx, order))

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), found.CustomerID)
		assert.Equal(t, "paid", found.Status)
	})

	t.Run("updating a missing order returns ErrNotFound", func(t *testing.T) {
		ghost := newTestOrder(t, 1, "1")
		ghost.ID = 999
		assert.Equal(t, shared.ErrNotFound, repo.Save(ctx, ghost))
	})

	t.Run("deleting a missing order returns ErrNotFound", func(t *testing.T) {
		assert.Equal(t, shared.ErrNotFound, repo.Delete(ctx, 999))
	})

	t.Run("finding a missing order returns ErrNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 999)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormOrderRepository_SumOrderTotals(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderRepository(db)
	ctx := context.Background()

	for _, total := range []string{"50000000", "29999999.99", "1000"} {
		require.NoError(t, repo.Save(ctx, newTestOrder(t, 1, total)))
	}
	require.NoError(t, repo.Save(ctx, newTestOrder(t, 2, "90000000")))

	t.Run("sums the orders of one customer", func(t *testing.T) {
		sum, err := repo.SumOrderTotals(ctx, 1)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("80000999.99").Equal(sum), "got %s", sum)
	})

	t.Run("returns zero for a customer without orders", func(t *testing.T) {
		sum, err := repo.SumOrderTotals(ctx, 3)
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
	})

	t.Run("filters by customer", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["customer_id"] = int64(1)
		orders, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, orders, 3)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestGormOrderLineItemRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderLineItemRepository(db)
	ctx := context.Background()

	for _, orderID := range []int64{1, 1, 2} {
		item, err := trade.NewOrderLineItem(trade.LineItemDetails{
			OrderID:     orderID,
			ProductName: "Massage",
			Quantity:    2,
			UnitPrice:   decimal.NewFromInt(150000),
		})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, item))
	}

	filter := shared.DefaultFilter()
	filter.Filters["order_id"] = int64(1)
	items, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.True(t, decimal.NewFromInt(300000).Equal(items[0].Subtotal()))

	require.NoError(t, repo.Delete(ctx, items[0].ID))
	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormOrderStatusEventRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormOrderStatusEventRepository(db)
	ctx := context.Background()

	event, err := trade.NewOrderStatusEvent(trade.StatusEventDetails{OrderID: 4, Status: "shipped", Note: "by courier"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, event))

	found, err := repo.FindByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "shipped", found.Status)
	assert.Equal(t, "by courier", found.Note)
	assert.False(t, found.ChangedAt.IsZero())

	filter := shared.DefaultFilter()
	filter.Search = "COURIER"
	events, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
