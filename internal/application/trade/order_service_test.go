package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type orderFixture struct {
	svc       *OrderService
	orders    *MockOrderRepository
	customers *MockCustomerRepository
	tiers     *MockTierRecomputer
}

func newOrderFixture() orderFixture {
	f := orderFixture{
		orders:    new(MockOrderRepository),
		customers: new(MockCustomerRepository),
		tiers:     new(MockTierRecomputer),
	}
	f.svc = NewOrderService(f.orders, f.customers, f.tiers, zap.NewNop())
	return f
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("saves and recomputes the customer tier", func(t *testing.T) {
		f := newOrderFixture()
		f.customers.On("FindByID", ctx, int64(1)).Return(newTestCustomer(1, "An"), nil)
		f.orders.On("Save", ctx, mock.AnythingOfType("*trade.Order")).
			Run(func(args mock.Arguments) { args.Get(1).(*trade.Order).ID = 7 }).
			Return(nil)
		f.tiers.On("RecomputeTier", ctx, int64(1)).Return(nil).Once()

		resp, err := f.svc.Create(ctx, OrderRequest{
			CustomerID:  1,
			TotalAmount: decimal.NewFromInt(90_000_000),
			Status:      "Paid",
		})

		require.NoError(t, err)
		assert.Equal(t, "DH007", resp.Code)
		assert.Equal(t, "An", resp.CustomerName)
		assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(90_000_000)))
		assert.False(t, resp.PurchaseDate.IsZero())
		f.tiers.AssertExpectations(t)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newOrderFixture()
		f.customers.On("FindByID", ctx, int64(5)).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, OrderRequest{CustomerID: 5, Status: "Paid"})

		assert.EqualError(t, err, "Customer 5 not found")
		f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.tiers.AssertNotCalled(t, "RecomputeTier", mock.Anything, mock.Anything)
	})

	t.Run("negative total", func(t *testing.T) {
		f := newOrderFixture()
		f.customers.On("FindByID", ctx, int64(1)).Return(newTestCustomer(1, "An"), nil)

		_, err := f.svc.Create(ctx, OrderRequest{CustomerID: 1, TotalAmount: decimal.NewFromInt(-1), Status: "Paid"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_AMOUNT", domainErr.Code)
	})

	t.Run("tier failure surfaces", func(t *testing.T) {
		f := newOrderFixture()
		f.customers.On("FindByID", ctx, int64(1)).Return(newTestCustomer(1, "An"), nil)
		f.orders.On("Save", ctx, mock.Anything).Return(nil)
		f.tiers.On("RecomputeTier", ctx, int64(1)).Return(errors.New("sum failed"))

		_, err := f.svc.Create(ctx, OrderRequest{CustomerID: 1, Status: "Paid"})

		assert.EqualError(t, err, "sum failed")
	})
}

func TestOrderService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("same customer is recomputed once", func(t *testing.T) {
		f := newOrderFixture()
		order := newTestOrder(3, 1, "100")
		f.orders.On("FindByID", ctx, int64(3)).Return(order, nil)
		f.orders.On("Save", ctx, order).Return(nil)
		f.tiers.On("RecomputeTier", ctx, int64(1)).Return(nil).Once()

		err := f.svc.Update(ctx, 3, OrderRequest{ID: 3, CustomerID: 1, TotalAmount: decimal.NewFromInt(500), Status: "Paid"})

		require.NoError(t, err)
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(500)))
		f.tiers.AssertExpectations(t)
		f.customers.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("moving an order recomputes both customers", func(t *testing.T) {
		f := newOrderFixture()
		order := newTestOrder(3, 1, "90000000")
		f.orders.On("FindByID", ctx, int64(3)).Return(order, nil)
		f.customers.On("FindByID", ctx, int64(2)).Return(newTestCustomer(2, "Binh"), nil)
		f.orders.On("Save", ctx, order).Return(nil)
		f.tiers.On("RecomputeTier", ctx, int64(2)).Return(nil).Once()
		f.tiers.On("RecomputeTier", ctx, int64(1)).Return(nil).Once()

		err := f.svc.Update(ctx, 3, OrderRequest{CustomerID: 2, TotalAmount: decimal.NewFromInt(90_000_000), Status: "Paid"})

		require.NoError(t, err)
		assert.Equal(t, int64(2), order.CustomerID)
		f.tiers.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByID", ctx, int64(9)).Return(nil, shared.ErrNotFound)

		err := f.svc.Update(ctx, 9, OrderRequest{CustomerID: 1, Status: "Paid"})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes the former owner", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByID", ctx, int64(3)).Return(newTestOrder(3, 4, "90000000"), nil)
		f.orders.On("Delete", ctx, int64(3)).Return(nil)
		f.tiers.On("RecomputeTier", ctx, int64(4)).Return(nil).Once()

		require.NoError(t, f.svc.Delete(ctx, 3))
		f.tiers.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		f := newOrderFixture()
		f.orders.On("FindByID", ctx, int64(3)).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, f.svc.Delete(ctx, 3), shared.ErrNotFound)
		f.tiers.AssertNotCalled(t, "RecomputeTier", mock.Anything, mock.Anything)
	})
}

func TestOrderService_ListAndDropdown(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	orders := []trade.Order{*newTestOrder(1, 1, "10"), *newTestOrder(2, 9, "20")}
	f.orders.On("FindAll", ctx, mock.Anything).Return(orders, nil)
	f.orders.On("Count", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["customer_id"] == int64(1)
	})).Return(int64(2), nil)
	f.customers.On("FindByIDs", ctx, []int64{1, 9}).
		Return([]partner.Customer{*newTestCustomer(1, "Nguyen Van A")}, nil)

	list, total, err := f.svc.List(ctx, OrderListFilter{CustomerID: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "Nguyen Van A", list[0].CustomerName)
	assert.Equal(t, partner.DeletedCustomerName, list[1].CustomerName)

	items, err := f.svc.Dropdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, []DropdownItem{
		{ID: 1, Label: "DH001-Nguyen Van A"},
		{ID: 2, Label: "DH002-" + partner.DeletedCustomerName},
	}, items)
}
