package trade

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id int64) (*Order, error)

	// FindByIDs finds the orders with the given IDs; unknown IDs are skipped
	FindByIDs(ctx context.Context, ids []int64) ([]Order, error)

	// FindAll finds all orders matching the filter.
	// Supported filters: customer_id, status.
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an order
	Save(ctx context.Context, order *Order) error

	// Delete deletes an order
	Delete(ctx context.Context, id int64) error

	// SumOrderTotals sums TotalAmount over the orders of a customer (0 when none)
	SumOrderTotals(ctx context.Context, customerID int64) (decimal.Decimal, error)
}

// OrderLineItemRepository defines the interface for line item persistence
type OrderLineItemRepository interface {
	FindByID(ctx context.Context, id int64) (*OrderLineItem, error)
	// FindAll supports the order_id filter
	FindAll(ctx context.Context, filter shared.Filter) ([]OrderLineItem, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, item *OrderLineItem) error
	Delete(ctx context.Context, id int64) error
}

// OrderStatusEventRepository defines the interface for status history persistence
type OrderStatusEventRepository interface {
	FindByID(ctx context.Context, id int64) (*OrderStatusEvent, error)
	// FindAll supports the order_id filter
	FindAll(ctx context.Context, filter shared.Filter) ([]OrderStatusEvent, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, event *OrderStatusEvent) error
	Delete(ctx context.Context, id int64) error
}
