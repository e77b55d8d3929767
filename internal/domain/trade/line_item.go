package trade

import (
	"strings"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderLineItem is one product line of an order
type OrderLineItem struct {
	shared.BaseEntity
	OrderID     int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// LineItemDetails carries the client-editable fields of a line item
type LineItemDetails struct {
	OrderID     int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// NewOrderLineItem creates a line item
func NewOrderLineItem(d LineItemDetails) (*OrderLineItem, error) {
	li := &OrderLineItem{BaseEntity: shared.NewBaseEntity()}
	if err := li.apply(d); err != nil {
		return nil, err
	}
	return li, nil
}

// Update replaces the editable fields
func (li *OrderLineItem) Update(d LineItemDetails) error {
	if err := li.apply(d); err != nil {
		return err
	}
	li.Touch()
	return nil
}

// Subtotal returns quantity * unit price
func (li *OrderLineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

func (li *OrderLineItem) apply(d LineItemDetails) error {
	if d.OrderID <= 0 {
		return shared.NewDomainError("INVALID_ORDER", "Order is required")
	}
	name := strings.TrimSpace(d.ProductName)
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT", "Product name cannot be empty")
	}
	if d.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than 0")
	}
	if d.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	li.OrderID = d.OrderID
	li.ProductName = name
	li.Quantity = d.Quantity
	li.UnitPrice = d.UnitPrice
	return nil
}
