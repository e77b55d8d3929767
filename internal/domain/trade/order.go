package trade

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/numbering"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Order is a customer purchase. Its business code is derived from the id.
type Order struct {
	shared.BaseEntity
	CustomerID   int64
	PurchaseDate time.Time
	TotalAmount  decimal.Decimal
	Status       string
}

// OrderDetails carries the client-editable fields of an order
type OrderDetails struct {
	CustomerID   int64
	PurchaseDate time.Time // zero means now
	TotalAmount  decimal.Decimal
	Status       string
}

// NewOrder creates a new order
func NewOrder(d OrderDetails) (*Order, error) {
	o := &Order{BaseEntity: shared.NewBaseEntity()}
	if err := o.apply(d); err != nil {
		return nil, err
	}
	return o, nil
}

// Update replaces the editable fields
func (o *Order) Update(d OrderDetails) error {
	if err := o.apply(d); err != nil {
		return err
	}
	o.Touch()
	return nil
}

// Code returns the display code, e.g. DH007
func (o *Order) Code() string {
	return numbering.OrderCode(o.ID)
}

func (o *Order) apply(d OrderDetails) error {
	if d.CustomerID <= 0 {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if d.TotalAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}
	status := strings.TrimSpace(d.Status)
	if status == "" {
		return shared.NewDomainError("INVALID_STATUS", "Order status cannot be empty")
	}
	if len(status) > 50 {
		return shared.NewDomainError("INVALID_STATUS", "Order status cannot exceed 50 characters")
	}

	o.CustomerID = d.CustomerID
	o.TotalAmount = d.TotalAmount
	o.Status = status
	if d.PurchaseDate.IsZero() {
		o.PurchaseDate = time.Now()
	} else {
		o.PurchaseDate = d.PurchaseDate
	}
	return nil
}
