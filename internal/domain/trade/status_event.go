package trade

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
)

// OrderStatusEvent is an entry of an order's status history.
// The history is append-only in practice, but no transition rules apply.
type OrderStatusEvent struct {
	shared.BaseEntity
	OrderID   int64
	Status    string
	Note      string
	ChangedAt time.Time
}

// StatusEventDetails carries the client-editable fields of a status event
type StatusEventDetails struct {
	OrderID   int64
	Status    string
	Note      string
	ChangedAt time.Time // zero means now
}

// NewOrderStatusEvent creates a status history entry
func NewOrderStatusEvent(d StatusEventDetails) (*OrderStatusEvent, error) {
	e := &OrderStatusEvent{BaseEntity: shared.NewBaseEntity()}
	if err := e.apply(d); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the editable fields
func (e *OrderStatusEvent) Update(d StatusEventDetails) error {
	if err := e.apply(d); err != nil {
		return err
	}
	e.Touch()
	return nil
}

func (e *OrderStatusEvent) apply(d StatusEventDetails) error {
	if d.OrderID <= 0 {
		return shared.NewDomainError("INVALID_ORDER", "Order is required")
	}
	status := strings.TrimSpace(d.Status)
	if status == "" {
		return shared.NewDomainError("INVALID_STATUS", "Status cannot be empty")
	}

	e.OrderID = d.OrderID
	e.Status = status
	e.Note = strings.TrimSpace(d.Note)
	if d.ChangedAt.IsZero() {
		e.ChangedAt = time.Now()
	} else {
		e.ChangedAt = d.ChangedAt
	}
	return nil
}
