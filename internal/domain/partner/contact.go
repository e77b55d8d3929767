package partner

import (
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
)

// ContactEvent records one interaction with a customer. ContactedAt is
// always the server time of the last write.
type ContactEvent struct {
	shared.BaseEntity
	CustomerID  int64
	Channel     string
	ContactedAt time.Time
	StaffRating *int
	Outcome     string
	Note        string
}

// ContactDetails carries the client-editable fields of a contact event
type ContactDetails struct {
	CustomerID  int64
	Channel     string
	StaffRating *int
	Outcome     string
	Note        string
}

// NewContactEvent creates a contact event stamped with now
func NewContactEvent(d ContactDetails, now time.Time) (*ContactEvent, error) {
	e := &ContactEvent{BaseEntity: shared.NewBaseEntity()}
	if err := e.apply(d, now); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the editable fields and re-stamps ContactedAt
func (e *ContactEvent) Update(d ContactDetails, now time.Time) error {
	if err := e.apply(d, now); err != nil {
		return err
	}
	e.Touch()
	return nil
}

func (e *ContactEvent) apply(d ContactDetails, now time.Time) error {
	if d.CustomerID <= 0 {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	channel := strings.TrimSpace(d.Channel)
	if channel == "" {
		return shared.NewDomainError("INVALID_CHANNEL", "Contact channel cannot be empty")
	}
	outcome := strings.TrimSpace(d.Outcome)
	if outcome == "" {
		return shared.NewDomainError("INVALID_OUTCOME", "Contact outcome cannot be empty")
	}
	if d.StaffRating != nil {
		if err := shared.ValidateScore("staff_rating", *d.StaffRating); err != nil {
			return err
		}
	}

	e.CustomerID = d.CustomerID
	e.Channel = channel
	e.Outcome = outcome
	e.StaffRating = d.StaffRating
	e.Note = strings.TrimSpace(d.Note)
	e.ContactedAt = now
	return nil
}
