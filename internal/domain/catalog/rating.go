package catalog

import (
	"context"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
)

// ServiceRating is a customer's 1..5 satisfaction score for a service.
// CreatedAt is assigned by the server when the rating is recorded.
type ServiceRating struct {
	shared.BaseEntity
	CustomerID int64
	ServiceID  int64
	Score      int
	Comment    string
}

// RatingDetails carries the client-editable fields of a rating
type RatingDetails struct {
	CustomerID int64
	ServiceID  int64
	Score      int
	Comment    string
}

// NewServiceRating creates a rating
func NewServiceRating(d RatingDetails) (*ServiceRating, error) {
	r := &ServiceRating{BaseEntity: shared.NewBaseEntity()}
	if err := r.apply(d); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the editable fields; CreatedAt is kept
func (r *ServiceRating) Update(d RatingDetails) error {
	if err := r.apply(d); err != nil {
		return err
	}
	r.Touch()
	return nil
}

func (r *ServiceRating) apply(d RatingDetails) error {
	if d.CustomerID <= 0 {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if d.ServiceID <= 0 {
		return shared.NewDomainError("INVALID_SERVICE", "Service is required")
	}
	if err := shared.ValidateScore("score", d.Score); err != nil {
		return err
	}
	r.CustomerID = d.CustomerID
	r.ServiceID = d.ServiceID
	r.Score = d.Score
	r.Comment = strings.TrimSpace(d.Comment)
	return nil
}

// ServiceRatingRepository defines the interface for rating persistence
type ServiceRatingRepository interface {
	FindByID(ctx context.Context, id int64) (*ServiceRating, error)
	// FindAll supports the customer_id and service_id filters
	FindAll(ctx context.Context, filter shared.Filter) ([]ServiceRating, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, rating *ServiceRating) error
	Delete(ctx context.Context, id int64) error
}
