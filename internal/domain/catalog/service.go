package catalog

import (
	"context"
	"strings"

	"github.com/crm/backend/internal/domain/shared"
)

// DeletedServiceName is shown in place of a service that no longer exists
const DeletedServiceName = "(deleted service)"

// Service is an offering customers can buy and rate
type Service struct {
	shared.BaseEntity
	Name        string
	Description string
}

// NewService creates a service
func NewService(name, description string) (*Service, error) {
	s := &Service{BaseEntity: shared.NewBaseEntity()}
	if err := s.apply(name, description); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the editable fields
func (s *Service) Update(name, description string) error {
	if err := s.apply(name, description); err != nil {
		return err
	}
	s.Touch()
	return nil
}

func (s *Service) apply(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Service name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Service name cannot exceed 200 characters")
	}
	s.Name = name
	s.Description = strings.TrimSpace(description)
	return nil
}

// ServiceRepository defines the interface for service persistence
type ServiceRepository interface {
	FindByID(ctx context.Context, id int64) (*Service, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Service, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Service, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, service *Service) error
	Delete(ctx context.Context, id int64) error
}
