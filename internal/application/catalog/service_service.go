package catalog

import (
	"context"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ServiceService handles the service catalog
type ServiceService struct {
	serviceRepo catalog.ServiceRepository
	logger      *zap.Logger
}

// NewServiceService creates a new ServiceService
func NewServiceService(serviceRepo catalog.ServiceRepository, logger *zap.Logger) *ServiceService {
	return &ServiceService{
		serviceRepo: serviceRepo,
		logger:      logger,
	}
}

// Create creates a new service
func (s *ServiceService) Create(ctx context.Context, req ServiceRequest) (*ServiceResponse, error) {
	service, err := catalog.NewService(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.serviceRepo.Save(ctx, service); err != nil {
		return nil, err
	}

	s.logger.Info("Service created",
		zap.Int64("service_id", service.ID),
		zap.String("name", service.Name))

	response := ToServiceResponse(service)
	return &response, nil
}

// GetByID retrieves a service by ID
func (s *ServiceService) GetByID(ctx context.Context, id int64) (*ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToServiceResponse(service)
	return &response, nil
}

// List retrieves services matching the filter
func (s *ServiceService) List(ctx context.Context, filter ServiceListFilter) ([]ServiceResponse, int64, error) {
	domainFilter := buildFilter(filter.Search, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)

	services, err := s.serviceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.serviceRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ServiceResponse, len(services))
	for i := range services {
		responses[i] = ToServiceResponse(&services[i])
	}
	return responses, total, nil
}

// Update replaces a service
func (s *ServiceService) Update(ctx context.Context, id int64, req ServiceRequest) error {
	service, err := s.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := service.Update(req.Name, req.Description); err != nil {
		return err
	}
	return s.serviceRepo.Save(ctx, service)
}

// Delete deletes a service. Its ratings keep the dangling reference.
func (s *ServiceService) Delete(ctx context.Context, id int64) error {
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Service deleted", zap.Int64("service_id", id))
	return nil
}

// Dropdown returns every service labelled by name
func (s *ServiceService) Dropdown(ctx context.Context) ([]DropdownItem, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "name"

	services, err := s.serviceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]DropdownItem, len(services))
	for i := range services {
		items[i] = DropdownItem{ID: services[i].ID, Label: services[i].Name}
	}
	return items, nil
}
