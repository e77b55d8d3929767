package partner

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create creates a new customer. The code is issued by the repository.
func (s *CustomerService) Create(ctx context.Context, req CustomerRequest) (*CustomerResponse, error) {
	details, err := req.details()
	if err != nil {
		return nil, err
	}

	customer, err := partner.NewCustomer(details)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, customer, 0); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer created",
		zap.Int64("customer_id", customer.ID),
		zap.String("code", customer.Code))

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id int64) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves a list of customers with filtering and pagination
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := buildFilter(filter.Search, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if filter.Tier != "" {
		domainFilter.Filters["tier"] = filter.Tier
	}

	customers, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.customerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(customers), total, nil
}

// Update replaces the editable fields of a customer. Code and tier are kept.
func (s *CustomerService) Update(ctx context.Context, id int64, req CustomerRequest) error {
	details, err := req.details()
	if err != nil {
		return err
	}

	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if req.Version > 0 && req.Version != customer.Version {
		return shared.ErrConcurrencyConflict
	}

	if err := customer.Update(details); err != nil {
		return err
	}

	if err := s.ensureUnique(ctx, customer, customer.ID); err != nil {
		return err
	}

	return s.customerRepo.SaveWithLock(ctx, customer)
}

// Delete deletes a customer. Orders, ratings and contacts of the customer are
// kept and show a placeholder name.
func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Customer deleted", zap.Int64("customer_id", id))
	return nil
}

// Dropdown returns {id, "CODE-Name"} pairs for every customer
func (s *CustomerService) Dropdown(ctx context.Context) ([]DropdownItem, error) {
	filter := shared.DefaultFilter()
	filter.OrderBy = "code"

	customers, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]DropdownItem, len(customers))
	for i := range customers {
		items[i] = DropdownItem{ID: customers[i].ID, Label: customers[i].DisplayLabel()}
	}
	return items, nil
}

// CheckDuplicate reports whether the phone or email is used by another customer
func (s *CustomerService) CheckDuplicate(ctx context.Context, req DuplicateCheckRequest) (*DuplicateCheckResponse, error) {
	phoneTaken, err := s.customerRepo.ExistsByPhone(ctx, req.Phone, req.ID)
	if err != nil {
		return nil, err
	}
	emailTaken, err := s.customerRepo.ExistsByEmail(ctx, req.Email, req.ID)
	if err != nil {
		return nil, err
	}
	return &DuplicateCheckResponse{
		IsPhoneDuplicate: phoneTaken,
		IsEmailDuplicate: emailTaken,
	}, nil
}

// ensureUnique checks phone and email against every customer except excludeID
func (s *CustomerService) ensureUnique(ctx context.Context, c *partner.Customer, excludeID int64) error {
	exists, err := s.customerRepo.ExistsByPhone(ctx, c.Phone, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("phone %s already exists", c.Phone))
	}

	if c.Email != nil {
		exists, err = s.customerRepo.ExistsByEmail(ctx, *c.Email, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("email %s already exists", *c.Email))
		}
	}
	return nil
}
