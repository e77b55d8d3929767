package partner

import (
	"context"
	"time"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ContactService handles the contact history of customers
type ContactService struct {
	contactRepo  partner.ContactEventRepository
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo partner.ContactEventRepository, customerRepo partner.CustomerRepository, logger *zap.Logger) *ContactService {
	return &ContactService{
		contactRepo:  contactRepo,
		customerRepo: customerRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// Create records a contact, stamped with the current time
func (s *ContactService) Create(ctx context.Context, req ContactRequest) (*ContactResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, shared.NotFoundAs(err, "Customer", req.CustomerID)
	}

	event, err := partner.NewContactEvent(req.details(), s.now())
	if err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, event); err != nil {
		return nil, err
	}

	s.logger.Info("Contact recorded",
		zap.Int64("contact_id", event.ID),
		zap.Int64("customer_id", event.CustomerID),
		zap.String("channel", event.Channel),
		zap.String("outcome", event.Outcome))

	response := ToContactResponse(event, customer.Name)
	return &response, nil
}

// GetByID retrieves a contact by ID
func (s *ContactService) GetByID(ctx context.Context, id int64) (*ContactResponse, error) {
	event, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	names, err := partner.LoadNameIndex(ctx, s.customerRepo, []int64{event.CustomerID})
	if err != nil {
		return nil, err
	}

	response := ToContactResponse(event, names.Name(event.CustomerID))
	return &response, nil
}

// List retrieves contacts with their customer names
func (s *ContactService) List(ctx context.Context, filter ContactListFilter) ([]ContactResponse, int64, error) {
	domainFilter := buildFilter(filter.Search, filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if filter.CustomerID > 0 {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}
	if filter.Channel != "" {
		domainFilter.Filters["channel"] = filter.Channel
	}
	if filter.Outcome != "" {
		domainFilter.Filters["outcome"] = filter.Outcome
	}

	events, err := s.contactRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.contactRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]int64, len(events))
	for i := range events {
		ids[i] = events[i].CustomerID
	}
	names, err := partner.LoadNameIndex(ctx, s.customerRepo, ids)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ContactResponse, len(events))
	for i := range events {
		responses[i] = ToContactResponse(&events[i], names.Name(events[i].CustomerID))
	}
	return responses, total, nil
}

// Update replaces a contact and re-stamps its contact time
func (s *ContactService) Update(ctx context.Context, id int64, req ContactRequest) error {
	event, err := s.contactRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if req.CustomerID != event.CustomerID {
		if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
			return shared.NotFoundAs(err, "Customer", req.CustomerID)
		}
	}

	if err := event.Update(req.details(), s.now()); err != nil {
		return err
	}
	if err := s.contactRepo.Save(ctx, event); err != nil {
		return err
	}

	s.logger.Info("Contact updated",
		zap.Int64("contact_id", event.ID),
		zap.Int64("customer_id", event.CustomerID))
	return nil
}

// Delete deletes a contact
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	if err := s.contactRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Contact deleted", zap.Int64("contact_id", id))
	return nil
}
