package catalog

import (
	"context"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RatingService handles customer ratings of services
type RatingService struct {
	ratingRepo   catalog.ServiceRatingRepository
	serviceRepo  catalog.ServiceRepository
	customerRepo partner.CustomerRepository
	logger       *zap.Logger
}

// NewRatingService creates a new RatingService
func NewRatingService(
	ratingRepo catalog.ServiceRatingRepository,
	serviceRepo catalog.ServiceRepository,
	customerRepo partner.CustomerRepository,
	logger *zap.Logger,
) *RatingService {
	return &RatingService{
		ratingRepo:   ratingRepo,
		serviceRepo:  serviceRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create records a rating of an existing service by an existing customer
func (s *RatingService) Create(ctx context.Context, req RatingRequest) (*RatingResponse, error) {
	rating, err := catalog.NewServiceRating(req.details())
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, shared.NotFoundAs(err, "Customer", req.CustomerID)
	}
	service, err := s.serviceRepo.FindByID(ctx, req.ServiceID)
	if err != nil {
		return nil, shared.NotFoundAs(err, "Service", req.ServiceID)
	}

	if err := s.ratingRepo.Save(ctx, rating); err != nil {
		return nil, err
	}

	s.logger.Info("Service rated",
		zap.Int64("rating_id", rating.ID),
		zap.Int64("service_id", rating.ServiceID),
		zap.Int("score", rating.Score))

	response := ToRatingResponse(rating, customer.Name, service.Name)
	return &response, nil
}

// GetByID retrieves a rating by ID
func (s *RatingService) GetByID(ctx context.Context, id int64) (*RatingResponse, error) {
	rating, err := s.ratingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	responses, err := s.withNames(ctx, []catalog.ServiceRating{*rating})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// List retrieves ratings with their customer and service names
func (s *RatingService) List(ctx context.Context, filter RatingListFilter) ([]RatingResponse, int64, error) {
	domainFilter := buildFilter("", filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir)
	if filter.CustomerID > 0 {
		domainFilter.Filters["customer_id"] = filter.CustomerID
	}
	if filter.ServiceID > 0 {
		domainFilter.Filters["service_id"] = filter.ServiceID
	}
	if filter.Score > 0 {
		domainFilter.Filters["score"] = filter.Score
	}

	ratings, err := s.ratingRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ratingRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses, err := s.withNames(ctx, ratings)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// Update replaces a rating; its creation time is kept
func (s *RatingService) Update(ctx context.Context, id int64, req RatingRequest) error {
	rating, err := s.ratingRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if req.CustomerID != rating.CustomerID {
		if _, err := s.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
			return shared.NotFoundAs(err, "Customer", req.CustomerID)
		}
	}
	if req.ServiceID != rating.ServiceID {
		if _, err := s.serviceRepo.FindByID(ctx, req.ServiceID); err != nil {
			return shared.NotFoundAs(err, "Service", req.ServiceID)
		}
	}

	if err := rating.Update(req.details()); err != nil {
		return err
	}
	return s.ratingRepo.Save(ctx, rating)
}

// Delete deletes a rating
func (s *RatingService) Delete(ctx context.Context, id int64) error {
	return s.ratingRepo.Delete(ctx, id)
}

// withNames resolves customer and service names with one lookup per table
func (s *RatingService) withNames(ctx context.Context, ratings []catalog.ServiceRating) ([]RatingResponse, error) {
	customerIDs := make([]int64, len(ratings))
	serviceIDs := make([]int64, 0, len(ratings))
	seen := make(map[int64]bool, len(ratings))
	for i := range ratings {
		customerIDs[i] = ratings[i].CustomerID
		if !seen[ratings[i].ServiceID] {
			seen[ratings[i].ServiceID] = true
			serviceIDs = append(serviceIDs, ratings[i].ServiceID)
		}
	}

	customerNames, err := partner.LoadNameIndex(ctx, s.customerRepo, customerIDs)
	if err != nil {
		return nil, err
	}
	services, err := s.serviceRepo.FindByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}
	serviceNames := make(map[int64]string, len(services))
	for _, svc := range services {
		serviceNames[svc.ID] = svc.Name
	}

	responses := make([]RatingResponse, len(ratings))
	for i := range ratings {
		serviceName, ok := serviceNames[ratings[i].ServiceID]
		if !ok {
			serviceName = catalog.DeletedServiceName
		}
		responses[i] = ToRatingResponse(&ratings[i], customerNames.Name(ratings[i].CustomerID), serviceName)
	}
	return responses, nil
}
