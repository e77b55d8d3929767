package report

import (
	"context"
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/report"
	"go.uber.org/zap"
)

// Cache is the cache-aside store of computed statistics
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// RatingBreakdown holds the integer score percentages of each rating source;
// index 0 is score 1
type RatingBreakdown struct {
	Service [5]int `json:"service"`
	Staff   [5]int `json:"staff"`
}

// ReportService provides the dashboard statistics
type ReportService struct {
	repo   report.ReportRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportService creates a new ReportService. Results are cached for ttl.
func NewReportService(repo report.ReportRepository, cache Cache, ttl time.Duration, logger *zap.Logger) *ReportService {
	return &ReportService{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Count returns the number of rows of an entity
func (s *ReportService) Count(ctx context.Context, entity report.Entity) (int64, error) {
	return cached(ctx, s, "count:"+string(entity), func(ctx context.Context) (int64, error) {
		return s.repo.CountEntities(ctx, entity)
	})
}

// CountCustomers returns the number of customers
func (s *ReportService) CountCustomers(ctx context.Context) (int64, error) {
	return s.Count(ctx, report.EntityCustomer)
}

// CountVIPCustomers returns the number of VIP customers
func (s *ReportService) CountVIPCustomers(ctx context.Context) (int64, error) {
	return cached(ctx, s, "count:customer:vip", func(ctx context.Context) (int64, error) {
		return s.repo.CountCustomersByTier(ctx, string(partner.TierVIP))
	})
}

// CountOrders returns the number of orders
func (s *ReportService) CountOrders(ctx context.Context) (int64, error) {
	return s.Count(ctx, report.EntityOrder)
}

// CountServices returns the number of services
func (s *ReportService) CountServices(ctx context.Context) (int64, error) {
	return s.Count(ctx, report.EntityService)
}

// CountContacts returns the number of contacts
func (s *ReportService) CountContacts(ctx context.Context) (int64, error) {
	return s.Count(ctx, report.EntityContact)
}

// CountAccounts returns the number of accounts
func (s *ReportService) CountAccounts(ctx context.Context) (int64, error) {
	return s.Count(ctx, report.EntityAccount)
}

// AvailableYears returns the distinct customer creation years, newest first
func (s *ReportService) AvailableYears(ctx context.Context) ([]int, error) {
	years, err := cached(ctx, s, "customer:years", s.repo.CustomerYears)
	if err != nil {
		return nil, err
	}
	if years == nil {
		years = []int{}
	}
	return years, nil
}

// MonthlyGrowth returns the customers created in each month of year
func (s *ReportService) MonthlyGrowth(ctx context.Context, year int) ([12]int, error) {
	return cached(ctx, s, fmt.Sprintf("customer:monthly:%d", year), func(ctx context.Context) ([12]int, error) {
		return s.repo.MonthlyNewCustomers(ctx, year)
	})
}

// ContactOutcomes returns the contact counts per channel and outcome
func (s *ReportService) ContactOutcomes(ctx context.Context) ([]report.ContactOutcome, error) {
	outcomes, err := cached(ctx, s, "contact:outcomes", s.repo.ContactOutcomes)
	if err != nil {
		return nil, err
	}
	if outcomes == nil {
		outcomes = []report.ContactOutcome{}
	}
	return outcomes, nil
}

// RatingPercentages combines service scores and staff ratings into
// percentages per satisfaction label, with two decimals
func (s *ReportService) RatingPercentages(ctx context.Context) (map[string]float64, error) {
	return cached(ctx, s, "rating:percentages", func(ctx context.Context) (map[string]float64, error) {
		service, staff, err := s.histograms(ctx)
		if err != nil {
			return nil, err
		}

		labelled := report.LabelledPercentages(service.Plus(staff))
		out := make(map[string]float64, len(labelled))
		for label, pct := range labelled {
			out[label] = pct.InexactFloat64()
		}
		return out, nil
	})
}

// RatingBreakdown returns whole percentages per score, separately for
// service ratings and staff ratings
func (s *ReportService) RatingBreakdown(ctx context.Context) (*RatingBreakdown, error) {
	breakdown, err := cached(ctx, s, "rating:breakdown", func(ctx context.Context) (RatingBreakdown, error) {
		service, staff, err := s.histograms(ctx)
		if err != nil {
			return RatingBreakdown{}, err
		}
		return RatingBreakdown{
			Service: report.WholePercentages(service),
			Staff:   report.WholePercentages(staff),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

func (s *ReportService) histograms(ctx context.Context) (report.Histogram, report.Histogram, error) {
	service, err := s.repo.ServiceScores(ctx)
	if err != nil {
		return report.Histogram{}, report.Histogram{}, err
	}
	staff, err := s.repo.StaffScores(ctx)
	if err != nil {
		return report.Histogram{}, report.Histogram{}, err
	}
	return service, staff, nil
}

// cached reads key from the cache or computes and stores it. Cache errors
// are logged and the value is computed from the database.
func cached[T any](ctx context.Context, s *ReportService, key string, load func(context.Context) (T, error)) (T, error) {
	var value T
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, key, &value)
		if err != nil {
			s.logger.Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return value, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
			s.logger.Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}
