package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crm/backend/internal/domain/report"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// MockReportRepository is a mock implementation of report.ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) CountEntities(ctx context.Context, entity report.Entity) (int64, error) {
	args := m.Called(ctx, entity)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) CountCustomersByTier(ctx context.Context, tier string) (int64, error) {
	args := m.Called(ctx, tier)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) CustomerYears(ctx context.Context) ([]int, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockReportRepository) MonthlyNewCustomers(ctx context.Context, year int) ([12]int, error) {
	args := m.Called(ctx, year)
	return args.Get(0).([12]int), args.Error(1)
}

func (m *MockReportRepository) ContactOutcomes(ctx context.Context) ([]report.ContactOutcome, error) {
	args := m.Called(ctx)
	return args.Get(0).([]report.ContactOutcome), args.Error(1)
}

func (m *MockReportRepository) ServiceScores(ctx context.Context) (report.Histogram, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.Histogram), args.Error(1)
}

func (m *MockReportRepository) StaffScores(ctx context.Context) (report.Histogram, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.Histogram), args.Error(1)
}

// failingCache fails every operation
type failingCache struct{}

func (failingCache) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, any, time.Duration) error {
	return errors.New("cache down")
}

func TestReportService_CountsAreCachedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepository)
	store := cache.NewInMemoryReportCache()
	svc := NewReportService(repo, store, time.Minute, zap.NewNop())

	repo.On("CountEntities", ctx, report.EntityCustomer).Return(int64(3), nil).Once()
	repo.On("CountCustomersByTier", ctx, "VIP").Return(int64(1), nil).Once()

	for i := 0; i < 2; i++ {
		n, err := svc.CountCustomers(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		vip, err := svc.CountVIPCustomers(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), vip)
	}
	repo.AssertExpectations(t)

	require.NoError(t, store.Invalidate(ctx))
	repo.On("CountEntities", ctx, report.EntityCustomer).Return(int64(6), nil).Once()

	n, err := svc.CountCustomers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)
}

func TestReportService_CacheFailureFallsBackToDatabase(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepository)
	core, logs := observer.New(zap.WarnLevel)
	svc := NewReportService(repo, failingCache{}, time.Minute, zap.New(core))
	repo.On("CountEntities", ctx, report.EntityOrder).Return(int64(9), nil)

	n, err := svc.CountOrders(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, 1, logs.FilterMessage("Report cache read failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("Report cache write failed").Len())
}

func TestReportService_YearsAndGrowth(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepository)
	svc := NewReportService(repo, nil, 0, zap.NewNop())
	repo.On("CustomerYears", ctx).Return([]int(nil), nil).Once()
	repo.On("MonthlyNewCustomers", ctx, 2024).Return([12]int{0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}, nil)

	years, err := svc.AvailableYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{}, years)

	growth, err := svc.MonthlyGrowth(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, growth[1])
	assert.Equal(t, 1, growth[11])
}

func TestReportService_RatingPercentages(t *testing.T) {
	ctx := context.Background()

	t.Run("combines service and staff scores", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewReportService(repo, cache.NewInMemoryReportCache(), time.Minute, zap.NewNop())
		// 3 fives and one two from services, two fours from staff
		repo.On("ServiceScores", ctx).Return(report.Histogram{0, 1, 0, 0, 3}, nil)
		repo.On("StaffScores", ctx).Return(report.Histogram{0, 0, 0, 2, 0}, nil)

		pct, err := svc.RatingPercentages(ctx)

		require.NoError(t, err)
		assert.Equal(t, map[string]float64{
			"very_satisfied":    50,
			"satisfied":         33.33,
			"neutral":           0,
			"dissatisfied":      16.67,
			"very_dissatisfied": 0,
		}, pct)

		// served from cache
		again, err := svc.RatingPercentages(ctx)
		require.NoError(t, err)
		assert.Equal(t, pct, again)
		repo.AssertNumberOfCalls(t, "ServiceScores", 1)
	})

	t.Run("no ratings yields zeros for every label", func(t *testing.T) {
		repo := new(MockReportRepository)
		svc := NewReportService(repo, nil, 0, zap.NewNop())
		repo.On("ServiceScores", ctx).Return(report.Histogram{}, nil)
		repo.On("StaffScores", ctx).Return(report.Histogram{}, nil)

		pct, err := svc.RatingPercentages(ctx)

		require.NoError(t, err)
		assert.Len(t, pct, 5)
		for _, v := range pct {
			assert.Zero(t, v)
		}
	})
}

func TestReportService_RatingBreakdown(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepository)
	svc := NewReportService(repo, nil, 0, zap.NewNop())
	repo.On("ServiceScores", ctx).Return(report.Histogram{1, 0, 0, 0, 2}, nil)
	repo.On("StaffScores", ctx).Return(report.Histogram{}, nil)

	breakdown, err := svc.RatingBreakdown(ctx)

	require.NoError(t, err)
	assert.Equal(t, [5]int{33, 0, 0, 0, 67}, breakdown.Service)
	assert.Equal(t, [5]int{}, breakdown.Staff)
}

func TestReportService_ContactOutcomes(t *testing.T) {
	ctx := context.Background()
	repo := new(MockReportRepository)
	svc := NewReportService(repo, nil, 0, zap.NewNop())
	repo.On("ContactOutcomes", ctx).Return([]report.ContactOutcome{{Channel: "Call", Outcome: "Success", Count: 4}}, nil)

	outcomes, err := svc.ContactOutcomes(ctx)

	require.NoError(t, err)
	assert.Equal(t, []report.ContactOutcome{{Channel: "Call", Outcome: "Success", Count: 4}}, outcomes)
}
