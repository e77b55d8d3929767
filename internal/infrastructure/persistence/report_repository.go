package persistence

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/report"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var entityModels = map[report.Entity]any{
	report.EntityCustomer:         &models.CustomerModel{},
	report.EntityOrder:            &models.OrderModel{},
	report.EntityOrderLineItem:    &models.OrderLineItemModel{},
	report.EntityOrderStatusEvent: &models.OrderStatusEventModel{},
	report.EntityService:          &models.ServiceModel{},
	report.EntityServiceRating:    &models.ServiceRatingModel{},
	report.EntityContact:          &models.ContactEventModel{},
	report.EntityAccount:          &models.AccountModel{},
}

// GormReportRepository implements ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// CountEntities counts all rows of an entity table
func (r *GormReportRepository) CountEntities(ctx context.Context, entity report.Entity) (int64, error) {
	model, ok := entityModels[entity]
	if !ok {
		return 0, fmt.Errorf("unknown entity %q", entity)
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountCustomersByTier counts customers in a tier
func (r *GormReportRepository) CountCustomersByTier(ctx context.Context, tier string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("tier = ?", tier).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CustomerYears returns the distinct years in which customers were created, newest first
func (r *GormReportRepository) CustomerYears(ctx context.Context) ([]int, error) {
	yearExpr := r.datePart("year", "created_date")
	years := []int{}
	err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Distinct(yearExpr + " AS year").
		Order("year DESC").
		Pluck("year", &years).Error
	if err != nil {
		return nil, err
	}
	return years, nil
}

// MonthlyNewCustomers counts customers created in each month of a year
func (r *GormReportRepository) MonthlyNewCustomers(ctx context.Context, year int) ([12]int, error) {
	var months [12]int
	var rows []struct {
		Month int
		Total int
	}
	monthExpr := r.datePart("month", "created_date")
	err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Select(monthExpr+" AS month, COUNT(*) AS total").
		Where(r.datePart("year", "created_date")+" = ?", year).
		Group(monthExpr).
		Scan(&rows).Error
	if err != nil {
		return months, err
	}
	for _, row := range rows {
		if row.Month >= 1 && row.Month <= 12 {
			months[row.Month-1] = row.Total
		}
	}
	return months, nil
}

// ContactOutcomes groups contact events by channel and outcome
func (r *GormReportRepository) ContactOutcomes(ctx context.Context) ([]report.ContactOutcome, error) {
	outcomes := []report.ContactOutcome{}
	err := r.db.WithContext(ctx).
		Model(&models.ContactEventModel{}).
		Select("channel, outcome, COUNT(*) AS count").
		Group("channel, outcome").
		Order("channel, outcome").
		Scan(&outcomes).Error
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

// ServiceScores counts service ratings per score
func (r *GormReportRepository) ServiceScores(ctx context.Context) (report.Histogram, error) {
	return r.histogram(ctx, &models.ServiceRatingModel{}, "score")
}

// StaffScores counts staff ratings of contact events per score
func (r *GormReportRepository) StaffScores(ctx context.Context) (report.Histogram, error) {
	return r.histogram(ctx, &models.ContactEventModel{}, "staff_rating")
}

func (r *GormReportRepository) histogram(ctx context.Context, model any, column string) (report.Histogram, error) {
	var h report.Histogram
	var rows []struct {
		Score int
		Total int64
	}
	err := r.db.WithContext(ctx).
		Model(model).
		Select(column + " AS score, COUNT(*) AS total").
		Where(column + " IS NOT NULL").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return h, err
	}
	for _, row := range rows {
		h.Add(row.Score, row.Total)
	}
	return h, nil
}

// datePart returns the SQL extracting a year or month from a date column
// in the dialect of the connected database
func (r *GormReportRepository) datePart(part, column string) string {
	if r.db.Dialector.Name() == "sqlite" {
		format := "%Y"
		if part == "month" {
			format = "%m"
		}
		return fmt.Sprintf("CAST(strftime('%s', %s) AS INTEGER)", format, column)
	}
	return fmt.Sprintf("CAST(EXTRACT(%s FROM %s) AS INTEGER)", part, column)
}

// Ensure GormReportRepository implements ReportRepository
var _ report.ReportRepository = (*GormReportRepository)(nil)
