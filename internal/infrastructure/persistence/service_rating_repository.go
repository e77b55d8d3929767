package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormServiceRatingRepository implements ServiceRatingRepository using GORM
type GormServiceRatingRepository struct {
	db *gorm.DB
}

// NewGormServiceRatingRepository creates a new GormServiceRatingRepository
func NewGormServiceRatingRepository(db *gorm.DB) *GormServiceRatingRepository {
	return &GormServiceRatingRepository{db: db}
}

// FindByID finds a rating by its ID
func (r *GormServiceRatingRepository) FindByID(ctx context.Context, id int64) (*catalog.ServiceRating, error) {
	var model models.ServiceRatingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all ratings matching the filter
func (r *GormServiceRatingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ServiceRating, error) {
	var ratingModels []models.ServiceRatingModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ServiceRatingModel{}), filter)
	query = orderBy(paginate(query, filter), filter, ServiceRatingSortFields)

	if err := query.Find(&ratingModels).Error; err != nil {
		return nil, err
	}
	ratings := make([]catalog.ServiceRating, len(ratingModels))
	for i, model := range ratingModels {
		ratings[i] = *model.ToDomain()
	}
	return ratings, nil
}

// Count counts ratings matching the filter
func (r *GormServiceRatingRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ServiceRatingModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a rating. created_at is never rewritten.
func (r *GormServiceRatingRepository) Save(ctx context.Context, rating *catalog.ServiceRating) error {
	model := models.ServiceRatingModelFromDomain(rating)
	if rating.IsNew() {
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		rating.ID = model.ID
		return nil
	}
	return updateExisting(r.db.WithContext(ctx), model, model.ID)
}

// Delete deletes a rating
func (r *GormServiceRatingRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.db.WithContext(ctx), &models.ServiceRatingModel{}, id)
}

func (r *GormServiceRatingRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(comment) LIKE ?" + likeEscape, searchPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "service_id":
			query = query.Where("service_id = ?", value)
		case "score":
			query = query.Where("score = ?", value)
		}
	}
	return query
}

// Ensure GormServiceRatingRepository implements ServiceRatingRepository
var _ catalog.ServiceRatingRepository = (*GormServiceRatingRepository)(nil)
