package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContactEventRepository implements ContactEventRepository using GORM
type GormContactEventRepository struct {
	db *gorm.DB
}

// NewGormContactEventRepository creates a new GormContactEventRepository
func NewGormContactEventRepository(db *gorm.DB) *GormContactEventRepository {
	return &GormContactEventRepository{db: db}
}

// FindByID finds a contact event by its ID
func (r *GormContactEventRepository) FindByID(ctx context.Context, id int64) (*partner.ContactEvent, error) {
	var model models.ContactEventModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all contact events matching the filter
func (r *GormContactEventRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.ContactEvent, error) {
	var eventModels []models.ContactEventModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ContactEventModel{}), filter)
	query = orderBy(paginate(query, filter), filter, ContactEventSortFields)

	if err := query.Find(&eventModels).Error; err != nil {
		return nil, err
	}
	events := make([]partner.ContactEvent, len(eventModels))
	for i, model := range eventModels {
		events[i] = *model.ToDomain()
	}
	return events, nil
}

// Count counts contact events matching the filter
func (r *GormContactEventRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ContactEventModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a contact event
func (r *GormContactEventRepository) Save(ctx context.Context, event *partner.ContactEvent) error {
	model := models.ContactEventModelFromDomain(event)
	if event.IsNew() {
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		event.ID = model.ID
		return nil
	}
	return updateExisting(r.db.WithContext(ctx), model, model.ID)
}

// Delete deletes a contact event
func (r *GormContactEventRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.db.WithContext(ctx), &models.ContactEventModel{}, id)
}

func (r *GormContactEventRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(channel) LIKE ?" + likeEscape + " OR LOWER(outcome) LIKE ?" + likeEscape + " OR LOWER(note) LIKE ?" + likeEscape, pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "channel":
			query = query.Where("channel = ?", value)
		case "outcome":
			query = query.Where("outcome = ?", value)
		}
	}
	return query
}

// Ensure GormContactEventRepository implements ContactEventRepository
var _ partner.ContactEventRepository = (*GormContactEventRepository)(nil)
