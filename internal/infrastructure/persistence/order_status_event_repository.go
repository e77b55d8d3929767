package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/trade"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderStatusEventRepository implements OrderStatusEventRepository using GORM
type GormOrderStatusEventRepository struct {
	db *gorm.DB
}

// NewGormOrderStatusEventRepository creates a new GormOrderStatusEventRepository
func NewGormOrderStatusEventRepository(db *gorm.DB) *GormOrderStatusEventRepository {
	return &GormOrderStatusEventRepository{db: db}
}

// FindByID finds a status event by its ID
func (r *GormOrderStatusEventRepository) FindByID(ctx context.Context, id int64) (*trade.OrderStatusEvent, error) {
	var model models.OrderStatusEventModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all status events matching the filter
func (r *GormOrderStatusEventRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.OrderStatusEvent, error) {
	var eventModels []models.OrderStatusEventModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.OrderStatusEventModel{}), filter)
	query = orderBy(paginate(query, filter), filter, OrderStatusEventSortFields)

	if err := query.Find(&eventModels).Error; err != nil {
		return nil, err
	}
	events := make([]trade.OrderStatusEvent, len(eventModels))
	for i, model := range eventModels {
		events[i] = *model.ToDomain()
	}
	return events, nil
}

// Count counts status events matching the filter
func (r *GormOrderStatusEventRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.OrderStatusEventModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a status event
func (r *GormOrderStatusEventRepository) Save(ctx context.Context, event *trade.OrderStatusEvent) error {
	model := models.OrderStatusEventModelFromDomain(event)
	if event.IsNew() {
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		event.ID = model.ID
		return nil
	}
	return updateExisting(r.db.WithContext(ctx), model, model.ID)
}

// Delete deletes a status event
func (r *GormOrderStatusEventRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.db.WithContext(ctx), &models.OrderStatusEventModel{}, id)
}

func (r *GormOrderStatusEventRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(status) LIKE ?" + likeEscape + " OR LOWER(note) LIKE ?" + likeEscape, pattern, pattern)
	}
	if orderID, ok := filter.Filters["order_id"]; ok {
		query = query.Where("order_id = ?", orderID)
	}
	return query
}

// Ensure GormOrderStatusEventRepository implements OrderStatusEventRepository
var _ trade.OrderStatusEventRepository = (*GormOrderStatusEventRepository)(nil)
