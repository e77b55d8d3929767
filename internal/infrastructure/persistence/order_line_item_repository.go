package persistence

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/trade"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderLineItemRepository implements OrderLineItemRepository using GORM
type GormOrderLineItemRepository struct {
	db *gorm.DB
}

// NewGormOrderLineItemRepository creates a new GormOrderLineItemRepository
func NewGormOrderLineItemRepository(db *gorm.DB) *GormOrderLineItemRepository {
	return &GormOrderLineItemRepository{db: db}
}

// FindByID finds a line item by its ID
func (r *GormOrderLineItemRepository) FindByID(ctx context.Context, id int64) (*trade.OrderLineItem, error) {
	var model models.OrderLineItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all line items matching the filter
func (r *GormOrderLineItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.OrderLineItem, error) {
	var itemModels []models.OrderLineItemModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.OrderLineItemModel{}), filter)
	query = orderBy(paginate(query, filter), filter, OrderLineItemSortFields)

	if err := query.Find(&itemModels).Error; err != nil {
		return nil, err
	}
	items := make([]trade.OrderLineItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Count counts line items matching the filter
func (r *GormOrderLineItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.OrderLineItemModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a line item
func (r *GormOrderLineItemRepository) Save(ctx context.Context, item *trade.OrderLineItem) error {
	model := models.OrderLineItemModelFromDomain(item)
	if item.IsNew() {
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return err
		}
		item.ID = model.ID
		return nil
	}
	return updateExisting(r.db.WithContext(ctx), model, model.ID)
}

// Delete deletes a line item
func (r *GormOrderLineItemRepository) Delete(ctx context.Context, id int64) error {
	return deleteByID(r.db.WithContext(ctx), &models.OrderLineItemModel{}, id)
}

func (r *GormOrderLineItemRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(product_name) LIKE ?" + likeEscape, searchPattern(filter.Search))
	}
	if orderID, ok := filter.Filters["order_id"]; ok {
		query = query.Where("order_id = ?", orderID)
	}
	return query
}

// Ensure GormOrderLineItemRepository implements OrderLineItemRepository
var _ trade.OrderLineItemRepository = (*GormOrderLineItemRepository)(nil)
