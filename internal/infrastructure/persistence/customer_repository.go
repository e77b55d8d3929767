package persistence

import (
	"context"
	"strings"

	"github.com/crm/backend/internal/domain/numbering"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id int64) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple customers by their IDs
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, ids []int64) ([]partner.Customer, error) {
	if len(ids) == 0 {
		return []partner.Customer{}, nil
	}

	var customerModels []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&customerModels).Error; err != nil {
		return nil, err
	}
	return toCustomers(customerModels), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}
	return toCustomers(customerModels), nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create issues the next customer code and inserts the customer in one transaction,
// so a failed insert does not consume a number
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	return runInTransaction(ctx, r.db, func(tx *gorm.DB) error {
		return insertCustomer(tx, customer)
	})
}

// CreateBatch inserts all customers in a single transaction. The first failing
// row aborts the batch and is reported as an *ImportRowError with its 1-based position.
func (r *GormCustomerRepository) CreateBatch(ctx context.Context, customers []*partner.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	return runInTransaction(ctx, r.db, func(tx *gorm.DB) error {
		for i, c := range customers {
			if err := insertCustomer(tx, c); err != nil {
				return &partner.ImportRowError{Row: i + 1, Err: err}
			}
		}
		return nil
	})
}

func insertCustomer(tx *gorm.DB, customer *partner.Customer) error {
	n, err := nextSequenceValue(tx, numbering.CustomerSequence)
	if err != nil {
		return err
	}
	customer.AssignCode(numbering.CustomerCode(n))

	model := models.CustomerModelFromDomain(customer)
	if err := tx.Create(model).Error; err != nil {
		return translateWriteError(err, "Customer with this phone or email")
	}
	customer.ID = model.ID
	return nil
}

// SaveWithLock saves a customer with optimistic locking (version check)
// Returns error if the version has changed (concurrent modification)
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ? AND version = ?", customer.ID, customer.Version-1).
		Updates(map[string]any{
			"name":         customer.Name,
			"phone":        customer.Phone,
			"address":      customer.Address,
			"email":        customer.Email,
			"created_date": customer.CreatedDate,
			"version":      customer.Version,
			"updated_at":   customer.UpdatedAt,
		})

	if result.Error != nil {
		return translateWriteError(result.Error, "Customer with this phone or email")
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("id = ?", customer.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return shared.ErrNotFound
		}
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// UpdateTier persists the tier column only
func (r *GormCustomerRepository) UpdateTier(ctx context.Context, id int64, tier partner.Tier) error {
	result := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("id = ?", id).
		Update("tier", tier)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.CustomerModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByPhone checks whether a customer other than excludeID uses the phone.
// Phones are stored trimmed, so the lookup trims its input too.
func (r *GormCustomerRepository) ExistsByPhone(ctx context.Context, phone string, excludeID int64) (bool, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false, nil
	}
	return r.exists(ctx, "phone = ?", phone, excludeID)
}

// ExistsByEmail checks whether a customer other than excludeID uses the email.
// Emails are stored case-folded, so the lookup folds its input too. A malformed
// email cannot be stored and is never a duplicate.
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	folded, err := partner.NormalizeEmail(email)
	if err != nil || folded == nil {
		return false, nil
	}
	return r.exists(ctx, "email = ?", *folded, excludeID)
}

func (r *GormCustomerRepository) exists(ctx context.Context, cond string, value any, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where(cond, value)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	query = paginate(query, filter)
	return orderBy(query, filter, CustomerSortFields)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCustomerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := searchPattern(filter.Search)
		query = query.Where("LOWER(code) LIKE ?" + likeEscape + " OR LOWER(name) LIKE ?" + likeEscape + " OR LOWER(phone) LIKE ?" + likeEscape + " OR LOWER(COALESCE(email, '')) LIKE ?" + likeEscape,
			pattern, pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "tier":
			query = query.Where("tier = ?", value)
		}
	}

	return query
}

func toCustomers(customerModels []models.CustomerModel) []partner.Customer {
	customers := make([]partner.Customer, len(customerModels))
	for i, model := range customerModels {
		customers[i] = *model.ToDomain()
	}
	return customers
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
