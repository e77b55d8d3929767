package partner

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// FindByID finds a customer by its ID
	FindByID(ctx context.Context, id int64) (*Customer, error)

	// FindByIDs finds the customers with the given IDs; unknown IDs are skipped
	FindByIDs(ctx context.Context, ids []int64) ([]Customer, error)

	// FindAll finds all customers matching the filter.
	// Search matches code, name, phone and email case-insensitively.
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create issues the next customer code and inserts the customer
	Create(ctx context.Context, customer *Customer) error

	// CreateBatch inserts all customers in one transaction, issuing a code for
	// each. Nothing is written if any row fails; the error is an *ImportRowError.
	CreateBatch(ctx context.Context, customers []*Customer) error

	// SaveWithLock saves a customer with optimistic locking (version check)
	SaveWithLock(ctx context.Context, customer *Customer) error

	// UpdateTier persists only the tier column
	UpdateTier(ctx context.Context, id int64, tier Tier) error

	// Delete deletes a customer
	Delete(ctx context.Context, id int64) error

	// ExistsByPhone checks whether another customer uses the phone
	ExistsByPhone(ctx context.Context, phone string, excludeID int64) (bool, error)

	// ExistsByEmail checks whether another customer uses the email (case-insensitive)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}
