package identity

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	FindByID(ctx context.Context, id int64) (*Account, error)

	// FindByUsername looks up an account by exact, case-sensitive username
	FindByUsername(ctx context.Context, username string) (*Account, error)

	FindAll(ctx context.Context, filter shared.Filter) ([]Account, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id int64) error
	ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error)
}
