package partner

import (
	"context"

	"github.com/crm/backend/internal/domain/shared"
)

// ContactEventRepository defines the interface for contact history persistence
type ContactEventRepository interface {
	FindByID(ctx context.Context, id int64) (*ContactEvent, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ContactEvent, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, event *ContactEvent) error
	Delete(ctx context.Context, id int64) error
}
