package cache

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Invalidator drops cached aggregates
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// tables whose writes never change a report
var invalidationSkipTables = map[string]bool{
	"auto_numbers": true,
}

const commitCallback = "gorm:commit_or_rollback_transaction"

// RegisterInvalidation hooks the report cache into gorm so that every
// committed create, update or delete clears it. Writes made inside an open
// transaction clear it once that transaction commits.
func RegisterInvalidation(db *gorm.DB, inv Invalidator, logger *zap.Logger) error {
	callback := func(tx *gorm.DB) {
		if tx.Error != nil || tx.Statement.RowsAffected == 0 {
			return
		}
		table := tx.Statement.Table
		if invalidationSkipTables[table] {
			return
		}
		invalidate := func(ctx context.Context) {
			if err := inv.Invalidate(ctx); err != nil {
				logger.Warn("Failed to invalidate report cache",
					zap.String("table", table),
					zap.Error(err))
			}
		}

		ctx := tx.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		if persistence.AfterCommit(ctx, "report_cache", invalidate) {
			return
		}
		invalidate(ctx)
	}

	if err := db.Callback().Create().After(commitCallback).Register("report_cache:after_create", callback); err != nil {
		return fmt.Errorf("failed to register create invalidation: %w", err)
	}
	if err := db.Callback().Update().After(commitCallback).Register("report_cache:after_update", callback); err != nil {
		return fmt.Errorf("failed to register update invalidation: %w", err)
	}
	if err := db.Callback().Delete().After(commitCallback).Register("report_cache:after_delete", callback); err != nil {
		return fmt.Errorf("failed to register delete invalidation: %w", err)
	}
	return nil
}
