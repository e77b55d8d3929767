package persistence

import (
	"context"
	"fmt"

	"github.com/crm/backend/internal/domain/numbering"
	"gorm.io/gorm"
)

// nextNumberSQL increments the counter of a sequence in a single statement.
// The conflicting row is locked by the upsert, so concurrent callers are
// serialized by the database and never observe the same value.
const nextNumberSQL = `INSERT INTO auto_numbers (table_name, last_number) VALUES (?, 1)
ON CONFLICT (table_name) DO UPDATE SET last_number = auto_numbers.last_number + 1
RETURNING last_number`

// nextSequenceValue runs the increment on db, which may be a transaction
func nextSequenceValue(db *gorm.DB, sequence string) (int64, error) {
	var n int64
	if err := db.Raw(nextNumberSQL, sequence).Scan(&n).Error; err != nil {
		return 0, fmt.Errorf("next number for %s: %w", sequence, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("next number for %s: no value returned", sequence)
	}
	return n, nil
}

// GormAutoNumberRepository implements numbering.Generator using GORM
type GormAutoNumberRepository struct {
	db *gorm.DB
}

// NewGormAutoNumberRepository creates a new GormAutoNumberRepository
func NewGormAutoNumberRepository(db *gorm.DB) *GormAutoNumberRepository {
	return &GormAutoNumberRepository{db: db}
}

// Next returns the next number of the sequence, starting at 1
func (r *GormAutoNumberRepository) Next(ctx context.Context, sequence string) (int64, error) {
	return nextSequenceValue(r.db.WithContext(ctx), sequence)
}

// Current returns the last number issued for the sequence, or 0 if none was issued
func (r *GormAutoNumberRepository) Current(ctx context.Context, sequence string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table("auto_numbers").
		Select("COALESCE(MAX(last_number), 0)").
		Where("table_name = ?", sequence).
		Scan(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Ensure GormAutoNumberRepository implements numbering.Generator
var _ numbering.Generator = (*GormAutoNumberRepository)(nil)
