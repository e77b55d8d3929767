package models

// AutoNumberModel is the counter row behind a numbering sequence
type AutoNumberModel struct {
	Sequence   string `gorm:"column:table_name;type:varchar(100);primaryKey"`
	LastNumber int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (AutoNumberModel) TableName() string {
	return "auto_numbers"
}

// AllModels lists every persistence model, in dependency order.
// Used to build schemas for SQLite-backed tests.
func AllModels() []any {
	return []any{
		&AutoNumberModel{},
		&CustomerModel{},
		&ContactEventModel{},
		&ServiceModel{},
		&ServiceRatingModel{},
		&OrderModel{},
		&OrderLineItemModel{},
		&OrderStatusEventModel{},
		&AccountModel{},
	}
}
