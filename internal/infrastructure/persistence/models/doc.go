// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel and AggregateModel shared by all tables
//   - partner.go: customers and contact events
//   - trade.go: orders, order line items and order status events
//   - catalog.go: services and service ratings
//   - identity.go: staff accounts
//   - numbering.go: per-table AutoNumber counters
package models
