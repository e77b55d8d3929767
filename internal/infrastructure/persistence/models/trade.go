package models

import (
	"time"

	"github.com/crm/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	BaseModel
	CustomerID   int64           `gorm:"not null;index"`
	PurchaseDate time.Time       `gorm:"not null"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status       string          `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	return &trade.Order{
		BaseEntity:   m.BaseModel.ToDomain(),
		CustomerID:   m.CustomerID,
		PurchaseDate: m.PurchaseDate,
		TotalAmount:  m.TotalAmount,
		Status:       m.Status,
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		CustomerID:   o.CustomerID,
		PurchaseDate: o.PurchaseDate,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	return m
}

// OrderLineItemModel is the persistence model for the OrderLineItem domain entity.
type OrderLineItemModel struct {
	BaseModel
	OrderID     int64           `gorm:"not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderLineItemModel) TableName() string {
	return "order_line_items"
}

// ToDomain converts the persistence model to a domain OrderLineItem entity.
func (m *OrderLineItemModel) ToDomain() *trade.OrderLineItem {
	return &trade.OrderLineItem{
		BaseEntity:  m.BaseModel.ToDomain(),
		OrderID:     m.OrderID,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
	}
}

// OrderLineItemModelFromDomain creates a new persistence model from a domain OrderLineItem entity.
func OrderLineItemModelFromDomain(li *trade.OrderLineItem) *OrderLineItemModel {
	m := &OrderLineItemModel{
		OrderID:     li.OrderID,
		ProductName: li.ProductName,
		Quantity:    li.Quantity,
		UnitPrice:   li.UnitPrice,
	}
	m.FromDomainBaseEntity(li.BaseEntity)
	return m
}

// OrderStatusEventModel is the persistence model for the OrderStatusEvent domain entity.
type OrderStatusEventModel struct {
	BaseModel
	OrderID   int64     `gorm:"not null;index"`
	Status    string    `gorm:"type:varchar(50);not null"`
	Note      string    `gorm:"type:text"`
	ChangedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderStatusEventModel) TableName() string {
	return "order_status_events"
}

// ToDomain converts the persistence model to a domain OrderStatusEvent entity.
func (m *OrderStatusEventModel) ToDomain() *trade.OrderStatusEvent {
	return &trade.OrderStatusEvent{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderID:    m.OrderID,
		Status:     m.Status,
		Note:       m.Note,
		ChangedAt:  m.ChangedAt,
	}
}

// OrderStatusEventModelFromDomain creates a new persistence model from a domain OrderStatusEvent entity.
func OrderStatusEventModelFromDomain(e *trade.OrderStatusEvent) *OrderStatusEventModel {
	m := &OrderStatusEventModel{
		OrderID:   e.OrderID,
		Status:    e.Status,
		Note:      e.Note,
		ChangedAt: e.ChangedAt,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
