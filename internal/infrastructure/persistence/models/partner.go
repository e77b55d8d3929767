package models

import (
	"time"

	"github.com/crm/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AggregateModel
	Code        string       `gorm:"type:varchar(20);not null;uniqueIndex:idx_customers_code"`
	Name        string       `gorm:"type:varchar(200);not null"`
	Phone       string       `gorm:"type:varchar(20);not null;uniqueIndex:idx_customers_phone"`
	Address     string       `gorm:"type:varchar(500)"`
	Email       *string      `gorm:"type:varchar(200);uniqueIndex:idx_customers_email"`
	Tier        partner.Tier `gorm:"type:varchar(10);not null;default:'New';index"`
	CreatedDate time.Time    `gorm:"type:date;not null;index"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Code:              m.Code,
		Name:              m.Name,
		Phone:             m.Phone,
		Address:           m.Address,
		Email:             m.Email,
		Tier:              m.Tier,
		CreatedDate:       m.CreatedDate,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.Name = c.Name
	m.Phone = c.Phone
	m.Address = c.Address
	m.Email = c.Email
	m.Tier = c.Tier
	m.CreatedDate = c.CreatedDate
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// ContactEventModel is the persistence model for the ContactEvent domain entity.
// customer_id is deliberately not a foreign key: history outlives deleted customers.
type ContactEventModel struct {
	BaseModel
	CustomerID  int64     `gorm:"not null;index"`
	Channel     string    `gorm:"type:varchar(50);not null"`
	ContactedAt time.Time `gorm:"not null"`
	StaffRating *int      `gorm:"type:smallint"`
	Outcome     string    `gorm:"type:varchar(200);not null"`
	Note        string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ContactEventModel) TableName() string {
	return "contact_events"
}

// ToDomain converts the persistence model to a domain ContactEvent entity.
func (m *ContactEventModel) ToDomain() *partner.ContactEvent {
	return &partner.ContactEvent{
		BaseEntity:  m.BaseModel.ToDomain(),
		CustomerID:  m.CustomerID,
		Channel:     m.Channel,
		ContactedAt: m.ContactedAt,
		StaffRating: m.StaffRating,
		Outcome:     m.Outcome,
		Note:        m.Note,
	}
}

// ContactEventModelFromDomain creates a new persistence model from a domain ContactEvent entity.
func ContactEventModelFromDomain(e *partner.ContactEvent) *ContactEventModel {
	m := &ContactEventModel{
		CustomerID:  e.CustomerID,
		Channel:     e.Channel,
		ContactedAt: e.ContactedAt,
		StaffRating: e.StaffRating,
		Outcome:     e.Outcome,
		Note:        e.Note,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
