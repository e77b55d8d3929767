package models

import (
	"github.com/crm/backend/internal/domain/catalog"
)

// ServiceModel is the persistence model for the Service domain entity.
type ServiceModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ServiceModel) TableName() string {
	return "services"
}

// ToDomain converts the persistence model to a domain Service entity.
func (m *ServiceModel) ToDomain() *catalog.Service {
	return &catalog.Service{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Description: m.Description,
	}
}

// ServiceModelFromDomain creates a new persistence model from a domain Service entity.
func ServiceModelFromDomain(s *catalog.Service) *ServiceModel {
	m := &ServiceModel{Name: s.Name, Description: s.Description}
	m.FromDomainBaseEntity(s.BaseEntity)
	return m
}

// ServiceRatingModel is the persistence model for the ServiceRating domain entity.
type ServiceRatingModel struct {
	BaseModel
	CustomerID int64  `gorm:"not null;index"`
	ServiceID  int64  `gorm:"not null;index"`
	Score      int    `gorm:"type:smallint;not null"`
	Comment    string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ServiceRatingModel) TableName() string {
	return "service_ratings"
}

// ToDomain converts the persistence model to a domain ServiceRating entity.
func (m *ServiceRatingModel) ToDomain() *catalog.ServiceRating {
	return &catalog.ServiceRating{
		BaseEntity: m.BaseModel.ToDomain(),
		CustomerID: m.CustomerID,
		ServiceID:  m.ServiceID,
		Score:      m.Score,
		Comment:    m.Comment,
	}
}

// ServiceRatingModelFromDomain creates a new persistence model from a domain ServiceRating entity.
func ServiceRatingModelFromDomain(r *catalog.ServiceRating) *ServiceRatingModel {
	m := &ServiceRatingModel{
		CustomerID: r.CustomerID,
		ServiceID:  r.ServiceID,
		Score:      r.Score,
		Comment:    r.Comment,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
