package models

import (
	"github.com/crm/backend/internal/domain/identity"
)

// AccountModel is the persistence model for the Account domain entity.
type AccountModel struct {
	BaseModel
	Username     string        `gorm:"type:varchar(100);not null;uniqueIndex:idx_accounts_username"`
	PasswordHash string        `gorm:"type:varchar(255);not null"`
	Role         identity.Role `gorm:"type:varchar(20);not null;default:'employee'"`
	Email        string        `gorm:"type:varchar(200)"`
	Phone        string        `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *identity.Account {
	return &identity.Account{
		BaseEntity:   m.BaseModel.ToDomain(),
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		Email:        m.Email,
		Phone:        m.Phone,
	}
}

// AccountModelFromDomain creates a new persistence model from a domain Account entity.
func AccountModelFromDomain(a *identity.Account) *AccountModel {
	m := &AccountModel{
		Username:     a.Username,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		Email:        a.Email,
		Phone:        a.Phone,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}
