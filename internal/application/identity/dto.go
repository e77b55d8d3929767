package identity

import (
	"time"

	"github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/domain/shared"
)

// LoginRequest represents the login body
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginResponse carries the issued session token
type LoginResponse struct {
	Token      string    `json:"token"`
	Expiration time.Time `json:"expiration"`
}

// AccountRequest represents the body of an account create or update.
// An empty password on update keeps the current one.
type AccountRequest struct {
	ID       int64  `json:"id"`
	Username string `json:"username" binding:"required,max=100"`
	Password string `json:"password" binding:"max=72"`
	Role     string `json:"role" binding:"required,oneof=admin employee"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	Phone    string `json:"phone" binding:"max=20"`
}

// AccountResponse represents an account in API responses. The password
// hash is never exposed.
type AccountResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountListFilter represents filter options for account list
type AccountListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=admin employee"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToAccountResponse converts a domain Account to AccountResponse
func ToAccountResponse(a *identity.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Username:  a.Username,
		Role:      string(a.Role),
		Email:     a.Email,
		Phone:     a.Phone,
		CreatedAt: a.CreatedAt,
	}
}

func (r AccountRequest) details() identity.AccountDetails {
	return identity.AccountDetails{
		Username: r.Username,
		Role:     identity.Role(r.Role),
		Email:    r.Email,
		Phone:    r.Phone,
	}
}

func (f AccountListFilter) domainFilter() shared.Filter {
	filter := shared.DefaultFilter()
	filter.Search = f.Search
	filter.Page = f.Page
	filter.PageSize = f.PageSize
	if f.OrderBy != "" {
		filter.OrderBy = f.OrderBy
	}
	if f.OrderDir != "" {
		filter.OrderDir = f.OrderDir
	}
	if f.Role != "" {
		filter.Filters["role"] = f.Role
	}
	return filter
}
