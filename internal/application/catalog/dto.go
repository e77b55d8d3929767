package catalog

import (
	"time"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/shared"
)

// ServiceRequest represents the body of a service create or update
type ServiceRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// ServiceResponse represents a service in API responses
type ServiceResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ServiceListFilter represents filter options for service list
type ServiceListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DropdownItem is a minimal {id, label} pair for form pickers
type DropdownItem struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// ToServiceResponse converts a domain Service to ServiceResponse
func ToServiceResponse(s *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// RatingRequest represents the body of a rating create or update.
// The rating time is always assigned by the server.
type RatingRequest struct {
	ID         int64  `json:"id"`
	CustomerID int64  `json:"customer_id" binding:"required,gt=0"`
	ServiceID  int64  `json:"service_id" binding:"required,gt=0"`
	Score      int    `json:"score" binding:"required"`
	Comment    string `json:"comment" binding:"max=2000"`
}

// RatingResponse represents a service rating in API responses
type RatingResponse struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	ServiceID    int64     `json:"service_id"`
	ServiceName  string    `json:"service_name"`
	Score        int       `json:"score"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

// RatingListFilter represents filter options for rating list
type RatingListFilter struct {
	CustomerID int64  `form:"customer_id"`
	ServiceID  int64  `form:"service_id"`
	Score      int    `form:"score" binding:"omitempty,min=1,max=5"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToRatingResponse converts a domain ServiceRating to RatingResponse
func ToRatingResponse(r *catalog.ServiceRating, customerName, serviceName string) RatingResponse {
	return RatingResponse{
		ID:           r.ID,
		CustomerID:   r.CustomerID,
		CustomerName: customerName,
		ServiceID:    r.ServiceID,
		ServiceName:  serviceName,
		Score:        r.Score,
		Comment:      r.Comment,
		CreatedAt:    r.CreatedAt,
	}
}

func (r RatingRequest) details() catalog.RatingDetails {
	return catalog.RatingDetails{
		CustomerID: r.CustomerID,
		ServiceID:  r.ServiceID,
		Score:      r.Score,
		Comment:    r.Comment,
	}
}

// buildFilter converts paging and sorting options into a domain filter
func buildFilter(search string, page, pageSize int, orderBy, orderDir string) shared.Filter {
	filter := shared.DefaultFilter()
	filter.Search = search
	filter.Page = page
	filter.PageSize = pageSize
	if orderBy != "" {
		filter.OrderBy = orderBy
	}
	if orderDir != "" {
		filter.OrderDir = orderDir
	}
	return filter
}
