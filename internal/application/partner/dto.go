package partner

import (
	"time"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
)

// dateLayout is the wire format of calendar dates
const dateLayout = "2006-01-02"

// =============================================================================
// Customer DTOs
// =============================================================================

// CustomerRequest represents the body of a customer create or update.
// Tier and code are never accepted from clients.
type CustomerRequest struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" binding:"required,max=200"`
	Phone       string `json:"phone" binding:"required,max=20"`
	Address     string `json:"address" binding:"max=500"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	CreatedDate string `json:"created_date"` // yyyy-MM-dd or dd/MM/yyyy; empty means today
	Version     int    `json:"version"`      // optional optimistic-lock check on update
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	Email       *string   `json:"email"`
	Tier        string    `json:"tier"`
	CreatedDate string    `json:"created_date"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int       `json:"version"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Tier     string `form:"tier" binding:"omitempty,oneof=New VIP"`
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

// DuplicateCheckRequest checks phone/email uniqueness, ignoring customer ID
type DuplicateCheckRequest struct {
	ID    int64  `json:"id"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// DuplicateCheckResponse reports which of the checked values are taken
type DuplicateCheckResponse struct {
	IsPhoneDuplicate bool `json:"is_phone_duplicate"`
	IsEmailDuplicate bool `json:"is_email_duplicate"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Phone:       c.Phone,
		Address:     c.Address,
		Email:       c.Email,
		Tier:        string(c.Tier),
		CreatedDate: c.CreatedDate.Format(dateLayout),
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}

// ToCustomerResponses converts a slice of domain Customers to CustomerResponses
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}

func (r CustomerRequest) details() (partner.CustomerDetails, error) {
	d := partner.CustomerDetails{
		Name:    r.Name,
		Phone:   r.Phone,
		Address: r.Address,
		Email:   r.Email,
	}
	if r.CreatedDate != "" {
		date, ok := shared.ParseDate(r.CreatedDate)
		if !ok {
			return d, shared.NewDomainError("INVALID_DATE", "created_date must be yyyy-MM-dd or dd/MM/yyyy")
		}
		d.CreatedDate = date
	}
	return d, nil
}

// =============================================================================
// Import DTOs
// =============================================================================

// ImportCustomerRow is one candidate row of a bulk import
type ImportCustomerRow struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	CreatedDate string `json:"created_date"`
}

// ImportCustomersRequest is the body of a bulk import
type ImportCustomersRequest struct {
	Customers []ImportCustomerRow `json:"customers" binding:"required"`
}

// ImportResult summarizes a successful bulk import
type ImportResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// =============================================================================
// Contact DTOs
// =============================================================================

// ContactRequest represents the body of a contact create or update.
// The contact time is always assigned by the server.
type ContactRequest struct {
	ID          int64  `json:"id"`
	CustomerID  int64  `json:"customer_id" binding:"required,gt=0"`
	Channel     string `json:"channel" binding:"required,max=50"`
	StaffRating *int   `json:"staff_rating" binding:"omitempty,min=1,max=5"`
	Outcome     string `json:"outcome" binding:"required,max=100"`
	Note        string `json:"note"`
}

// ContactResponse represents a contact event in API responses
type ContactResponse struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	Channel      string    `json:"channel"`
	ContactedAt  time.Time `json:"contacted_at"`
	StaffRating  *int      `json:"staff_rating"`
	Outcome      string    `json:"outcome"`
	Note         string    `json:"note"`
}

// ContactListFilter represents filter options for contact list
type ContactListFilter struct {
	Search     string `form:"search"`
	CustomerID int64  `form:"customer_id"`
	Channel    string `form:"channel"`
	Outcome    string `form:"outcome"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToContactResponse converts a domain ContactEvent to ContactResponse
func ToContactResponse(e *partner.ContactEvent, customerName string) ContactResponse {
	return ContactResponse{
		ID:           e.ID,
		CustomerID:   e.CustomerID,
		CustomerName: customerName,
		Channel:      e.Channel,
		ContactedAt:  e.ContactedAt,
		StaffRating:  e.StaffRating,
		Outcome:      e.Outcome,
		Note:         e.Note,
	}
}

func (r ContactRequest) details() partner.ContactDetails {
	return partner.ContactDetails{
		CustomerID:  r.CustomerID,
		Channel:     r.Channel,
		StaffRating: r.StaffRating,
		Outcome:     r.Outcome,
		Note:        r.Note,
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
