package trade

import (
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Order DTOs
// =============================================================================

// OrderRequest represents the body of an order create or update
type OrderRequest struct {
	ID           int64           `json:"id"`
	CustomerID   int64           `json:"customer_id" binding:"required,gt=0"`
	PurchaseDate time.Time       `json:"purchase_date"` // zero means now
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       string          `json:"status" binding:"required,max=50"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	CustomerID   int64           `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	PurchaseDate time.Time       `json:"purchase_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       string          `json:"status"`
}

// OrderListFilter represents filter options for order list
type OrderListFilter struct {
	Search     string `form:"search"`
	CustomerID int64  `form:"customer_id"`
	Status     string `form:"status"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// DropdownItem is a minimal {id, label} pair for form pickers
type DropdownItem struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order, customerName string) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		Code:         o.Code(),
		CustomerID:   o.CustomerID,
		CustomerName: customerName,
		PurchaseDate: o.PurchaseDate,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
	}
}

func (r OrderRequest) details() trade.OrderDetails {
	return trade.OrderDetails{
		CustomerID:   r.CustomerID,
		PurchaseDate: r.PurchaseDate,
		TotalAmount:  r.TotalAmount,
		Status:       r.Status,
	}
}

// =============================================================================
// Line item DTOs
// =============================================================================

// LineItemRequest represents the body of a line item create or update
type LineItemRequest struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id" binding:"required,gt=0"`
	ProductName string          `json:"product_name" binding:"required,max=200"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// LineItemResponse represents a line item in API responses
type LineItemResponse struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// ToLineItemResponse converts a domain OrderLineItem to LineItemResponse
func ToLineItemResponse(li *trade.OrderLineItem) LineItemResponse {
	return LineItemResponse{
		ID:          li.ID,
		OrderID:     li.OrderID,
		ProductName: li.ProductName,
		Quantity:    li.Quantity,
		UnitPrice:   li.UnitPrice,
		Subtotal:    li.Subtotal(),
	}
}

func (r LineItemRequest) details() trade.LineItemDetails {
	return trade.LineItemDetails{
		OrderID:     r.OrderID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
	}
}

// =============================================================================
// Status event DTOs
// =============================================================================

// StatusEventRequest represents the body of a status event create or update
type StatusEventRequest struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id" binding:"required,gt=0"`
	Status    string    `json:"status" binding:"required,max=50"`
	Note      string    `json:"note" binding:"max=500"`
	ChangedAt time.Time `json:"changed_at"` // zero means now
}

// StatusEventResponse represents a status event in API responses
type StatusEventResponse struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	ChangedAt time.Time `json:"changed_at"`
}

// ToStatusEventResponse converts a domain OrderStatusEvent to StatusEventResponse
func ToStatusEventResponse(e *trade.OrderStatusEvent) StatusEventResponse {
	return StatusEventResponse{
		ID:        e.ID,
		OrderID:   e.OrderID,
		Status:    e.Status,
		Note:      e.Note,
		ChangedAt: e.ChangedAt,
	}
}

func (r StatusEventRequest) details() trade.StatusEventDetails {
	return trade.StatusEventDetails{
		OrderID:   r.OrderID,
		Status:    r.Status,
		Note:      r.Note,
		ChangedAt: r.ChangedAt,
	}
}

// OrderChildFilter lists the line items or status events, optionally of one order
type OrderChildFilter struct {
	OrderID  int64  `form:"order_id"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f OrderChildFilter) domainFilter() shared.Filter {
	filter := buildFilter("", f.Page, f.PageSize, f.OrderBy, f.OrderDir)
	if f.OrderID > 0 {
		filter.Filters["order_id"] = f.OrderID
	}
	return filter
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
