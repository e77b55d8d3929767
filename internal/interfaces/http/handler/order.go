package handler

import (
	reportapp "github.com/crm/backend/internal/application/report"
	tradeapp "github.com/crm/backend/internal/application/trade"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles order-related API endpoints
type OrderHandler struct {
	BaseHandler
	orderService  *tradeapp.OrderService
	reportService *reportapp.ReportService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService, reportService *reportapp.ReportService) *OrderHandler {
	return &OrderHandler{
		orderService:  orderService,
		reportService: reportService,
	}
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        search      query string false "Search term"
// @Param        customer_id query int    false "Customer filter"
// @Param        status      query string false "Status filter"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size"
// @Success      200 {array} tradeapp.OrderResponse
// @Header       200 {integer} X-Total-Count "Number of matching orders"
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, orders, total)
}

// GetByID godoc
// @ID           getOrderById
// @Summary      Get order by ID
// @Tags         orders
// @Produce      json
// @Param        id path int true "Order ID"
// @Success      200 {object} tradeapp.OrderResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Create godoc
// @ID           createOrder
// @Summary      Create a new order
// @Description  The order code is issued by the server and the customer's tier is recomputed
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.OrderRequest true "Order"
// @Success      201 {object} tradeapp.OrderResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req tradeapp.OrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Update godoc
// @ID           updateOrder
// @Summary      Update an order
// @Description  Tiers of both the previous and the new customer are recomputed
// @Tags         orders
// @Accept       json
// @Param        id      path int                   true "Order ID"
// @Param        request body tradeapp.OrderRequest true "Order"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.OrderRequest
	if !h.BindJSON(c, &req) || !h.CheckIDMismatch(c, id, req.ID) {
		return
	}

	if err := h.orderService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @ID           deleteOrder
// @Summary      Delete an order
// @Tags         orders
// @Param        id path int true "Order ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Dropdown godoc
// @ID           orderDropdown
// @Summary      Order picker entries
// @Tags         orders
// @Produce      json
// @Success      200 {array} tradeapp.DropdownItem
// @Security     BearerAuth
// @Router       /order/dropdown [get]
func (h *OrderHandler) Dropdown(c *gin.Context) {
	items, err := h.orderService.Dropdown(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Count godoc
// @ID           countOrders
// @Summary      Number of orders
// @Tags         orders
// @Produce      json
// @Success      200 {integer} int
// @Security     BearerAuth
// @Router       /order/count [get]
func (h *OrderHandler) Count(c *gin.Context) {
	n, err := h.reportService.CountOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}
