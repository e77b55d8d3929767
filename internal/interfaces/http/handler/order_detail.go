package handler

import (
	reportapp "github.com/crm/backend/internal/application/report"
	tradeapp "github.com/crm/backend/internal/application/trade"
	"github.com/crm/backend/internal/domain/report"
	"github.com/gin-gonic/gin"
)

// LineItemHandler handles order line item endpoints
type LineItemHandler struct {
	BaseHandler
	lineItemService *tradeapp.LineItemService
	reportService   *reportapp.ReportService
}

// NewLineItemHandler creates a new LineItemHandler
func NewLineItemHandler(lineItemService *tradeapp.LineItemService, reportService *reportapp.ReportService) *LineItemHandler {
	return &LineItemHandler{lineItemService: lineItemService, reportService: reportService}
}

// List godoc
// @ID           listOrderLineItems
// @Summary      List order line items
// @Tags         order-line-items
// @Produce      json
// @Param        order_id  query int false "Only the items of this order"
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size"
// @Success      200 {array} tradeapp.LineItemResponse
// @Header       200 {integer} X-Total-Count "Number of matching items"
// @Security     BearerAuth
// @Router       /order-line-item [get]
func (h *LineItemHandler) List(c *gin.Context) {
	var filter tradeapp.OrderChildFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.lineItemService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, items, total)
}

// GetByID godoc
// @ID           getOrderLineItemById
// @Summary      Get line item by ID
// @Tags         order-line-items
// @Produce      json
// @Param        id path int true "Line item ID"
// @Success      200 {object} tradeapp.LineItemResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order-line-item/{id} [get]
func (h *LineItemHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	item, err := h.lineItemService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create godoc
// @ID           createOrderLineItem
// @Summary      Add a line item to an order
// @Tags         order-line-items
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.LineItemRequest true "Line item"
// @Success      201 {object} tradeapp.LineItemResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order-line-item [post]
func (h *LineItemHandler) Create(c *gin.Context) {
	var req tradeapp.LineItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.lineItemService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update godoc
// @ID           updateOrderLineItem
// @Summary      Update a line item
// @Tags         order-line-items
// @Accept       json
// @Param        id      path int                      true "Line item ID"
// @Param        request body tradeapp.LineItemRequest true "Line item"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order-line-item/{id} [put]
func (h *LineItemHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.LineItemRequest
	if !h.BindJSON(c, &req) || !h.CheckIDMismatch(c, id, req.ID) {
		return
	}

	if err := h.lineItemService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @ID           deleteOrderLineItem
// @Summary      Delete a line item
// @Tags         order-line-items
// @Param        id path int true "Line item ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order-line-item/{id} [delete]
func (h *LineItemHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.lineItemService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Count godoc
// @ID           countOrderLineItems
// @Summary      Number of line items
// @Tags         order-line-items
// @Produce      json
// @Success      200 {integer} int
// @Security     BearerAuth
// @Router       /order-line-item/count [get]
func (h *LineItemHandler) Count(c *gin.Context) {
	n, err := h.reportService.Count(c.Request.Context(), report.EntityOrderLineItem)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// StatusEventHandler handles order status history endpoints
type StatusEventHandler struct {
	BaseHandler
	eventService  *tradeapp.StatusEventService
	reportService *reportapp.ReportService
}

// NewStatusEventHandler creates a new StatusEventHandler
func NewStatusEventHandler(eventService *tradeapp.StatusEventService, reportService *reportapp.ReportService) *StatusEventHandler {
	return &StatusEventHandler{eventService: eventService, reportService: reportService}
}

// List godoc
// @ID           listOrderStatusEvents
// @Summary      List order status events
// @Tags         order-status-events
// @Produce      json
// @Param        order_id  query int false "Only the events of this order"
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size"
// @Success      200 {array} tradeapp.StatusEventResponse
// @Header       200 {integer} X-Total-Count "Number of matching events"
// @Security     BearerAuth
// @Router       /order-status-event [get]
func (h *StatusEventHandler) List(c *gin.Context) {
	var filter tradeapp.OrderChildFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	events, total, err := h.eventService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, events, total)
}

// GetByID godoc
// @ID           getOrderStatusEventById
// @Summary      Get status event by ID
// @Tags         order-status-events
// @Produce      json
// @Param        id path int true "Status event ID"
// @Success      200 {object} tradeapp.StatusEventResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order-status-event/{id} [get]
func (h *StatusEventHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, event)
}

// Create godoc
// @ID           createOrderStatusEvent
// @Summary      Record an order status change
// @Tags         order-status-events
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.StatusEventRequest true "Status event"
// @Success      201 {object} tradeapp.StatusEventResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order-status-event [post]
func (h *StatusEventHandler) Create(c *gin.Context) {
	var req tradeapp.StatusEventRequest
	if !h.BindJSON(c, &req) {
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, event)
}

// Update godoc
// @ID           updateOrderStatusEvent
// @Summary      Update a status event
// @Tags         order-status-events
// @Accept       json
// @Param        id      path int                         true "Status event ID"
// @Param        request body tradeapp.StatusEventRequest true "Status event"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order-status-event/{id} [put]
func (h *StatusEventHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req tradeapp.StatusEventRequest
	if !h.BindJSON(c, &req) || !h.CheckIDMismatch(c, id, req.ID) {
		return
	}

	if err := h.eventService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @ID           deleteOrderStatusEvent
// @Summary      Delete a status event
// @Tags         order-status-events
// @Param        id path int true "Status event ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /order-status-event/{id} [delete]
func (h *StatusEventHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Count godoc
// @ID           countOrderStatusEvents
// @Summary      Number of status events
// @Tags         order-status-events
// @Produce      json
// @Success      200 {integer} int
// @Security     BearerAuth
// @Router       /order-status-event/count [get]
func (h *StatusEventHandler) Count(c *gin.Context) {
	n, err := h.reportService.Count(c.Request.Context(), report.EntityOrderStatusEvent)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}
