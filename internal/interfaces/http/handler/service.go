package handler

import (
	catalogapp "github.com/crm/backend/internal/application/catalog"
	reportapp "github.com/crm/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ServiceHandler handles the service catalog endpoints
type ServiceHandler struct {
	BaseHandler
	serviceService *catalogapp.ServiceService
	reportService  *reportapp.ReportService
}

// NewServiceHandler creates a new ServiceHandler
func NewServiceHandler(serviceService *catalogapp.ServiceService, reportService *reportapp.ReportService) *ServiceHandler {
	return &ServiceHandler{serviceService: serviceService, reportService: reportService}
}

// List godoc
// @ID           listServices
// @Summary      List services
// @Tags         services
// @Produce      json
// @Param        search    query string false "Search term"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size"
// @Success      200 {array} catalogapp.ServiceResponse
// @Header       200 {integer} X-Total-Count "Number of matching services"
// @Security     BearerAuth
// @Router       /service [get]
func (h *ServiceHandler) List(c *gin.Context) {
	var filter catalogapp.ServiceListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	services, total, err := h.serviceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, services, total)
}

// GetByID godoc
// @ID           getServiceById
// @Summary      Get service by ID
// @Tags         services
// @Produce      json
// @Param        id path int true "Service ID"
// @Success      200 {object} catalogapp.ServiceResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /service/{id} [get]
func (h *ServiceHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	service, err := h.serviceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, service)
}

// Create godoc
// @ID           createService
// @Summary      Create a new service
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ServiceRequest true "Service"
// @Success      201 {object} catalogapp.ServiceResponse
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /service [post]
func (h *ServiceHandler) Create(c *gin.Context) {
	var req catalogapp.ServiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	service, err := h.serviceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, service)
}

// Update godoc
// @ID           updateService
// @Summary      Update a service
// @Tags         services
// @Accept       json
// @Param        id      path int                       true "Service ID"
// @Param        request body catalogapp.ServiceRequest true "Service"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /service/{id} [put]
func (h *ServiceHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ServiceRequest
	if !h.BindJSON(c, &req) || !h.CheckIDMismatch(c, id, req.ID) {
		return
	}

	if err := h.serviceService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @ID           deleteService
// @Summary      Delete a service
// @Tags         services
// @Param        id path int true "Service ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /service/{id} [delete]
func (h *ServiceHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.serviceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Dropdown godoc
// @ID           serviceDropdown
// @Summary      Service picker entries
// @Tags         services
// @Produce      json
// @Success      200 {array} catalogapp.DropdownItem
// @Security     BearerAuth
// @Router       /service/dropdown [get]
func (h *ServiceHandler) Dropdown(c *gin.Context) {
	items, err := h.serviceService.Dropdown(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// Count godoc
// @ID           countServices
// @Summary      Number of services
// @Tags         services
// @Produce      json
// @Success      200 {integer} int
// @Security     BearerAuth
// @Router       /service/count [get]
func (h *ServiceHandler) Count(c *gin.Context) {
	n, err := h.reportService.CountServices(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}
