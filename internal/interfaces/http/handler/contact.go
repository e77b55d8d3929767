package handler

import (
	partnerapp "github.com/crm/backend/internal/application/partner"
	reportapp "github.com/crm/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ContactHandler handles customer contact history endpoints
type ContactHandler struct {
	BaseHandler
	contactService *partnerapp.ContactService
	reportService  *reportapp.ReportService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *partnerapp.ContactService, reportService *reportapp.ReportService) *ContactHandler {
	return &ContactHandler{contactService: contactService, reportService: reportService}
}

// List godoc
// @ID           listContacts
// @Summary      List contacts
// @Tags         contacts
// @Produce      json
// @Param        search      query string false "Search term"
// @Param        customer_id query int    false "Customer filter"
// @Param        channel     query string false "Channel filter"
// @Param        outcome     query string false "Outcome filter"
// @Param        page        query int    false "Page number" default(1)
// @Param        page_size   query int    false "Page size"
// @Success      200 {array} partnerapp.ContactResponse
// @Header       200 {integer} X-Total-Count "Number of matching contacts"
// @Security     BearerAuth
// @Router       /contact [get]
func (h *ContactHandler) List(c *gin.Context) {
	var filter partnerapp.ContactListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	contacts, total, err := h.contactService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, contacts, total)
}

// GetByID godoc
// @ID           getContactById
// @Summary      Get contact by ID
// @Tags         contacts
// @Produce      json
// @Param        id path int true "Contact ID"
// @Success      200 {object} partnerapp.ContactResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /contact/{id} [get]
func (h *ContactHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	contact, err := h.contactService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// Create godoc
// @ID           createContact
// @Summary      Record a customer contact
// @Description  The contact time is set by the server
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.ContactRequest true "Contact"
// @Success      201 {object} partnerapp.ContactResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /contact [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var req partnerapp.ContactRequest
	if !h.BindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contact)
}

// Update godoc
// @ID           updateContact
// @Summary      Update a contact
// @Description  The contact time is reset to the time of the update
// @Tags         contacts
// @Accept       json
// @Param        id      path int                       true "Contact ID"
// @Param        request body partnerapp.ContactRequest true "Contact"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /contact/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.ContactRequest
	if !h.BindJSON(c, &req) || !h.CheckIDMismatch(c, id, req.ID) {
		return
	}

	if err := h.contactService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @ID           deleteContact
// @Summary      Delete a contact
// @Tags         contacts
// @Param        id path int true "Contact ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /contact/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Count godoc
// @ID           countContacts
// @Summary      Number of contacts
// @Tags         contacts
// @Produce      json
// @Success      200 {integer} int
// @Security     BearerAuth
// @Router       /contact/count [get]
func (h *ContactHandler) Count(c *gin.Context) {
	n, err := h.reportService.CountContacts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// Outcomes godoc
// @ID           contactOutcomes
// @Summary      Contacts per channel and outcome
// @Tags         contacts
// @Produce      json
// @Success      200 {array} report.ContactOutcome
// @Security     BearerAuth
// @Router       /contact/thongke-ketqua [get]
func (h *ContactHandler) Outcomes(c *gin.Context) {
	outcomes, err := h.reportService.ContactOutcomes(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, outcomes)
}
