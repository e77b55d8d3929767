package handler

import (
	catalogapp "github.com/crm/backend/internal/application/catalog"
	reportapp "github.com/crm/backend/internal/application/report"
	"github.com/crm/backend/internal/domain/report"
	"github.com/gin-gonic/gin"
)

// RatingHandler handles service rating endpoints
type RatingHandler struct {
	BaseHandler
	ratingService *catalogapp.RatingService
	reportService *reportapp.ReportService
}

// NewRatingHandler creates a new RatingHandler
func NewRatingHandler(ratingService *catalogapp.RatingService, reportService *reportapp.ReportService) *RatingHandler {
	return &RatingHandler{ratingService: ratingService, reportService: reportService}
}

// List godoc
// @ID           listServiceRatings
// @Summary      List service ratings
// @Tags         service-ratings
// @Produce      json
// @Param        customer_id query int false "Customer filter"
// @Param        service_id  query int false "Service filter"
// @Param        score       query int false "Score filter"
// @Param        page        query int false "Page number" default(1)
// @Param        page_size   query int false "Page size"
// @Success      200 {array} catalogapp.RatingResponse
// @Header       200 {integer} X-Total-Count "Number of matching ratings"
// @Security     BearerAuth
// @Router       /service-rating [get]
func (h *RatingHandler) List(c *gin.Context) {
	var filter catalogapp.RatingListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	ratings, total, err := h.ratingService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, ratings, total)
}

// GetByID godoc
// @ID           getServiceRatingById
// @Summary      Get rating by ID
// @Tags         service-ratings
// @Produce      json
// @Param        id path int true "Rating ID"
// @Success      200 {object} catalogapp.RatingResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /service-rating/{id} [get]
func (h *RatingHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	rating, err := h.ratingService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rating)
}

// Create godoc
// @ID           createServiceRating
// @Summary      Rate a service
// @Description  Score must be between 1 and 5; the rating time is set by the server
// @Tags         service-ratings
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.RatingRequest true "Rating"
// @Success      201 {object} catalogapp.RatingResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /service-rating [post]
func (h *RatingHandler) Create(c *gin.Context) {
	var req catalogapp.RatingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rating, err := h.ratingService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rating)
}

// Update godoc
// @ID           updateServiceRating
// @Summary      Update a rating
// @Tags         service-ratings
// @Accept       json
// @Param        id      path int                      true "Rating ID"
// @Param        request body catalogapp.RatingRequest true "Rating"
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /service-rating/{id} [put]
func (h *RatingHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.RatingRequest
	if !h.BindJSON(c, &req) || !h.CheckIDMismatch(c, id, req.ID) {
		return
	}

	if err := h.ratingService.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @ID           deleteServiceRating
// @Summary      Delete a rating
// @Tags         service-ratings
// @Param        id path int true "Rating ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /service-rating/{id} [delete]
func (h *RatingHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.ratingService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Count godoc
// @ID           countServiceRatings
// @Summary      Number of ratings
// @Tags         service-ratings
// @Produce      json
// @Success      200 {integer} int
// @Security     BearerAuth
// @Router       /service-rating/count [get]
func (h *RatingHandler) Count(c *gin.Context) {
	n, err := h.reportService.Count(c.Request.Context(), report.EntityServiceRating)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}
