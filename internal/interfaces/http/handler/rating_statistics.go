package handler

import (
	reportapp "github.com/crm/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// RatingStatisticsHandler serves the satisfaction dashboards
type RatingStatisticsHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewRatingStatisticsHandler creates a new RatingStatisticsHandler
func NewRatingStatisticsHandler(reportService *reportapp.ReportService) *RatingStatisticsHandler {
	return &RatingStatisticsHandler{reportService: reportService}
}

// Percentages godoc
// @ID           ratingPercentages
// @Summary      Satisfaction percentages
// @Description  Share of service ratings per satisfaction label, two decimals. Every label is present.
// @Tags         rating-statistics
// @Produce      json
// @Success      200 {object} map[string]number
// @Security     BearerAuth
// @Router       /rating-statistics/phan-tram [get]
func (h *RatingStatisticsHandler) Percentages(c *gin.Context) {
	percentages, err := h.reportService.RatingPercentages(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, percentages)
}

// Breakdown godoc
// @ID           ratingBreakdown
// @Summary      Service and staff score distribution
// @Description  Whole percentages per score, index 0 being score 1
// @Tags         rating-statistics
// @Produce      json
// @Success      200 {object} reportapp.RatingBreakdown
// @Security     BearerAuth
// @Router       /rating-statistics/thongke-danhgia-dichvu-nhanvien [get]
func (h *RatingStatisticsHandler) Breakdown(c *gin.Context) {
	breakdown, err := h.reportService.RatingBreakdown(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, breakdown)
}
