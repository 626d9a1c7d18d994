package handler

import (
	"net/http"
	"strconv"
	"time"

	"taxreturn/internal/middleware"
	"taxreturn/internal/model"
	"taxreturn/internal/service"
	"taxreturn/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/api/statistics")
	{
		statsGroup.GET("", middleware.RequireRole(model.RoleAccountant, model.RoleAdmin), h.GetStatistics)
	}
}

// @Summary      Get filing statistics
// @Description  Filing counts per status, settlement totals, average readiness and the least ready open filings, bounded by last update
// @Tags         statistics
// @Produce      json
// @Param        tax_year   query int    false "Tax year (default all years)"
// @Param        start_date query string false "Start Date (RFC3339, default first day of the current month)"
// @Param        end_date   query string false "End Date (RFC3339, default now)"
// @Success      200 {object} response.Response{data=model.StatisticsResponse}
// @Failure      400 {object} response.Response "Invalid date format"
// @Failure      401 {object} response.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /api/statistics [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	var err error

	// Default to current month if no dates are provided
	now := time.Now()
	startDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endDate := now

	if s := c.Query("start_date"); s != "" {
		if startDate, err = time.Parse(time.RFC3339, s); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid start_date format, expected RFC3339"))
			return
		}
	}
	if s := c.Query("end_date"); s != "" {
		if endDate, err = time.Parse(time.RFC3339, s); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid end_date format, expected RFC3339"))
			return
		}
	}

	taxYear := 0
	if s := c.Query("tax_year"); s != "" {
		if taxYear, err = strconv.Atoi(s); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid tax_year"))
			return
		}
	}

	stats, err := h.statisticsService.GetStatistics(c.Request.Context(), taxYear, startDate, endDate)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
