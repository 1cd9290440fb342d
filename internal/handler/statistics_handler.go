package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-conduct-api/internal/models"
	"github.com/noah-isme/school-conduct-api/internal/service"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
	"github.com/noah-isme/school-conduct-api/pkg/response"
)

// StatisticsHandler exposes the aggregated reporting endpoints consumed
// by the dashboard.
type StatisticsHandler struct {
	service *service.StatisticsService
}

// NewStatisticsHandler creates a new statistics handler.
func NewStatisticsHandler(svc *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: svc}
}

func statsFilter(c *gin.Context) models.StatsFilter {
	return models.StatsFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Grade:     c.Query("grade"),
		Class:     c.Query("class"),
	}
}

// Dashboard godoc
// @Summary Dashboard overview statistics
// @Tags Statistics
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param grade query string false "Grade filter"
// @Param class query string false "Class filter"
// @Success 200 {object} models.DashboardStats
// @Router /statistics [get]
func (h *StatisticsHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context(), statsFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Analysis godoc
// @Summary In-depth violation analysis
// @Tags Statistics
// @Produce json
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param grade query string false "Grade filter"
// @Param class query string false "Class filter"
// @Success 200 {object} models.Analysis
// @Router /statistics/analysis [get]
func (h *StatisticsHandler) Analysis(c *gin.Context) {
	analysis, err := h.service.Analysis(c.Request.Context(), statsFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, analysis)
}

// TypeDistribution godoc
// @Summary Behavior type distribution for pie charts
// @Tags Statistics
// @Produce json
// @Success 200 {array} models.TypeDistribution
// @Router /statistics/type-distribution [get]
func (h *StatisticsHandler) TypeDistribution(c *gin.Context) {
	dist, err := h.service.TypeDistribution(c.Request.Context(), statsFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dist)
}

// RiskWarning godoc
// @Summary Students with repeated violations in a recent window
// @Tags Statistics
// @Produce json
// @Param days query int false "Window in days (default 30)"
// @Success 200 {object} models.RiskWarning
// @Router /statistics/risk-warning [get]
func (h *StatisticsHandler) RiskWarning(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "days 必须为正整数"))
			return
		}
		days = parsed
	}
	warning, err := h.service.RiskWarning(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, warning)
}

// ClassInfo godoc
// @Summary Distinct grade and class combinations for filter dropdowns
// @Tags Statistics
// @Produce json
// @Success 200 {array} models.ClassInfo
// @Router /statistics/class-info [get]
func (h *StatisticsHandler) ClassInfo(c *gin.Context) {
	info, err := h.service.ClassInfo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info)
}

// BehaviorTypes godoc
// @Summary Occurrence counts per behavior type
// @Tags Statistics
// @Produce json
// @Success 200 {array} models.BehaviorTypeStat
// @Router /statistics/behavior-types [get]
func (h *StatisticsHandler) BehaviorTypes(c *gin.Context) {
	stats, err := h.service.BehaviorTypeStats(c.Request.Context(), statsFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Classes godoc
// @Summary Violation and commendation counts per class
// @Tags Statistics
// @Produce json
// @Success 200 {array} models.ClassStat
// @Router /statistics/class [get]
func (h *StatisticsHandler) Classes(c *gin.Context) {
	stats, err := h.service.ClassStats(c.Request.Context(), statsFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Student godoc
// @Summary Per-type counts for one student
// @Tags Statistics
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {array} models.StudentStat
// @Failure 404 {object} response.ErrorBody
// @Router /statistics/student/{id} [get]
func (h *StatisticsHandler) Student(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的学生ID"))
		return
	}
	stats, err := h.service.StudentStats(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Summary godoc
// @Summary Headline totals and recent records
// @Tags Statistics
// @Produce json
// @Success 200 {object} models.Summary
// @Router /statistics/summary [get]
func (h *StatisticsHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}
