package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-conduct-api/internal/models"
	"github.com/noah-isme/school-conduct-api/internal/service"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
	"github.com/noah-isme/school-conduct-api/pkg/response"
)

// BehaviorHandler handles student behavior record endpoints.
type BehaviorHandler struct {
	service *service.BehaviorService
	stats   *service.StatisticsService
	audit   *service.AuditService
}

// NewBehaviorHandler creates a new behavior handler.
func NewBehaviorHandler(svc *service.BehaviorService, stats *service.StatisticsService, audit *service.AuditService) *BehaviorHandler {
	return &BehaviorHandler{service: svc, stats: stats, audit: audit}
}

// List godoc
// @Summary List behavior records
// @Tags Behaviors
// @Produce json
// @Param student_id query int false "Student ID filter"
// @Param behavior_type query string false "Behavior type filter"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} models.Behavior
// @Router /behaviors [get]
func (h *BehaviorHandler) List(c *gin.Context) {
	var filter models.BehaviorFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "查询参数格式错误"))
		return
	}
	behaviors, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, behaviors)
}

// Stats godoc
// @Summary Count behavior records in a date range
// @Tags Behaviors
// @Produce json
// @Param type query string false "violation or excellent"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} service.BehaviorCount
// @Failure 400 {object} response.ErrorBody
// @Router /behaviors/stats [get]
func (h *BehaviorHandler) Stats(c *gin.Context) {
	count, err := h.service.Count(c.Request.Context(), c.Query("type"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, count)
}

// Get godoc
// @Summary Get a behavior record
// @Tags Behaviors
// @Produce json
// @Param id path int true "Behavior ID"
// @Success 200 {object} models.Behavior
// @Failure 404 {object} response.ErrorBody
// @Router /behaviors/{id} [get]
func (h *BehaviorHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的记录ID"))
		return
	}
	behavior, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, behavior)
}

// Create godoc
// @Summary Record a behavior
// @Tags Behaviors
// @Accept json
// @Produce json
// @Param payload body service.BehaviorRequest true "Behavior payload"
// @Success 201 {object} models.Behavior
// @Failure 400 {object} response.ErrorBody
// @Router /behaviors [post]
func (h *BehaviorHandler) Create(c *gin.Context) {
	var req service.BehaviorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	behavior, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "create",
		Module:      "behaviors",
		Description: fmt.Sprintf("记录学生 %s 的行为：%s", behavior.StudentName, behavior.BehaviorType),
		Username:    usernameFromContext(c),
	})
	h.stats.InvalidateCache(c.Request.Context())
	response.Created(c, behavior)
}

// Update godoc
// @Summary Update a behavior record
// @Tags Behaviors
// @Accept json
// @Produce json
// @Param id path int true "Behavior ID"
// @Param payload body service.BehaviorRequest true "Behavior payload"
// @Success 200 {object} models.Behavior
// @Router /behaviors/{id} [put]
func (h *BehaviorHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的记录ID"))
		return
	}
	var req service.BehaviorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	behavior, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "update",
		Module:      "behaviors",
		Description: fmt.Sprintf("修改行为记录 %d", id),
		Username:    usernameFromContext(c),
	})
	h.stats.InvalidateCache(c.Request.Context())
	response.JSON(c, http.StatusOK, behavior)
}

// Delete godoc
// @Summary Delete a behavior record
// @Tags Behaviors
// @Produce json
// @Param id path int true "Behavior ID"
// @Success 200 {object} response.ErrorBody
// @Router /behaviors/{id} [delete]
func (h *BehaviorHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的记录ID"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "delete",
		Module:      "behaviors",
		Description: fmt.Sprintf("删除行为记录 %d", id),
		Username:    usernameFromContext(c),
	})
	h.stats.InvalidateCache(c.Request.Context())
	response.Message(c, http.StatusOK, "行为记录删除成功")
}
