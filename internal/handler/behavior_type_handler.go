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

// BehaviorTypeHandler handles the behavior type catalogue endpoints.
type BehaviorTypeHandler struct {
	service *service.BehaviorTypeService
	stats   *service.StatisticsService
	audit   *service.AuditService
}

// NewBehaviorTypeHandler creates a new behavior type handler.
func NewBehaviorTypeHandler(svc *service.BehaviorTypeService, stats *service.StatisticsService, audit *service.AuditService) *BehaviorTypeHandler {
	return &BehaviorTypeHandler{service: svc, stats: stats, audit: audit}
}

// List godoc
// @Summary List behavior types
// @Tags BehaviorTypes
// @Produce json
// @Param category query string false "Category filter (违纪 or 优秀)"
// @Success 200 {array} models.BehaviorType
// @Router /behavior-types [get]
func (h *BehaviorTypeHandler) List(c *gin.Context) {
	types, err := h.service.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types)
}

// Create godoc
// @Summary Create a behavior type
// @Tags BehaviorTypes
// @Accept json
// @Produce json
// @Param payload body service.BehaviorTypeRequest true "Behavior type payload"
// @Success 201 {object} models.BehaviorType
// @Failure 409 {object} response.ErrorBody
// @Router /behavior-types [post]
func (h *BehaviorTypeHandler) Create(c *gin.Context) {
	var req service.BehaviorTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	bt, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "create",
		Module:      "behavior-types",
		Description: fmt.Sprintf("创建行为类型 %s", bt.Name),
		Username:    usernameFromContext(c),
	})
	h.stats.InvalidateCache(c.Request.Context())
	response.Created(c, bt)
}

// Update godoc
// @Summary Update a behavior type
// @Tags BehaviorTypes
// @Accept json
// @Produce json
// @Param id path int true "Behavior type ID"
// @Param payload body service.BehaviorTypeRequest true "Behavior type payload"
// @Success 200 {object} models.BehaviorType
// @Router /behavior-types/{id} [put]
func (h *BehaviorTypeHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的类型ID"))
		return
	}
	var req service.BehaviorTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	bt, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "update",
		Module:      "behavior-types",
		Description: fmt.Sprintf("修改行为类型 %s", bt.Name),
		Username:    usernameFromContext(c),
	})
	h.stats.InvalidateCache(c.Request.Context())
	response.JSON(c, http.StatusOK, bt)
}

// Delete godoc
// @Summary Delete an unused behavior type
// @Tags BehaviorTypes
// @Produce json
// @Param id path int true "Behavior type ID"
// @Success 200 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /behavior-types/{id} [delete]
func (h *BehaviorTypeHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的类型ID"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "delete",
		Module:      "behavior-types",
		Description: fmt.Sprintf("删除行为类型 %d", id),
		Username:    usernameFromContext(c),
	})
	response.Message(c, http.StatusOK, "行为类型删除成功")
}
