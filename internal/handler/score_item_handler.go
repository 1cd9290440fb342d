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

// ScoreItemHandler handles the teacher scoring item catalogue.
type ScoreItemHandler struct {
	service *service.ScoreItemService
	audit   *service.AuditService
}

// NewScoreItemHandler creates a new score item handler.
func NewScoreItemHandler(svc *service.ScoreItemService, audit *service.AuditService) *ScoreItemHandler {
	return &ScoreItemHandler{service: svc, audit: audit}
}

// List godoc
// @Summary List score items
// @Tags ScoreItems
// @Produce json
// @Param category query string false "Category filter (加分 or 减分)"
// @Success 200 {array} models.ScoreItem
// @Router /score-items [get]
func (h *ScoreItemHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Get godoc
// @Summary Get a score item
// @Tags ScoreItems
// @Produce json
// @Param id path int true "Score item ID"
// @Success 200 {object} models.ScoreItem
// @Failure 404 {object} response.ErrorBody
// @Router /score-items/{id} [get]
func (h *ScoreItemHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的项目ID"))
		return
	}
	item, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create a score item
// @Tags ScoreItems
// @Accept json
// @Produce json
// @Param payload body service.ScoreItemRequest true "Score item payload"
// @Success 201 {object} models.ScoreItem
// @Router /score-items [post]
func (h *ScoreItemHandler) Create(c *gin.Context) {
	var req service.ScoreItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "create",
		Module:      "score-items",
		Description: fmt.Sprintf("创建评分项目 %s", item.Name),
		Username:    usernameFromContext(c),
	})
	response.Created(c, item)
}

// Update godoc
// @Summary Update a score item
// @Tags ScoreItems
// @Accept json
// @Produce json
// @Param id path int true "Score item ID"
// @Param payload body service.ScoreItemRequest true "Score item payload"
// @Success 200 {object} models.ScoreItem
// @Router /score-items/{id} [put]
func (h *ScoreItemHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的项目ID"))
		return
	}
	var req service.ScoreItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "update",
		Module:      "score-items",
		Description: fmt.Sprintf("修改评分项目 %s", item.Name),
		Username:    usernameFromContext(c),
	})
	response.JSON(c, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete an unused score item
// @Tags ScoreItems
// @Produce json
// @Param id path int true "Score item ID"
// @Success 200 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /score-items/{id} [delete]
func (h *ScoreItemHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的项目ID"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "delete",
		Module:      "score-items",
		Description: fmt.Sprintf("删除评分项目 %d", id),
		Username:    usernameFromContext(c),
	})
	response.Message(c, http.StatusOK, "评分项目删除成功")
}
