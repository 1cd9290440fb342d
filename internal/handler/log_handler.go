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

// LogHandler exposes the operation audit trail. Admin only.
type LogHandler struct {
	service *service.AuditService
}

// NewLogHandler creates a new log handler.
func NewLogHandler(svc *service.AuditService) *LogHandler {
	return &LogHandler{service: svc}
}

// List godoc
// @Summary List operation logs
// @Tags Logs
// @Produce json
// @Param page query int false "Page (default 1)"
// @Param pageSize query int false "Page size (default 20, max 100)"
// @Param type query string false "Operation type filter"
// @Param startDate query string false "Start date (YYYY-MM-DD)"
// @Param endDate query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} models.OperationLogPage
// @Router /logs [get]
func (h *LogHandler) List(c *gin.Context) {
	var filter models.OperationLogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "查询参数格式错误"))
		return
	}
	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}

type batchDeleteLogsRequest struct {
	IDs []int64 `json:"ids"`
}

// BatchDelete godoc
// @Summary Delete selected operation logs
// @Tags Logs
// @Accept json
// @Produce json
// @Param payload body batchDeleteLogsRequest true "Log IDs"
// @Success 200 {object} response.ErrorBody
// @Router /logs/batch [delete]
func (h *LogHandler) BatchDelete(c *gin.Context) {
	var req batchDeleteLogsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	deleted, err := h.service.BatchDelete(c.Request.Context(), req.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, fmt.Sprintf("成功删除 %d 条日志", deleted))
}
