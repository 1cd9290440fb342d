package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-conduct-api/internal/models"
	"github.com/noah-isme/school-conduct-api/internal/repository"
	"github.com/noah-isme/school-conduct-api/internal/service"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
	"github.com/noah-isme/school-conduct-api/pkg/response"
)

// TeacherBehaviorHandler handles teacher scoring records and the derived
// class score ledger.
type TeacherBehaviorHandler struct {
	service *service.TeacherBehaviorService
	audit   *service.AuditService
}

// NewTeacherBehaviorHandler creates a new teacher behavior handler.
func NewTeacherBehaviorHandler(svc *service.TeacherBehaviorService, audit *service.AuditService) *TeacherBehaviorHandler {
	return &TeacherBehaviorHandler{service: svc, audit: audit}
}

// List godoc
// @Summary List teacher scoring records
// @Tags TeacherBehaviors
// @Produce json
// @Param teacher_name query string false "Teacher name search"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} models.TeacherBehavior
// @Router /teacher-behaviors [get]
func (h *TeacherBehaviorHandler) List(c *gin.Context) {
	filter := repository.TeacherBehaviorFilter{
		TeacherName: c.Query("teacher_name"),
		StartDate:   c.Query("start_date"),
		EndDate:     c.Query("end_date"),
	}
	records, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records)
}

// Get godoc
// @Summary Get a teacher scoring record
// @Tags TeacherBehaviors
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} models.TeacherBehavior
// @Failure 404 {object} response.ErrorBody
// @Router /teacher-behaviors/{id} [get]
func (h *TeacherBehaviorHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的记录ID"))
		return
	}
	record, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record)
}

// Create godoc
// @Summary Record a teacher score and credit the class ledger
// @Tags TeacherBehaviors
// @Accept json
// @Produce json
// @Param payload body service.TeacherBehaviorRequest true "Record payload"
// @Success 201 {object} models.TeacherBehavior
// @Failure 400 {object} response.ErrorBody
// @Router /teacher-behaviors [post]
func (h *TeacherBehaviorHandler) Create(c *gin.Context) {
	var req service.TeacherBehaviorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	record, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "create",
		Module:      "teacher-behaviors",
		Description: fmt.Sprintf("记录教师行为 %s（%+.1f分）", record.TeacherName, record.Score),
		Username:    usernameFromContext(c),
	})
	response.Created(c, record)
}

// Update godoc
// @Summary Update a teacher scoring record
// @Tags TeacherBehaviors
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param payload body service.TeacherBehaviorRequest true "Record payload"
// @Success 200 {object} models.TeacherBehavior
// @Router /teacher-behaviors/{id} [put]
func (h *TeacherBehaviorHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的记录ID"))
		return
	}
	var req service.TeacherBehaviorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	record, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "update",
		Module:      "teacher-behaviors",
		Description: fmt.Sprintf("修改教师行为记录 %d", id),
		Username:    usernameFromContext(c),
	})
	response.JSON(c, http.StatusOK, record)
}

// Delete godoc
// @Summary Delete a teacher scoring record and reverse its ledger effect
// @Tags TeacherBehaviors
// @Produce json
// @Param id path int true "Record ID"
// @Success 200 {object} response.ErrorBody
// @Router /teacher-behaviors/{id} [delete]
func (h *TeacherBehaviorHandler) Delete(c *gin.Context) {
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
		Module:      "teacher-behaviors",
		Description: fmt.Sprintf("删除教师行为记录 %d", id),
		Username:    usernameFromContext(c),
	})
	response.Message(c, http.StatusOK, "记录删除成功")
}

// ClassScores godoc
// @Summary List accumulated class scores
// @Tags TeacherBehaviors
// @Produce json
// @Success 200 {array} models.ClassScore
// @Router /teacher-behaviors/class-scores [get]
func (h *TeacherBehaviorHandler) ClassScores(c *gin.Context) {
	scores, err := h.service.ClassScores(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scores)
}
