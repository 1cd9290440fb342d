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

// StudentHandler handles the student roster endpoints, including Excel
// import and the per-student PDF report.
type StudentHandler struct {
	service *service.StudentService
	stats   *service.StatisticsService
	audit   *service.AuditService
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(svc *service.StudentService, stats *service.StatisticsService, audit *service.AuditService) *StudentHandler {
	return &StudentHandler{service: svc, stats: stats, audit: audit}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param grade query string false "Grade filter"
// @Param class query string false "Class filter"
// @Param name query string false "Name or student number search"
// @Param status query string false "Status filter"
// @Success 200 {array} models.Student
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := repository.StudentFilter{
		Grade:  c.Query("grade"),
		Class:  c.Query("class"),
		Name:   c.Query("name"),
		Status: c.Query("status"),
	}
	students, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Get godoc
// @Summary Get a student with behavior history
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} service.StudentDetail
// @Failure 404 {object} response.ErrorBody
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的学生ID"))
		return
	}
	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail)
}

// Create godoc
// @Summary Create a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.StudentRequest true "Student payload"
// @Success 201 {object} models.Student
// @Failure 409 {object} response.ErrorBody
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	student, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "create",
		Module:      "students",
		Description: fmt.Sprintf("添加学生 %s（%s）", student.Name, student.StudentID),
		Username:    usernameFromContext(c),
	})
	h.stats.InvalidateCache(c.Request.Context())
	response.Created(c, student)
}

// Update godoc
// @Summary Update a student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param payload body service.StudentRequest true "Student payload"
// @Success 200 {object} models.Student
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的学生ID"))
		return
	}
	var req service.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	student, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "update",
		Module:      "students",
		Description: fmt.Sprintf("修改学生 %s（%s）", student.Name, student.StudentID),
		Username:    usernameFromContext(c),
	})
	h.stats.InvalidateCache(c.Request.Context())
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Delete a student and their behavior records
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.ErrorBody
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的学生ID"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "delete",
		Module:      "students",
		Description: fmt.Sprintf("删除学生 %d", id),
		Username:    usernameFromContext(c),
	})
	h.stats.InvalidateCache(c.Request.Context())
	response.Message(c, http.StatusOK, "学生删除成功")
}

type batchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// BatchDelete godoc
// @Summary Delete multiple students in one transaction
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body batchDeleteRequest true "Student IDs"
// @Success 200 {object} models.BatchDeleteResult
// @Router /students/batch-delete [post]
func (h *StudentHandler) BatchDelete(c *gin.Context) {
	var req batchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	result, err := h.service.BatchDelete(c.Request.Context(), req.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "delete",
		Module:      "students",
		Description: fmt.Sprintf("批量删除 %d 名学生", result.DeletedCount),
		Username:    usernameFromContext(c),
	})
	h.stats.InvalidateCache(c.Request.Context())
	response.JSON(c, http.StatusOK, result)
}

// Template godoc
// @Summary Download the roster import template
// @Tags Students
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /students/template [get]
func (h *StudentHandler) Template(c *gin.Context) {
	data, err := h.service.Template()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="student-template.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// Import godoc
// @Summary Import students from an Excel roster
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx roster"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} response.ErrorBody
// @Router /students/import [post]
func (h *StudentHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请选择要上传的文件"))
		return
	}
	src, err := file.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "无法读取上传文件"))
		return
	}
	defer src.Close()

	result, err := h.service.Import(c.Request.Context(), src)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "import",
		Module:      "students",
		Description: fmt.Sprintf("导入学生名单：共%d条，成功%d条", result.Total, result.Success),
		Username:    usernameFromContext(c),
	})
	h.stats.InvalidateCache(c.Request.Context())
	response.JSON(c, http.StatusOK, result)
}

// Report godoc
// @Summary Download a student conduct report as PDF
// @Tags Students
// @Produce application/pdf
// @Param id path int true "Student ID"
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Router /students/{id}/report [get]
func (h *StudentHandler) Report(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的学生ID"))
		return
	}
	data, filename, err := h.service.Report(c.Request.Context(), id, c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
