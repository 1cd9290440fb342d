package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-conduct-api/internal/models"
	"github.com/noah-isme/school-conduct-api/internal/repository"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
	"github.com/noah-isme/school-conduct-api/pkg/excel"
	"github.com/noah-isme/school-conduct-api/pkg/export"
)

type studentRepository interface {
	List(ctx context.Context, filter repository.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	ExistsStudentID(ctx context.Context, studentID string) (bool, error)
	Create(ctx context.Context, s *models.Student) error
	Update(ctx context.Context, s *models.Student) error
	Delete(ctx context.Context, id int64) error
	BatchDelete(ctx context.Context, ids []int64) ([]string, int64, error)
}

type studentBehaviorRepository interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.Behavior, error)
}

// StudentRequest is the create/update payload for a roster entry.
type StudentRequest struct {
	Name             string `json:"name" validate:"required"`
	StudentID        string `json:"student_id" validate:"required"`
	Grade            string `json:"grade" validate:"required"`
	Class            string `json:"class"`
	Teacher          string `json:"teacher"`
	PhotoURL         string `json:"photo_url"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`
	Notes            string `json:"notes"`
	Status           string `json:"status"`
}

// StudentDetail is a roster entry with its behavior history attached.
type StudentDetail struct {
	models.Student
	Behaviors []models.Behavior `json:"behaviors"`
}

// cohortGrade matches graduation-cohort labels like "2025级"; a bare
// four-digit year is normalised by appending 级.
var (
	cohortGrade = regexp.MustCompile(`^\d{4}级$`)
	bareYear    = regexp.MustCompile(`^\d{4}$`)
)

// StudentService provides roster management use cases.
type StudentService struct {
	repo      studentRepository
	behaviors studentBehaviorRepository
	validator *validator.Validate
	logger    *zap.Logger
	exporter  *export.PDFExporter
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentRepository, behaviors studentBehaviorRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{
		repo:      repo,
		behaviors: behaviors,
		validator: validate,
		logger:    logger,
		exporter:  export.NewPDFExporter(),
	}
}

// NormalizeGrade validates and canonicalises a grade label. Accepted forms
// are the three year labels and graduation cohorts within five years of the
// current one.
func NormalizeGrade(grade string) (string, error) {
	if models.IsCanonicalGrade(grade) {
		return grade, nil
	}
	if bareYear.MatchString(grade) {
		grade += "级"
	}
	if cohortGrade.MatchString(grade) {
		year, _ := strconv.Atoi(grade[:4])
		current := time.Now().Year()
		if year >= current-5 && year <= current+5 {
			return grade, nil
		}
		return "", fmt.Errorf("年份 %d 超出合理范围", year)
	}
	return "", fmt.Errorf("年级 %q 无法识别", grade)
}

// List returns roster entries matching the filter.
func (s *StudentService) List(ctx context.Context, filter repository.StudentFilter) ([]models.Student, error) {
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取学生列表失败")
	}
	if students == nil {
		students = []models.Student{}
	}
	return students, nil
}

// Get returns one roster entry with its behavior history.
func (s *StudentService) Get(ctx context.Context, id int64) (*StudentDetail, error) {
	student, err := s.findStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	behaviors, err := s.behaviors.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取学生行为记录失败")
	}
	if behaviors == nil {
		behaviors = []models.Behavior{}
	}
	return &StudentDetail{Student: *student, Behaviors: behaviors}, nil
}

// Create registers a new roster entry.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	student, err := s.buildStudent(ctx, req, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "创建学生失败")
	}
	return student, nil
}

// Update rewrites a roster entry. Omitted fields keep their stored value.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.Student, error) {
	existing, err := s.findStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	mergeStudentRequest(&req, existing)
	student, err := s.buildStudent(ctx, req, id)
	if err != nil {
		return nil, err
	}
	if student.StudentID != existing.StudentID {
		taken, err := s.repo.ExistsStudentID(ctx, student.StudentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "更新学生失败")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "学号已存在")
		}
	}
	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "学生不存在")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "更新学生失败")
	}
	return student, nil
}

// Delete removes one roster entry and its behavior history.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "学生不存在")
		}
		return storeError(err, "删除学生失败")
	}
	return nil
}

// BatchDelete removes several roster entries at once.
func (s *StudentService) BatchDelete(ctx context.Context, ids []int64) (*models.BatchDeleteResult, error) {
	if len(ids) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "请选择要删除的学生")
	}
	names, deleted, err := s.repo.BatchDelete(ctx, ids)
	if err != nil {
		return nil, storeError(err, "批量删除学生失败")
	}
	if names == nil {
		names = []string{}
	}
	return &models.BatchDeleteResult{
		Message:      fmt.Sprintf("成功删除 %d 名学生", deleted),
		DeletedCount: deleted,
		Details: models.BatchDeleteResultStats{
			Total:        len(ids),
			Success:      deleted,
			StudentNames: names,
		},
	}, nil
}

// Template renders the downloadable roster import spreadsheet.
func (s *StudentService) Template() ([]byte, error) {
	data, err := excel.BuildStudentTemplate()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "生成导入模板失败")
	}
	return data, nil
}

// Import reads a roster spreadsheet and inserts its rows. The whole file is
// validated first: any malformed row rejects the upload with per-row
// messages and zero inserts. Duplicate student numbers found during the
// insert phase are collected into the result without aborting it.
func (s *StudentService) Import(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	rows, err := excel.ParseStudentRows(r)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "无法读取Excel文件，请使用下载的模板")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "文件中没有学生数据")
	}

	var rowErrors []string
	normalized := make([]string, len(rows))
	for i, row := range rows {
		if row.Name == "" || row.StudentID == "" || row.Grade == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("第%d行：姓名、学号、年级为必填项", row.Row))
			continue
		}
		grade, err := NormalizeGrade(row.Grade)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("第%d行：%v", row.Row, err))
			continue
		}
		normalized[i] = grade
	}
	if len(rowErrors) > 0 {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "导入数据校验失败"), rowErrors)
	}

	result := &models.ImportResult{Total: len(rows)}
	for i, row := range rows {
		taken, err := s.repo.ExistsStudentID(ctx, row.StudentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "导入学生失败")
		}
		if taken {
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行：学号 %s 已存在", row.Row, row.StudentID))
			continue
		}
		student := &models.Student{
			Name:             row.Name,
			StudentID:        row.StudentID,
			Grade:            normalized[i],
			Class:            row.Class,
			Teacher:          row.Teacher,
			Address:          row.Address,
			EmergencyContact: row.EmergencyContact,
			EmergencyPhone:   row.EmergencyPhone,
			Notes:            row.Notes,
			Status:           "正常",
		}
		if err := s.repo.Create(ctx, student); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("第%d行：保存失败", row.Row))
			s.logger.Warn("import row failed", zap.Int("row", row.Row), zap.Error(err))
			continue
		}
		result.Success++
	}
	result.Message = fmt.Sprintf("导入完成：共%d条，成功%d条", result.Total, result.Success)
	return result, nil
}

// Report renders a per-student conduct report PDF, optionally narrowed to
// a date range (inclusive, date-only comparison).
func (s *StudentService) Report(ctx context.Context, id int64, startDate, endDate string) ([]byte, string, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	behaviors := detail.Behaviors[:0:0]
	for _, b := range detail.Behaviors {
		day := b.Date
		if len(day) > 10 {
			day = day[:10]
		}
		if startDate != "" && day < startDate {
			continue
		}
		if endDate != "" && day > endDate {
			continue
		}
		behaviors = append(behaviors, b)
	}

	headers := []string{"Date", "Type", "Description", "Result"}
	rows := make([]map[string]string, 0, len(behaviors))
	for _, b := range behaviors {
		rows = append(rows, map[string]string{
			"Date":        b.Date,
			"Type":        b.BehaviorType,
			"Description": b.Description,
			"Result":      b.ProcessResult,
		})
	}
	summary := []string{
		fmt.Sprintf("Student: %s (%s)", detail.Name, detail.StudentID),
		fmt.Sprintf("Grade/Class: %s %s", detail.Grade, detail.Class),
		fmt.Sprintf("Status: %s", detail.Status),
		fmt.Sprintf("Records: %d", len(behaviors)),
	}
	data, err := s.exporter.Render(export.Dataset{Headers: headers, Rows: rows}, "Conduct Report", summary)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "生成报告失败")
	}
	filename := fmt.Sprintf("conduct-report-%s.pdf", detail.StudentID)
	return data, filename, nil
}

func (s *StudentService) buildStudent(ctx context.Context, req StudentRequest, id int64) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "姓名、学号、年级为必填项")
	}
	grade, err := NormalizeGrade(req.Grade)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	status := req.Status
	if status == "" {
		status = "正常"
	}
	if !models.IsValidStatus(status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "无效的学生状态")
	}
	if id == 0 {
		taken, err := s.repo.ExistsStudentID(ctx, req.StudentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "创建学生失败")
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "学号已存在")
		}
	}
	return &models.Student{
		ID:               id,
		Name:             req.Name,
		StudentID:        req.StudentID,
		Grade:            grade,
		Class:            req.Class,
		Teacher:          req.Teacher,
		PhotoURL:         req.PhotoURL,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		EmergencyPhone:   req.EmergencyPhone,
		Notes:            req.Notes,
		Status:           status,
	}, nil
}

// mergeStudentRequest backfills omitted fields from the stored row so a
// partial payload never blanks existing data.
func mergeStudentRequest(req *StudentRequest, existing *models.Student) {
	if req.Name == "" {
		req.Name = existing.Name
	}
	if req.StudentID == "" {
		req.StudentID = existing.StudentID
	}
	if req.Grade == "" {
		req.Grade = existing.Grade
	}
	if req.Class == "" {
		req.Class = existing.Class
	}
	if req.Teacher == "" {
		req.Teacher = existing.Teacher
	}
	if req.PhotoURL == "" {
		req.PhotoURL = existing.PhotoURL
	}
	if req.Address == "" {
		req.Address = existing.Address
	}
	if req.EmergencyContact == "" {
		req.EmergencyContact = existing.EmergencyContact
	}
	if req.EmergencyPhone == "" {
		req.EmergencyPhone = existing.EmergencyPhone
	}
	if req.Notes == "" {
		req.Notes = existing.Notes
	}
	if req.Status == "" {
		req.Status = existing.Status
	}
}

func (s *StudentService) findStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "学生不存在")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "查询学生失败")
	}
	return student, nil
}
