package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-conduct-api/internal/models"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
)

type behaviorRepository interface {
	List(ctx context.Context, filter models.BehaviorFilter) ([]models.Behavior, error)
	FindByID(ctx context.Context, id int64) (*models.Behavior, error)
	CountByCategory(ctx context.Context, category, startDate, endDate string) (int, error)
	Create(ctx context.Context, b *models.Behavior) error
	Update(ctx context.Context, b *models.Behavior) error
	Delete(ctx context.Context, id int64) error
}

type behaviorStudentLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

type behaviorTypeLookup interface {
	FindByName(ctx context.Context, name string) (*models.BehaviorType, error)
}

// BehaviorRequest is the create/update payload for a behavior record.
type BehaviorRequest struct {
	StudentID     int64  `json:"student_id" validate:"required"`
	BehaviorType  string `json:"behavior_type" validate:"required"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	ImageURL      string `json:"image_url"`
	ProcessResult string `json:"process_result"`
}

// BehaviorService provides behavior record use cases.
type BehaviorService struct {
	repo      behaviorRepository
	students  behaviorStudentLookup
	types     behaviorTypeLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBehaviorService constructs a BehaviorService instance.
func NewBehaviorService(repo behaviorRepository, students behaviorStudentLookup, types behaviorTypeLookup, validate *validator.Validate, logger *zap.Logger) *BehaviorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BehaviorService{repo: repo, students: students, types: types, validator: validate, logger: logger}
}

// List returns behavior records matching the filter.
func (s *BehaviorService) List(ctx context.Context, filter models.BehaviorFilter) ([]models.Behavior, error) {
	behaviors, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取行为记录失败")
	}
	if behaviors == nil {
		behaviors = []models.Behavior{}
	}
	return behaviors, nil
}

// Get returns one behavior record.
func (s *BehaviorService) Get(ctx context.Context, id int64) (*models.Behavior, error) {
	behavior, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "行为记录不存在")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "查询行为记录失败")
	}
	return behavior, nil
}

// Create logs a new behavior event after checking that both the student and
// the behavior type exist.
func (s *BehaviorService) Create(ctx context.Context, req BehaviorRequest) (*models.Behavior, error) {
	behavior, err := s.buildBehavior(ctx, req, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, behavior); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "创建行为记录失败")
	}
	created, err := s.repo.FindByID(ctx, behavior.ID)
	if err != nil {
		// record is in; return what we have rather than failing the write
		s.logger.Warn("behavior readback failed", zap.Int64("id", behavior.ID), zap.Error(err))
		return behavior, nil
	}
	return created, nil
}

// Update rewrites a behavior record. Omitted fields keep their stored
// value.
func (s *BehaviorService) Update(ctx context.Context, id int64, req BehaviorRequest) (*models.Behavior, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.StudentID == 0 {
		req.StudentID = existing.StudentID
	}
	if req.BehaviorType == "" {
		req.BehaviorType = existing.BehaviorType
	}
	if req.Description == "" {
		req.Description = existing.Description
	}
	if req.ImageURL == "" {
		req.ImageURL = existing.ImageURL
	}
	if req.ProcessResult == "" {
		req.ProcessResult = existing.ProcessResult
	}
	behavior, err := s.buildBehavior(ctx, req, id)
	if err != nil {
		return nil, err
	}
	if behavior.Date == "" {
		behavior.Date = existing.Date
	}
	if err := s.repo.Update(ctx, behavior); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "行为记录不存在")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "更新行为记录失败")
	}
	return s.Get(ctx, id)
}

// BehaviorCount is the payload of the count endpoint.
type BehaviorCount struct {
	Count int `json:"count"`
}

// Count tallies behavior records in a date range, optionally narrowed to
// one category via the English type aliases.
func (s *BehaviorService) Count(ctx context.Context, typ, startDate, endDate string) (*BehaviorCount, error) {
	category := ""
	switch typ {
	case "":
	case "violation":
		category = models.CategoryViolation
	case "excellent":
		category = models.CategoryExcellent
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "type 参数必须为 violation 或 excellent")
	}
	count, err := s.repo.CountByCategory(ctx, category, startDate, endDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取行为统计失败")
	}
	return &BehaviorCount{Count: count}, nil
}

// Delete removes a behavior record.
func (s *BehaviorService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "行为记录不存在")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "删除行为记录失败")
	}
	return nil
}

func (s *BehaviorService) buildBehavior(ctx context.Context, req BehaviorRequest, id int64) (*models.Behavior, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "学生和行为类型为必填项")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "学生不存在")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "查询学生失败")
	}
	if _, err := s.types.FindByName(ctx, req.BehaviorType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "行为类型不存在")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "查询行为类型失败")
	}
	return &models.Behavior{
		ID:            id,
		StudentID:     req.StudentID,
		BehaviorType:  req.BehaviorType,
		Description:   req.Description,
		Date:          req.Date,
		ImageURL:      req.ImageURL,
		ProcessResult: req.ProcessResult,
	}, nil
}
