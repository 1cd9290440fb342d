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

type behaviorTypeRepository interface {
	List(ctx context.Context, category string) ([]models.BehaviorType, error)
	FindByID(ctx context.Context, id int64) (*models.BehaviorType, error)
	FindByName(ctx context.Context, name string) (*models.BehaviorType, error)
	Create(ctx context.Context, bt *models.BehaviorType) error
	Update(ctx context.Context, bt *models.BehaviorType) error
	CountUsages(ctx context.Context, name string) (int, error)
	Delete(ctx context.Context, id int64) error
}

// BehaviorTypeRequest is the create/update payload for a behavior type.
type BehaviorTypeRequest struct {
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category" validate:"required,oneof=违纪 优秀"`
	Description string `json:"description"`
	Score       int    `json:"score"`
}

// BehaviorTypeService provides behavior type management use cases.
type BehaviorTypeService struct {
	repo      behaviorTypeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBehaviorTypeService constructs a BehaviorTypeService instance.
func NewBehaviorTypeService(repo behaviorTypeRepository, validate *validator.Validate, logger *zap.Logger) *BehaviorTypeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &BehaviorTypeService{repo: repo, validator: validate, logger: logger}
}

// List returns behavior types, optionally restricted to one category.
func (s *BehaviorTypeService) List(ctx context.Context, category string) ([]models.BehaviorType, error) {
	types, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取行为类型失败")
	}
	if types == nil {
		types = []models.BehaviorType{}
	}
	return types, nil
}

// Create registers a new behavior type. The score sign must agree with the
// category: violations score at most zero, excellent at least zero.
func (s *BehaviorTypeService) Create(ctx context.Context, req BehaviorTypeRequest) (*models.BehaviorType, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "行为类型名称已存在")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "创建行为类型失败")
	}
	bt := &models.BehaviorType{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Score:       req.Score,
	}
	if err := s.repo.Create(ctx, bt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "创建行为类型失败")
	}
	return bt, nil
}

// Update rewrites an existing behavior type.
func (s *BehaviorTypeService) Update(ctx context.Context, id int64, req BehaviorTypeRequest) (*models.BehaviorType, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	existing, err := s.findType(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != existing.Name {
		if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, "行为类型名称已存在")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "更新行为类型失败")
		}
	}
	bt := &models.BehaviorType{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Score:       req.Score,
	}
	if err := s.repo.Update(ctx, bt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "行为类型不存在")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "更新行为类型失败")
	}
	return bt, nil
}

// Delete removes a behavior type unless behavior records still reference it.
func (s *BehaviorTypeService) Delete(ctx context.Context, id int64) error {
	bt, err := s.findType(ctx, id)
	if err != nil {
		return err
	}
	used, err := s.repo.CountUsages(ctx, bt.Name)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "删除行为类型失败")
	}
	if used > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "该行为类型已被使用，无法删除")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "行为类型不存在")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "删除行为类型失败")
	}
	return nil
}

func (s *BehaviorTypeService) validate(req BehaviorTypeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "名称和类别为必填项")
	}
	if req.Category == models.CategoryViolation && req.Score >= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "违纪类型的分数必须为负数")
	}
	if req.Category == models.CategoryExcellent && req.Score <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "优秀类型的分数必须为正数")
	}
	return nil
}

func (s *BehaviorTypeService) findType(ctx context.Context, id int64) (*models.BehaviorType, error) {
	bt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "行为类型不存在")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "查询行为类型失败")
	}
	return bt, nil
}
