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

type scoreItemRepository interface {
	List(ctx context.Context, category string) ([]models.ScoreItem, error)
	FindByID(ctx context.Context, id int64) (*models.ScoreItem, error)
	Create(ctx context.Context, item *models.ScoreItem) error
	Update(ctx context.Context, item *models.ScoreItem) error
	CountUsages(ctx context.Context, id int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

// ScoreItemRequest is the create/update payload for a score item.
type ScoreItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Category    string  `json:"category" validate:"required,oneof=加分 减分"`
	Score       float64 `json:"score" validate:"required"`
	Description string  `json:"description"`
}

// ScoreItemService provides score item management use cases.
type ScoreItemService struct {
	repo      scoreItemRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScoreItemService constructs a ScoreItemService instance.
func NewScoreItemService(repo scoreItemRepository, validate *validator.Validate, logger *zap.Logger) *ScoreItemService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ScoreItemService{repo: repo, validator: validate, logger: logger}
}

// List returns score items, optionally restricted to one category.
func (s *ScoreItemService) List(ctx context.Context, category string) ([]models.ScoreItem, error) {
	items, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取评分项目失败")
	}
	if items == nil {
		items = []models.ScoreItem{}
	}
	return items, nil
}

// Get returns one score item.
func (s *ScoreItemService) Get(ctx context.Context, id int64) (*models.ScoreItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "评分项目不存在")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "查询评分项目失败")
	}
	return item, nil
}

// Create registers a new score item. Bonus items must score above zero,
// deduction items below.
func (s *ScoreItemService) Create(ctx context.Context, req ScoreItemRequest) (*models.ScoreItem, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	item := &models.ScoreItem{
		Name:        req.Name,
		Category:    req.Category,
		Score:       req.Score,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "创建评分项目失败")
	}
	return item, nil
}

// Update rewrites an existing score item.
func (s *ScoreItemService) Update(ctx context.Context, id int64, req ScoreItemRequest) (*models.ScoreItem, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	item := &models.ScoreItem{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Score:       req.Score,
		Description: req.Description,
	}
	if err := s.repo.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "评分项目不存在")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "更新评分项目失败")
	}
	return s.Get(ctx, id)
}

// Delete removes a score item unless teacher behavior records reference it.
func (s *ScoreItemService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	used, err := s.repo.CountUsages(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "删除评分项目失败")
	}
	if used > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "该评分项目已被使用，无法删除")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "评分项目不存在")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "删除评分项目失败")
	}
	return nil
}

func (s *ScoreItemService) validate(req ScoreItemRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "名称、类别和分数为必填项")
	}
	if req.Category == models.CategoryBonus && req.Score <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "加分项目的分数必须为正数")
	}
	if req.Category == models.CategoryDeduction && req.Score >= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "减分项目的分数必须为负数")
	}
	return nil
}
