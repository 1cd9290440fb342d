package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-conduct-api/internal/models"
	"github.com/noah-isme/school-conduct-api/internal/repository"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
)

type teacherBehaviorRepository interface {
	List(ctx context.Context, filter repository.TeacherBehaviorFilter) ([]models.TeacherBehavior, error)
	FindByID(ctx context.Context, id int64) (*models.TeacherBehavior, error)
	CreateWithLedger(ctx context.Context, tb *models.TeacherBehavior, key models.ClassKey) error
	UpdateWithLedger(ctx context.Context, tb *models.TeacherBehavior, oldKey models.ClassKey, oldScore float64, newKey models.ClassKey) error
	DeleteWithLedger(ctx context.Context, id int64, key models.ClassKey, score float64) error
	ListClassScores(ctx context.Context) ([]models.ClassScore, error)
}

type scoreItemLookup interface {
	FindByID(ctx context.Context, id int64) (*models.ScoreItem, error)
}

// TeacherBehaviorRequest is the create/update payload for a teacher
// behavior record. Score may come from an explicit value or a score item.
type TeacherBehaviorRequest struct {
	TeacherName   string   `json:"teacher_name" validate:"required"`
	BehaviorType  string   `json:"behavior_type" validate:"required"`
	Description   string   `json:"description" validate:"required"`
	Date          string   `json:"date"`
	ProcessResult string   `json:"process_result"`
	Score         *float64 `json:"score"`
	ScoreItemID   *int64   `json:"score_item_id"`
}

// classKeyPattern matches a teacher identity like "高二7班". The whole
// string must be the class label; trailing text is a validation failure,
// not a prefix to strip.
var classKeyPattern = regexp.MustCompile(`^(高一|高二|高三)(\d+)班$`)

// ParseClassKey derives the (grade, class-number) ledger bucket from a
// teacher identity string.
func ParseClassKey(teacherName string) (models.ClassKey, bool) {
	m := classKeyPattern.FindStringSubmatch(teacherName)
	if m == nil {
		return models.ClassKey{}, false
	}
	return models.ClassKey{Grade: m[1], Class: m[2]}, true
}

// TeacherBehaviorService provides teacher scoring use cases backed by the
// class-score ledger.
type TeacherBehaviorService struct {
	repo      teacherBehaviorRepository
	items     scoreItemLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherBehaviorService constructs a TeacherBehaviorService instance.
func NewTeacherBehaviorService(repo teacherBehaviorRepository, items scoreItemLookup, validate *validator.Validate, logger *zap.Logger) *TeacherBehaviorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TeacherBehaviorService{repo: repo, items: items, validator: validate, logger: logger}
}

// List returns teacher behavior records matching the filter.
func (s *TeacherBehaviorService) List(ctx context.Context, filter repository.TeacherBehaviorFilter) ([]models.TeacherBehavior, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取教师行为记录失败")
	}
	if records == nil {
		records = []models.TeacherBehavior{}
	}
	return records, nil
}

// Get returns one teacher behavior record.
func (s *TeacherBehaviorService) Get(ctx context.Context, id int64) (*models.TeacherBehavior, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "教师行为记录不存在")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "查询教师行为记录失败")
	}
	return record, nil
}

// Create logs a teacher behavior event and credits the class ledger. The
// teacher name must carry a parseable class key; the mutation is rejected
// before any write otherwise.
func (s *TeacherBehaviorService) Create(ctx context.Context, req TeacherBehaviorRequest) (*models.TeacherBehavior, error) {
	tb, key, err := s.buildRecord(ctx, req, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateWithLedger(ctx, tb, key); err != nil {
		return nil, storeError(err, "创建教师行为记录失败")
	}
	return s.Get(ctx, tb.ID)
}

// Update rewrites a teacher behavior record, moving its ledger credit if
// the score or class changed.
func (s *TeacherBehaviorService) Update(ctx context.Context, id int64, req TeacherBehaviorRequest) (*models.TeacherBehavior, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldKey, ok := ParseClassKey(existing.TeacherName)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "原记录的教师名称无法解析班级")
	}

	tb, newKey, err := s.buildRecord(ctx, req, id)
	if err != nil {
		return nil, err
	}
	if tb.Date == "" {
		tb.Date = existing.Date
	}
	if err := s.repo.UpdateWithLedger(ctx, tb, oldKey, existing.Score, newKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "教师行为记录不存在")
		}
		return nil, storeError(err, "更新教师行为记录失败")
	}
	return s.Get(ctx, id)
}

// Delete removes a teacher behavior record and reverses its ledger credit.
func (s *TeacherBehaviorService) Delete(ctx context.Context, id int64) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	key, ok := ParseClassKey(existing.TeacherName)
	if !ok {
		return appErrors.Clone(appErrors.ErrValidation, "原记录的教师名称无法解析班级")
	}
	if err := s.repo.DeleteWithLedger(ctx, id, key, existing.Score); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "教师行为记录不存在")
		}
		return storeError(err, "删除教师行为记录失败")
	}
	return nil
}

// ClassScores returns the full ledger, highest total first.
func (s *TeacherBehaviorService) ClassScores(ctx context.Context) ([]models.ClassScore, error) {
	scores, err := s.repo.ListClassScores(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "获取班级评分失败")
	}
	if scores == nil {
		scores = []models.ClassScore{}
	}
	return scores, nil
}

func (s *TeacherBehaviorService) buildRecord(ctx context.Context, req TeacherBehaviorRequest, id int64) (*models.TeacherBehavior, models.ClassKey, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, models.ClassKey{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "教师名称、行为类型和描述为必填项")
	}
	key, ok := ParseClassKey(req.TeacherName)
	if !ok {
		return nil, models.ClassKey{}, appErrors.Clone(appErrors.ErrValidation, "教师名称需以班级开头，如：高二7班")
	}

	score := 0.0
	if req.Score != nil {
		score = *req.Score
	}
	if req.ScoreItemID != nil {
		item, err := s.items.FindByID(ctx, *req.ScoreItemID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, models.ClassKey{}, appErrors.Clone(appErrors.ErrValidation, "评分项目不存在")
			}
			return nil, models.ClassKey{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "查询评分项目失败")
		}
		if req.Score == nil {
			score = item.Score
		}
	}

	return &models.TeacherBehavior{
		ID:            id,
		TeacherName:   req.TeacherName,
		BehaviorType:  req.BehaviorType,
		Description:   req.Description,
		Date:          req.Date,
		ProcessResult: req.ProcessResult,
		Score:         score,
		ScoreItemID:   req.ScoreItemID,
	}, key, nil
}
