package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/school-conduct-api/internal/models"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
)

type auditRepository interface {
	Create(ctx context.Context, log *models.OperationLog) error
	List(ctx context.Context, filter models.OperationLogFilter) ([]models.OperationLog, int, error)
	BatchDelete(ctx context.Context, ids []int64) (int64, error)
}

// AuditService appends entries to the operation log. Recording is
// best-effort: a failed write never fails the request that triggered it.
type AuditService struct {
	repo   auditRepository
	logger *zap.Logger
}

// NewAuditService constructs an AuditService instance.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record appends one audit entry, swallowing storage failures.
func (s *AuditService) Record(ctx context.Context, entry models.OperationLog) {
	if entry.Status == "" {
		entry.Status = "success"
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Warn("audit write failed",
			zap.String("module", entry.Module),
			zap.String("type", entry.Type),
			zap.Error(err))
	}
}

// BatchDelete removes the selected audit entries.
func (s *AuditService) BatchDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "请选择要删除的日志")
	}
	deleted, err := s.repo.BatchDelete(ctx, ids)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "删除日志失败")
	}
	return deleted, nil
}

// List returns a page of audit entries.
func (s *AuditService) List(ctx context.Context, filter models.OperationLogFilter) (*models.OperationLogPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	logs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []models.OperationLog{}
	}
	return &models.OperationLogPage{
		Logs:     logs,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}
