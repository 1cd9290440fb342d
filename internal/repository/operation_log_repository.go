package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-conduct-api/internal/models"
)

// OperationLogRepository provides database access for the audit trail.
type OperationLogRepository struct {
	db *sqlx.DB
}

// NewOperationLogRepository creates a new instance of OperationLogRepository.
func NewOperationLogRepository(db *sqlx.DB) *OperationLogRepository {
	return &OperationLogRepository{db: db}
}

// Create appends one audit entry.
func (r *OperationLogRepository) Create(ctx context.Context, log *models.OperationLog) error {
	const query = `INSERT INTO operation_logs (type, module, description, username, status, details)
		VALUES (?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query,
		log.Type, log.Module, log.Description, log.Username, log.Status, log.Details); err != nil {
		return fmt.Errorf("create operation log: %w", err)
	}
	return nil
}

// BatchDelete removes the given audit entries and reports how many went.
func (r *OperationLogRepository) BatchDelete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM operation_logs WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fmt.Errorf("batch delete logs: %w", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("batch delete logs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("batch delete logs: %w", err)
	}
	return deleted, nil
}

// List returns a page of audit entries, newest first, with total count.
func (r *OperationLogRepository) List(ctx context.Context, filter models.OperationLogFilter) ([]models.OperationLog, int, error) {
	baseQuery := `FROM operation_logs WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.StartDate != "" {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, filter.EndDate)
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT id, type, module, description, username, status, details, timestamp %s ORDER BY timestamp DESC LIMIT %d OFFSET %d", baseQuery, pageSize, offset)

	var logs []models.OperationLog
	if err := r.db.SelectContext(ctx, &logs, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list operation logs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count operation logs: %w", err)
	}

	return logs, total, nil
}
