package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-conduct-api/internal/models"
)

// ScoreItemRepository provides database access for teacher scoring items.
type ScoreItemRepository struct {
	db *sqlx.DB
}

// NewScoreItemRepository creates a new instance of ScoreItemRepository.
func NewScoreItemRepository(db *sqlx.DB) *ScoreItemRepository {
	return &ScoreItemRepository{db: db}
}

const scoreItemColumns = `id, name, category, score,
	COALESCE(description, '') AS description, created_at, updated_at`

// List returns score items, optionally restricted to one category.
func (r *ScoreItemRepository) List(ctx context.Context, category string) ([]models.ScoreItem, error) {
	query := `SELECT ` + scoreItemColumns + ` FROM score_items`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY category, id`

	var items []models.ScoreItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list score items: %w", err)
	}
	return items, nil
}

// FindByID returns a score item by identifier.
func (r *ScoreItemRepository) FindByID(ctx context.Context, id int64) (*models.ScoreItem, error) {
	query := `SELECT ` + scoreItemColumns + ` FROM score_items WHERE id = ? LIMIT 1`
	var item models.ScoreItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find score item by id: %w", err)
	}
	return &item, nil
}

// Create inserts a new score item and fills in the assigned identifier.
func (r *ScoreItemRepository) Create(ctx context.Context, item *models.ScoreItem) error {
	const query = `INSERT INTO score_items (name, category, score, description) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, item.Name, item.Category, item.Score, item.Description)
	if err != nil {
		return fmt.Errorf("create score item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create score item id: %w", err)
	}
	item.ID = id
	return nil
}

// Update replaces the mutable fields of a score item.
func (r *ScoreItemRepository) Update(ctx context.Context, item *models.ScoreItem) error {
	const query = `UPDATE score_items SET name = ?, category = ?, score = ?, description = ?,
		updated_at = datetime(CURRENT_TIMESTAMP,'localtime') WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, item.Name, item.Category, item.Score, item.Description, item.ID)
	if err != nil {
		return fmt.Errorf("update score item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountUsages counts teacher behavior records referencing the item.
func (r *ScoreItemRepository) CountUsages(ctx context.Context, id int64) (int, error) {
	const query = `SELECT COUNT(*) FROM teacher_behaviors WHERE score_item_id = ?`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count score item usages: %w", err)
	}
	return count, nil
}

// Delete removes a score item.
func (r *ScoreItemRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM score_items WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete score item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
