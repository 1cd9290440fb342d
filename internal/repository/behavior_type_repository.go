package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-conduct-api/internal/models"
)

// BehaviorTypeRepository provides database access for behavior type
// templates.
type BehaviorTypeRepository struct {
	db *sqlx.DB
}

// NewBehaviorTypeRepository creates a new instance of BehaviorTypeRepository.
func NewBehaviorTypeRepository(db *sqlx.DB) *BehaviorTypeRepository {
	return &BehaviorTypeRepository{db: db}
}

const behaviorTypeColumns = `id, name, category, COALESCE(description, '') AS description, score`

// List returns behavior types, optionally restricted to one category.
func (r *BehaviorTypeRepository) List(ctx context.Context, category string) ([]models.BehaviorType, error) {
	query := `SELECT ` + behaviorTypeColumns + ` FROM behavior_types`
	var args []interface{}
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY category, id`

	var types []models.BehaviorType
	if err := r.db.SelectContext(ctx, &types, query, args...); err != nil {
		return nil, fmt.Errorf("list behavior types: %w", err)
	}
	return types, nil
}

// FindByID returns a behavior type by identifier.
func (r *BehaviorTypeRepository) FindByID(ctx context.Context, id int64) (*models.BehaviorType, error) {
	query := `SELECT ` + behaviorTypeColumns + ` FROM behavior_types WHERE id = ? LIMIT 1`
	var bt models.BehaviorType
	if err := r.db.GetContext(ctx, &bt, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find behavior type by id: %w", err)
	}
	return &bt, nil
}

// FindByName returns a behavior type by its unique name.
func (r *BehaviorTypeRepository) FindByName(ctx context.Context, name string) (*models.BehaviorType, error) {
	query := `SELECT ` + behaviorTypeColumns + ` FROM behavior_types WHERE name = ? LIMIT 1`
	var bt models.BehaviorType
	if err := r.db.GetContext(ctx, &bt, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find behavior type by name: %w", err)
	}
	return &bt, nil
}

// Create inserts a new behavior type and fills in the assigned identifier.
func (r *BehaviorTypeRepository) Create(ctx context.Context, bt *models.BehaviorType) error {
	const query = `INSERT INTO behavior_types (name, category, description, score) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, bt.Name, bt.Category, bt.Description, bt.Score)
	if err != nil {
		return fmt.Errorf("create behavior type: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create behavior type id: %w", err)
	}
	bt.ID = id
	return nil
}

// Update replaces the mutable fields of a behavior type.
func (r *BehaviorTypeRepository) Update(ctx context.Context, bt *models.BehaviorType) error {
	const query = `UPDATE behavior_types SET name = ?, category = ?, description = ?, score = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, bt.Name, bt.Category, bt.Description, bt.Score, bt.ID)
	if err != nil {
		return fmt.Errorf("update behavior type: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountUsages counts behavior records referencing the type by name.
func (r *BehaviorTypeRepository) CountUsages(ctx context.Context, name string) (int, error) {
	const query = `SELECT COUNT(*) FROM behaviors WHERE behavior_type = ?`
	var count int
	if err := r.db.GetContext(ctx, &count, query, name); err != nil {
		return 0, fmt.Errorf("count behavior type usages: %w", err)
	}
	return count, nil
}

// Delete removes a behavior type.
func (r *BehaviorTypeRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM behavior_types WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete behavior type: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
