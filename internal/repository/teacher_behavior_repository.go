package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-conduct-api/internal/models"
)

// TeacherBehaviorFilter narrows teacher behavior listings.
type TeacherBehaviorFilter struct {
	TeacherName string
	StartDate   string
	EndDate     string
}

// TeacherBehaviorRepository provides database access for teacher behavior
// records and keeps the class-score ledger in lockstep with mutations.
type TeacherBehaviorRepository struct {
	db *sqlx.DB
}

// NewTeacherBehaviorRepository creates a new instance of TeacherBehaviorRepository.
func NewTeacherBehaviorRepository(db *sqlx.DB) *TeacherBehaviorRepository {
	return &TeacherBehaviorRepository{db: db}
}

const teacherBehaviorColumns = `id, teacher_name, behavior_type,
	description, date,
	COALESCE(process_result, '') AS process_result,
	score, score_item_id, created_at, updated_at`

// List returns teacher behavior records, newest first.
func (r *TeacherBehaviorRepository) List(ctx context.Context, filter TeacherBehaviorFilter) ([]models.TeacherBehavior, error) {
	query := `SELECT ` + teacherBehaviorColumns + ` FROM teacher_behaviors WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.TeacherName != "" {
		conditions = append(conditions, "teacher_name LIKE ?")
		args = append(args, "%"+filter.TeacherName+"%")
	}
	if filter.StartDate != "" {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.EndDate)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC"

	var records []models.TeacherBehavior
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list teacher behaviors: %w", err)
	}
	return records, nil
}

// FindByID returns a teacher behavior record by identifier.
func (r *TeacherBehaviorRepository) FindByID(ctx context.Context, id int64) (*models.TeacherBehavior, error) {
	query := `SELECT ` + teacherBehaviorColumns + ` FROM teacher_behaviors WHERE id = ? LIMIT 1`
	var record models.TeacherBehavior
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher behavior by id: %w", err)
	}
	return &record, nil
}

// applyScore moves a class-score ledger bucket by delta, creating the
// bucket on first touch.
func applyScore(ctx context.Context, tx *sqlx.Tx, key models.ClassKey, delta float64) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO class_scores (grade, class, total_score) VALUES (?, ?, 0)
		ON CONFLICT(grade, class) DO NOTHING`, key.Grade, key.Class); err != nil {
		return fmt.Errorf("ensure class score: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE class_scores SET total_score = total_score + ?,
		updated_at = datetime(CURRENT_TIMESTAMP,'localtime')
		WHERE grade = ? AND class = ?`, delta, key.Grade, key.Class); err != nil {
		return fmt.Errorf("apply class score: %w", err)
	}
	return nil
}

// CreateWithLedger inserts a teacher behavior record and credits its score
// to the class ledger bucket in the same transaction.
func (r *TeacherBehaviorRepository) CreateWithLedger(ctx context.Context, tb *models.TeacherBehavior, key models.ClassKey) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create teacher behavior begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var (
		res sql.Result
	)
	if tb.Date == "" {
		const query = `INSERT INTO teacher_behaviors
			(teacher_name, behavior_type, description, process_result, score, score_item_id)
			VALUES (?, ?, ?, ?, ?, ?)`
		res, err = tx.ExecContext(ctx, query,
			tb.TeacherName, tb.BehaviorType, tb.Description, tb.ProcessResult, tb.Score, tb.ScoreItemID)
	} else {
		const query = `INSERT INTO teacher_behaviors
			(teacher_name, behavior_type, description, date, process_result, score, score_item_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
		res, err = tx.ExecContext(ctx, query,
			tb.TeacherName, tb.BehaviorType, tb.Description, tb.Date, tb.ProcessResult, tb.Score, tb.ScoreItemID)
	}
	if err != nil {
		return fmt.Errorf("create teacher behavior: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create teacher behavior id: %w", err)
	}
	tb.ID = id

	if err := applyScore(ctx, tx, key, tb.Score); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create teacher behavior commit: %w", err)
	}
	return nil
}

// UpdateWithLedger rewrites a teacher behavior record, reversing the old
// score at the old class bucket and crediting the new score at the new one,
// all within one transaction.
func (r *TeacherBehaviorRepository) UpdateWithLedger(ctx context.Context, tb *models.TeacherBehavior, oldKey models.ClassKey, oldScore float64, newKey models.ClassKey) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update teacher behavior begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `UPDATE teacher_behaviors SET
		teacher_name = ?, behavior_type = ?, description = ?, date = ?,
		process_result = ?, score = ?, score_item_id = ?,
		updated_at = datetime(CURRENT_TIMESTAMP,'localtime')
		WHERE id = ?`
	res, err := tx.ExecContext(ctx, query,
		tb.TeacherName, tb.BehaviorType, tb.Description, tb.Date,
		tb.ProcessResult, tb.Score, tb.ScoreItemID, tb.ID)
	if err != nil {
		return fmt.Errorf("update teacher behavior: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if oldKey == newKey {
		if err := applyScore(ctx, tx, newKey, tb.Score-oldScore); err != nil {
			return err
		}
	} else {
		if err := applyScore(ctx, tx, oldKey, -oldScore); err != nil {
			return err
		}
		if err := applyScore(ctx, tx, newKey, tb.Score); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update teacher behavior commit: %w", err)
	}
	return nil
}

// DeleteWithLedger removes a teacher behavior record and reverses its score
// at the class bucket in the same transaction.
func (r *TeacherBehaviorRepository) DeleteWithLedger(ctx context.Context, id int64, key models.ClassKey, score float64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete teacher behavior begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM teacher_behaviors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete teacher behavior: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	if err := applyScore(ctx, tx, key, -score); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete teacher behavior commit: %w", err)
	}
	return nil
}

// ListClassScores returns the full ledger ordered by total score descending.
func (r *TeacherBehaviorRepository) ListClassScores(ctx context.Context) ([]models.ClassScore, error) {
	const query = `SELECT id, grade, class, total_score, updated_at
		FROM class_scores ORDER BY total_score DESC, grade, class`
	var scores []models.ClassScore
	if err := r.db.SelectContext(ctx, &scores, query); err != nil {
		return nil, fmt.Errorf("list class scores: %w", err)
	}
	return scores, nil
}
