package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-conduct-api/internal/models"
)

// BehaviorRepository provides database access for student behavior records.
type BehaviorRepository struct {
	db *sqlx.DB
}

// NewBehaviorRepository creates a new instance of BehaviorRepository.
func NewBehaviorRepository(db *sqlx.DB) *BehaviorRepository {
	return &BehaviorRepository{db: db}
}

const behaviorColumns = `b.id, b.student_id, b.behavior_type,
	COALESCE(b.description, '') AS description,
	b.date,
	COALESCE(b.image_url, '') AS image_url,
	COALESCE(b.process_result, '') AS process_result,
	s.name AS student_name, s.grade, s.class`

// List returns behavior records joined with student details, newest first.
func (r *BehaviorRepository) List(ctx context.Context, filter models.BehaviorFilter) ([]models.Behavior, error) {
	query := `SELECT ` + behaviorColumns + `
		FROM behaviors b JOIN students s ON s.id = b.student_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.StudentID != 0 {
		conditions = append(conditions, "b.student_id = ?")
		args = append(args, filter.StudentID)
	}
	if filter.BehaviorType != "" {
		conditions = append(conditions, "b.behavior_type = ?")
		args = append(args, filter.BehaviorType)
	}
	if filter.StartDate != "" {
		conditions = append(conditions, "b.date >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		conditions = append(conditions, "b.date <= ?")
		args = append(args, filter.EndDate)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY b.date DESC"

	var behaviors []models.Behavior
	if err := r.db.SelectContext(ctx, &behaviors, query, args...); err != nil {
		return nil, fmt.Errorf("list behaviors: %w", err)
	}
	return behaviors, nil
}

// FindByID returns one behavior record joined with student details.
func (r *BehaviorRepository) FindByID(ctx context.Context, id int64) (*models.Behavior, error) {
	query := `SELECT ` + behaviorColumns + `
		FROM behaviors b JOIN students s ON s.id = b.student_id WHERE b.id = ? LIMIT 1`
	var behavior models.Behavior
	if err := r.db.GetContext(ctx, &behavior, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find behavior by id: %w", err)
	}
	return &behavior, nil
}

// ListByStudent returns all behavior records for one student, newest first.
func (r *BehaviorRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Behavior, error) {
	query := `SELECT ` + behaviorColumns + `
		FROM behaviors b JOIN students s ON s.id = b.student_id
		WHERE b.student_id = ? ORDER BY b.date DESC`
	var behaviors []models.Behavior
	if err := r.db.SelectContext(ctx, &behaviors, query, studentID); err != nil {
		return nil, fmt.Errorf("list student behaviors: %w", err)
	}
	return behaviors, nil
}

// ListRecent returns the latest behavior records across all students.
func (r *BehaviorRepository) ListRecent(ctx context.Context, limit int) ([]models.Behavior, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT `+behaviorColumns+`
		FROM behaviors b JOIN students s ON s.id = b.student_id
		ORDER BY b.date DESC LIMIT %d`, limit)
	var behaviors []models.Behavior
	if err := r.db.SelectContext(ctx, &behaviors, query); err != nil {
		return nil, fmt.Errorf("list recent behaviors: %w", err)
	}
	return behaviors, nil
}

// CountByCategory counts behavior records, optionally narrowed to one
// category and a date range.
func (r *BehaviorRepository) CountByCategory(ctx context.Context, category, startDate, endDate string) (int, error) {
	query := `SELECT COUNT(*) FROM behaviors b
		JOIN behavior_types bt ON bt.name = b.behavior_type WHERE 1=1`
	var conditions []string
	var args []interface{}

	if category != "" {
		conditions = append(conditions, "bt.category = ?")
		args = append(args, category)
	}
	if startDate != "" {
		conditions = append(conditions, "b.date >= ?")
		args = append(args, startDate)
	}
	if endDate != "" {
		conditions = append(conditions, "b.date <= ?")
		args = append(args, endDate)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count behaviors: %w", err)
	}
	return count, nil
}

// Create inserts a new behavior record and fills in the assigned identifier.
// When Date is empty the database assigns the current localtime.
func (r *BehaviorRepository) Create(ctx context.Context, b *models.Behavior) error {
	var (
		res sql.Result
		err error
	)
	if b.Date == "" {
		const query = `INSERT INTO behaviors (student_id, behavior_type, description, image_url, process_result)
			VALUES (?, ?, ?, ?, ?)`
		res, err = r.db.ExecContext(ctx, query,
			b.StudentID, b.BehaviorType, b.Description, b.ImageURL, b.ProcessResult)
	} else {
		const query = `INSERT INTO behaviors (student_id, behavior_type, description, date, image_url, process_result)
			VALUES (?, ?, ?, ?, ?, ?)`
		res, err = r.db.ExecContext(ctx, query,
			b.StudentID, b.BehaviorType, b.Description, b.Date, b.ImageURL, b.ProcessResult)
	}
	if err != nil {
		return fmt.Errorf("create behavior: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create behavior id: %w", err)
	}
	b.ID = id
	return nil
}

// Update replaces the mutable fields of a behavior record.
func (r *BehaviorRepository) Update(ctx context.Context, b *models.Behavior) error {
	const query = `UPDATE behaviors SET
		student_id = ?, behavior_type = ?, description = ?, date = ?, image_url = ?, process_result = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		b.StudentID, b.BehaviorType, b.Description, b.Date, b.ImageURL, b.ProcessResult, b.ID)
	if err != nil {
		return fmt.Errorf("update behavior: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a behavior record.
func (r *BehaviorRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM behaviors WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete behavior: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
