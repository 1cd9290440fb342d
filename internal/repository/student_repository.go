package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/school-conduct-api/internal/models"
)

// StudentFilter narrows roster listings.
type StudentFilter struct {
	Grade  string
	Class  string
	Name   string
	Status string
}

// StudentRepository provides database access for the student roster.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new instance of StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, name, student_id, grade, class,
	COALESCE(teacher, '') AS teacher,
	COALESCE(photo_url, '') AS photo_url,
	COALESCE(address, '') AS address,
	COALESCE(emergency_contact, '') AS emergency_contact,
	COALESCE(emergency_phone, '') AS emergency_phone,
	COALESCE(notes, '') AS notes,
	status`

// List returns students matching the filter, ordered by grade then class.
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Grade != "" {
		conditions = append(conditions, "grade = ?")
		args = append(args, filter.Grade)
	}
	if filter.Class != "" {
		conditions = append(conditions, "class = ?")
		args = append(args, filter.Class)
	}
	if filter.Name != "" {
		conditions = append(conditions, "(name LIKE ? OR student_id LIKE ?)")
		pattern := "%" + filter.Name + "%"
		args = append(args, pattern, pattern)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY grade, class, student_id"

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID returns a student by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = ? LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by id: %w", err)
	}
	return &student, nil
}

// FindByStudentID returns a student by school-issued student number.
func (r *StudentRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_id = ? LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student by student id: %w", err)
	}
	return &student, nil
}

// ExistsStudentID reports whether a student number is already taken.
func (r *StudentRepository) ExistsStudentID(ctx context.Context, studentID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM students WHERE student_id = ?`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID); err != nil {
		return false, fmt.Errorf("check student id: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new student and fills in the assigned identifier.
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	const query = `INSERT INTO students
		(name, student_id, grade, class, teacher, photo_url, address, emergency_contact, emergency_phone, notes, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		s.Name, s.StudentID, s.Grade, s.Class, s.Teacher, s.PhotoURL,
		s.Address, s.EmergencyContact, s.EmergencyPhone, s.Notes, s.Status)
	if err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("create student id: %w", err)
	}
	s.ID = id
	return nil
}

// Update replaces every mutable field of a student.
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	const query = `UPDATE students SET
		name = ?, student_id = ?, grade = ?, class = ?, teacher = ?, photo_url = ?,
		address = ?, emergency_contact = ?, emergency_phone = ?, notes = ?, status = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name, s.StudentID, s.Grade, s.Class, s.Teacher, s.PhotoURL,
		s.Address, s.EmergencyContact, s.EmergencyPhone, s.Notes, s.Status, s.ID)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a student together with their behavior records in one
// transaction.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete student begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM behaviors WHERE student_id = ?`, id); err != nil {
		return fmt.Errorf("delete student behaviors: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete student commit: %w", err)
	}
	return nil
}

// BatchDelete removes the given students and their behavior records in one
// transaction, returning the names of the students actually removed.
func (r *StudentRepository) BatchDelete(ctx context.Context, ids []int64) ([]string, int64, error) {
	if len(ids) == 0 {
		return nil, 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("batch delete begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := sqlx.In(`SELECT name FROM students WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("batch delete expand: %w", err)
	}
	var names []string
	if err := tx.SelectContext(ctx, &names, tx.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("batch delete names: %w", err)
	}

	query, args, err = sqlx.In(`DELETE FROM behaviors WHERE student_id IN (?)`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("batch delete expand: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("batch delete behaviors: %w", err)
	}

	query, args, err = sqlx.In(`DELETE FROM students WHERE id IN (?)`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("batch delete expand: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("batch delete students: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, 0, fmt.Errorf("batch delete count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("batch delete commit: %w", err)
	}
	return names, deleted, nil
}
