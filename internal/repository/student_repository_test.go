package repository

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-conduct-api/internal/models"
)

func studentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "student_id", "grade", "class", "teacher", "photo_url",
		"address", "emergency_contact", "emergency_phone", "notes", "status",
	})
}

func TestListStudentsFiltered(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := studentRows().
		AddRow(1, "张三", "20250001", "高一", "3班", "高一3班", "", "", "", "", "", "正常")
	mock.ExpectQuery("SELECT id, name, student_id").
		WithArgs("高一", "%张%", "%张%").
		WillReturnRows(rows)

	students, err := repo.List(context.Background(), StudentFilter{Grade: "高一", Name: "张"})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "张三", students[0].Name)
	assert.Equal(t, "3班", students[0].Class)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(12, 1))

	s := &models.Student{Name: "李四", StudentID: "20250002", Grade: "高二", Class: "1班", Status: "正常"}
	err := repo.Create(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, int64(12), s.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStudentRemovesBehaviors(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM behaviors WHERE student_id").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM students WHERE id").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 5)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStudentNotFoundRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM behaviors WHERE student_id").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM students WHERE id").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchDeleteStudents(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	nameRows := sqlmock.NewRows([]string{"name"}).AddRow("张三").AddRow("李四")
	mock.ExpectQuery("SELECT name FROM students WHERE id IN").
		WithArgs(int64(1), int64(2)).
		WillReturnRows(nameRows)
	mock.ExpectExec("DELETE FROM behaviors WHERE student_id IN").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM students WHERE id IN").
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	names, deleted, err := repo.BatchDelete(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.Equal(t, []string{"张三", "李四"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchDeleteEmpty(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	names, deleted, err := repo.BatchDelete(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, deleted)
	assert.Empty(t, names)
}
