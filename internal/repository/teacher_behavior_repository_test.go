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

func TestCreateWithLedger(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherBehaviorRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO teacher_behaviors").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec("INSERT INTO class_scores").
		WithArgs("高二", "7").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE class_scores SET total_score").
		WithArgs(3.0, "高二", "7").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tb := &models.TeacherBehavior{
		TeacherName:  "高二7班",
		BehaviorType: "课堂表扬",
		Description:  "公开课表现突出",
		Score:        3,
	}
	err := repo.CreateWithLedger(context.Background(), tb, models.ClassKey{Grade: "高二", Class: "7"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), tb.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWithLedgerSameClass(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherBehaviorRepository(db)

	key := models.ClassKey{Grade: "高一", Class: "2"}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teacher_behaviors SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO class_scores").
		WithArgs("高一", "2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE class_scores SET total_score").
		WithArgs(-5.0, "高一", "2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tb := &models.TeacherBehavior{ID: 4, TeacherName: "高一2班", BehaviorType: "迟到", Score: -2}
	err := repo.UpdateWithLedger(context.Background(), tb, key, 3, key)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWithLedgerMovedClass(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherBehaviorRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE teacher_behaviors SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO class_scores").
		WithArgs("高一", "2").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE class_scores SET total_score").
		WithArgs(-3.0, "高一", "2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO class_scores").
		WithArgs("高三", "1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE class_scores SET total_score").
		WithArgs(2.0, "高三", "1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tb := &models.TeacherBehavior{ID: 4, TeacherName: "高三1班", BehaviorType: "表扬", Score: 2}
	err := repo.UpdateWithLedger(context.Background(), tb,
		models.ClassKey{Grade: "高一", Class: "2"}, 3,
		models.ClassKey{Grade: "高三", Class: "1"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWithLedger(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherBehaviorRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM teacher_behaviors").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO class_scores").
		WithArgs("高二", "7").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE class_scores SET total_score").
		WithArgs(-3.0, "高二", "7").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteWithLedger(context.Background(), 9, models.ClassKey{Grade: "高二", Class: "7"}, 3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWithLedgerNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherBehaviorRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM teacher_behaviors").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteWithLedger(context.Background(), 404, models.ClassKey{Grade: "高一", Class: "1"}, 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListClassScores(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewTeacherBehaviorRepository(db)

	rows := sqlmock.NewRows([]string{"id", "grade", "class", "total_score", "updated_at"}).
		AddRow(1, "高二", "7", 12.5, "2026-03-01 10:00:00").
		AddRow(2, "高一", "2", -3.0, "2026-03-02 09:30:00")
	mock.ExpectQuery("SELECT id, grade, class, total_score").
		WillReturnRows(rows)

	scores, err := repo.ListClassScores(context.Background())
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 12.5, scores[0].TotalScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}
