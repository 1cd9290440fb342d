package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/noah-isme/school-conduct-api/internal/models"
	"github.com/noah-isme/school-conduct-api/internal/repository"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
)

type mockStudentRepo struct {
	students  map[int64]*models.Student
	nextID    int64
	deleteErr error
}

func (m *mockStudentRepo) List(ctx context.Context, filter repository.StudentFilter) ([]models.Student, error) {
	var out []models.Student
	for _, s := range m.students {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsStudentID(ctx context.Context, studentID string) (bool, error) {
	for _, s := range m.students {
		if s.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, s *models.Student) error {
	if m.students == nil {
		m.students = make(map[int64]*models.Student)
	}
	m.nextID++
	s.ID = m.nextID
	copy := *s
	m.students[s.ID] = &copy
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, s *models.Student) error {
	if _, ok := m.students[s.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *s
	m.students[s.ID] = &copy
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) BatchDelete(ctx context.Context, ids []int64) ([]string, int64, error) {
	if m.deleteErr != nil {
		return nil, 0, m.deleteErr
	}
	var names []string
	var deleted int64
	for _, id := range ids {
		if s, ok := m.students[id]; ok {
			names = append(names, s.Name)
			delete(m.students, id)
			deleted++
		}
	}
	return names, deleted, nil
}

type mockBehaviorLookup struct {
	behaviors map[int64][]models.Behavior
}

func (m *mockBehaviorLookup) ListByStudent(ctx context.Context, studentID int64) ([]models.Behavior, error) {
	return m.behaviors[studentID], nil
}

func newStudentService(repo *mockStudentRepo) *StudentService {
	return NewStudentService(repo, &mockBehaviorLookup{}, nil, nil)
}

func TestNormalizeGrade(t *testing.T) {
	year := time.Now().Year()

	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "高一", want: "高一"},
		{in: "高二", want: "高二"},
		{in: "高三", want: "高三"},
		{in: fmt.Sprintf("%d级", year), want: fmt.Sprintf("%d级", year)},
		{in: fmt.Sprintf("%d", year+2), want: fmt.Sprintf("%d级", year+2)},
		{in: fmt.Sprintf("%d级", year+6), wantErr: true},
		{in: fmt.Sprintf("%d级", year-6), wantErr: true},
		{in: "初一", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := NormalizeGrade(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestCreateStudentDuplicateNumber(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentService(repo)

	_, err := svc.Create(context.Background(), StudentRequest{Name: "张三", StudentID: "S001", Grade: "高一"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), StudentRequest{Name: "李四", StudentID: "S001", Grade: "高二"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCreateStudentInvalidStatus(t *testing.T) {
	svc := newStudentService(&mockStudentRepo{})

	_, err := svc.Create(context.Background(), StudentRequest{Name: "张三", StudentID: "S001", Grade: "高一", Status: "休学"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCreateStudentDefaultsStatus(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentService(repo)

	created, err := svc.Create(context.Background(), StudentRequest{Name: "张三", StudentID: "S001", Grade: "高一"})
	require.NoError(t, err)
	assert.Equal(t, "正常", created.Status)
}

func TestBatchDeleteRequiresIDs(t *testing.T) {
	svc := newStudentService(&mockStudentRepo{})

	_, err := svc.BatchDelete(context.Background(), nil)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestBatchDeleteReportsNames(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentService(repo)
	a, err := svc.Create(context.Background(), StudentRequest{Name: "张三", StudentID: "S001", Grade: "高一"})
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), StudentRequest{Name: "李四", StudentID: "S002", Grade: "高一"})
	require.NoError(t, err)

	result, err := svc.BatchDelete(context.Background(), []int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.DeletedCount)
	assert.ElementsMatch(t, []string{"张三", "李四"}, result.Details.StudentNames)
}

type lockedDBErr struct{}

func (lockedDBErr) Error() string { return "database is locked (5) (SQLITE_BUSY)" }
func (lockedDBErr) Code() int     { return sqlite3.SQLITE_BUSY }

func TestDeleteStudentBusySurfacesRetryableConflict(t *testing.T) {
	repo := &mockStudentRepo{
		students:  map[int64]*models.Student{1: {ID: 1, Name: "张三", StudentID: "S001", Grade: "高一"}},
		deleteErr: lockedDBErr{},
	}
	svc := newStudentService(repo)

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrBusy.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrBusy.Status, appErr.Status)

	_, err = svc.BatchDelete(context.Background(), []int64{1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBusy.Code, appErrors.FromError(err).Code)
}

func rosterWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	headers := []interface{}{"姓名", "学号", "年级", "班级", "班主任", "地址", "紧急联系人", "紧急联系电话", "备注"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &headers))
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportRejectsWholeFileOnBadRow(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentService(repo)

	buf := rosterWorkbook(t, [][]interface{}{
		{"张三", "S001", "高一", "1班"},
		{"李四", "", "高二", "2班"},
	})

	_, err := svc.Import(context.Background(), buf)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.Len(t, appErr.Details, 1)
	assert.Contains(t, appErr.Details[0], "第3行")
	assert.Empty(t, repo.students)
}

func TestImportCollectsDuplicates(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentService(repo)
	_, err := svc.Create(context.Background(), StudentRequest{Name: "已有", StudentID: "S001", Grade: "高一"})
	require.NoError(t, err)

	buf := rosterWorkbook(t, [][]interface{}{
		{"张三", "S001", "高一", "1班"},
		{"李四", "S002", "高二", "2班"},
	})

	result, err := svc.Import(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "S001")
}

func TestImportNormalizesCohortGrades(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentService(repo)

	year := time.Now().Year()
	buf := rosterWorkbook(t, [][]interface{}{
		{"张三", "S010", fmt.Sprintf("%d", year), "1班"},
	})

	result, err := svc.Import(context.Background(), buf)
	require.NoError(t, err)
	require.Equal(t, 1, result.Success)
	for _, s := range repo.students {
		assert.Equal(t, fmt.Sprintf("%d级", year), s.Grade)
	}
}

func TestReportIncludesBehaviorRows(t *testing.T) {
	repo := &mockStudentRepo{}
	lookup := &mockBehaviorLookup{behaviors: map[int64][]models.Behavior{}}
	svc := NewStudentService(repo, lookup, nil, nil)

	created, err := svc.Create(context.Background(), StudentRequest{Name: "张三", StudentID: "S001", Grade: "高一", Class: "1班"})
	require.NoError(t, err)
	lookup.behaviors[created.ID] = []models.Behavior{
		{ID: 1, StudentID: created.ID, BehaviorType: "Late", Date: "2026-03-01 08:10:00"},
	}

	data, filename, err := svc.Report(context.Background(), created.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "conduct-report-S001.pdf", filename)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}
