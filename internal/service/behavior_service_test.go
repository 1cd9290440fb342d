package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-conduct-api/internal/models"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
)

type mockBehaviorRepo struct {
	behaviors map[int64]*models.Behavior
	counts    map[string]int
	nextID    int64
}

func (m *mockBehaviorRepo) List(ctx context.Context, filter models.BehaviorFilter) ([]models.Behavior, error) {
	var out []models.Behavior
	for _, b := range m.behaviors {
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBehaviorRepo) FindByID(ctx context.Context, id int64) (*models.Behavior, error) {
	if b, ok := m.behaviors[id]; ok {
		copy := *b
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBehaviorRepo) CountByCategory(ctx context.Context, category, startDate, endDate string) (int, error) {
	if category == "" {
		total := 0
		for _, n := range m.counts {
			total += n
		}
		return total, nil
	}
	return m.counts[category], nil
}

func (m *mockBehaviorRepo) Create(ctx context.Context, b *models.Behavior) error {
	if m.behaviors == nil {
		m.behaviors = make(map[int64]*models.Behavior)
	}
	m.nextID++
	b.ID = m.nextID
	copy := *b
	m.behaviors[b.ID] = &copy
	return nil
}

func (m *mockBehaviorRepo) Update(ctx context.Context, b *models.Behavior) error {
	if _, ok := m.behaviors[b.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *b
	m.behaviors[b.ID] = &copy
	return nil
}

func (m *mockBehaviorRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.behaviors[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.behaviors, id)
	return nil
}

type mockStudentLookup struct {
	students map[int64]*models.Student
}

func (m *mockStudentLookup) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

type mockTypeLookup struct {
	names map[string]*models.BehaviorType
}

func (m *mockTypeLookup) FindByName(ctx context.Context, name string) (*models.BehaviorType, error) {
	if bt, ok := m.names[name]; ok {
		copy := *bt
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func newBehaviorFixture() (*BehaviorService, *mockBehaviorRepo) {
	repo := &mockBehaviorRepo{
		behaviors: map[int64]*models.Behavior{},
		counts:    map[string]int{},
	}
	students := &mockStudentLookup{students: map[int64]*models.Student{
		1: {ID: 1, Name: "张三", StudentID: "20230101", Grade: "高一", Class: "1班"},
	}}
	types := &mockTypeLookup{names: map[string]*models.BehaviorType{
		"迟到": {ID: 1, Name: "迟到", Category: models.CategoryViolation, Score: -2},
	}}
	return NewBehaviorService(repo, students, types, nil, nil), repo
}

func TestBehaviorCreateChecksReferences(t *testing.T) {
	svc, _ := newBehaviorFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, BehaviorRequest{StudentID: 1, BehaviorType: "迟到", Date: "2026-03-01 08:05:00"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = svc.Create(ctx, BehaviorRequest{StudentID: 99, BehaviorType: "迟到"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)

	_, err = svc.Create(ctx, BehaviorRequest{StudentID: 1, BehaviorType: "不存在的类型"})
	require.Error(t, err)
}

func TestBehaviorUpdateKeepsOmittedFields(t *testing.T) {
	svc, _ := newBehaviorFixture()
	ctx := context.Background()

	created, err := svc.Create(ctx, BehaviorRequest{
		StudentID:     1,
		BehaviorType:  "迟到",
		Description:   "早读迟到",
		Date:          "2026-03-01 08:05:00",
		ProcessResult: "已谈话",
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, BehaviorRequest{Description: "升旗仪式迟到"})
	require.NoError(t, err)
	assert.Equal(t, "升旗仪式迟到", updated.Description)
	assert.Equal(t, int64(1), updated.StudentID)
	assert.Equal(t, "迟到", updated.BehaviorType)
	assert.Equal(t, "2026-03-01 08:05:00", updated.Date)
	assert.Equal(t, "已谈话", updated.ProcessResult)
}

func TestBehaviorUpdateMissingRecord(t *testing.T) {
	svc, _ := newBehaviorFixture()

	_, err := svc.Update(context.Background(), 42, BehaviorRequest{Description: "x"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestBehaviorCountMapsTypeAliases(t *testing.T) {
	svc, repo := newBehaviorFixture()
	repo.counts[models.CategoryViolation] = 7
	repo.counts[models.CategoryExcellent] = 3
	ctx := context.Background()

	all, err := svc.Count(ctx, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, 10, all.Count)

	violations, err := svc.Count(ctx, "violation", "", "")
	require.NoError(t, err)
	assert.Equal(t, 7, violations.Count)

	excellent, err := svc.Count(ctx, "excellent", "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, excellent.Count)

	_, err = svc.Count(ctx, "bogus", "", "")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)
}

func TestBehaviorDeleteMissingRecord(t *testing.T) {
	svc, _ := newBehaviorFixture()

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}
