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

type mockBehaviorTypeRepo struct {
	types  map[int64]*models.BehaviorType
	usages map[string]int
	nextID int64
}

func (m *mockBehaviorTypeRepo) List(ctx context.Context, category string) ([]models.BehaviorType, error) {
	var out []models.BehaviorType
	for _, bt := range m.types {
		if category == "" || bt.Category == category {
			out = append(out, *bt)
		}
	}
	return out, nil
}

func (m *mockBehaviorTypeRepo) FindByID(ctx context.Context, id int64) (*models.BehaviorType, error) {
	if bt, ok := m.types[id]; ok {
		copy := *bt
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBehaviorTypeRepo) FindByName(ctx context.Context, name string) (*models.BehaviorType, error) {
	for _, bt := range m.types {
		if bt.Name == name {
			copy := *bt
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockBehaviorTypeRepo) Create(ctx context.Context, bt *models.BehaviorType) error {
	if m.types == nil {
		m.types = make(map[int64]*models.BehaviorType)
	}
	m.nextID++
	bt.ID = m.nextID
	copy := *bt
	m.types[bt.ID] = &copy
	return nil
}

func (m *mockBehaviorTypeRepo) Update(ctx context.Context, bt *models.BehaviorType) error {
	if _, ok := m.types[bt.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *bt
	m.types[bt.ID] = &copy
	return nil
}

func (m *mockBehaviorTypeRepo) CountUsages(ctx context.Context, name string) (int, error) {
	return m.usages[name], nil
}

func (m *mockBehaviorTypeRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.types[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.types, id)
	return nil
}

func TestCreateBehaviorTypeSignRules(t *testing.T) {
	svc := NewBehaviorTypeService(&mockBehaviorTypeRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), BehaviorTypeRequest{
		Name: "迟到", Category: models.CategoryViolation, Score: 1,
	})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.Create(context.Background(), BehaviorTypeRequest{
		Name: "获奖", Category: models.CategoryExcellent, Score: -2,
	})
	appErr = appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.Create(context.Background(), BehaviorTypeRequest{
		Name: "迟到", Category: models.CategoryViolation, Score: 0,
	})
	appErr = appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	_, err = svc.Create(context.Background(), BehaviorTypeRequest{
		Name: "获奖", Category: models.CategoryExcellent, Score: 0,
	})
	appErr = appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)

	created, err := svc.Create(context.Background(), BehaviorTypeRequest{
		Name: "迟到", Category: models.CategoryViolation, Score: -1,
	})
	require.NoError(t, err)
	assert.Equal(t, -1, created.Score)
}

func TestCreateBehaviorTypeRejectsUnknownCategory(t *testing.T) {
	svc := NewBehaviorTypeService(&mockBehaviorTypeRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), BehaviorTypeRequest{Name: "迟到", Category: "中性", Score: 0})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCreateBehaviorTypeDuplicateName(t *testing.T) {
	repo := &mockBehaviorTypeRepo{}
	svc := NewBehaviorTypeService(repo, nil, nil)

	_, err := svc.Create(context.Background(), BehaviorTypeRequest{Name: "迟到", Category: models.CategoryViolation, Score: -1})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), BehaviorTypeRequest{Name: "迟到", Category: models.CategoryViolation, Score: -2})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestDeleteBehaviorTypeInUse(t *testing.T) {
	repo := &mockBehaviorTypeRepo{usages: map[string]int{"迟到": 3}}
	svc := NewBehaviorTypeService(repo, nil, nil)

	created, err := svc.Create(context.Background(), BehaviorTypeRequest{Name: "迟到", Category: models.CategoryViolation, Score: -1})
	require.NoError(t, err)

	err = svc.Delete(context.Background(), created.ID)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestDeleteBehaviorTypeUnused(t *testing.T) {
	repo := &mockBehaviorTypeRepo{}
	svc := NewBehaviorTypeService(repo, nil, nil)

	created, err := svc.Create(context.Background(), BehaviorTypeRequest{Name: "早退", Category: models.CategoryViolation, Score: -1})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.types)
}
