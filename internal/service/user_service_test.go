package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-conduct-api/internal/models"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
)

type mockUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func (m *mockUserRepo) byUsername(username string) *models.User {
	for _, u := range m.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if u := m.byUsername(username); u != nil {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.users == nil {
		m.users = make(map[int64]*models.User)
	}
	m.nextID++
	user.ID = m.nextID
	copy := *user
	m.users[user.ID] = &copy
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if u, ok := m.users[id]; ok {
		u.Password = passwordHash
		return nil
	}
	return sql.ErrNoRows
}

func (m *mockUserRepo) UpdateStatus(ctx context.Context, id int64, status int) error {
	if u, ok := m.users[id]; ok {
		u.Status = status
		return nil
	}
	return sql.ErrNoRows
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.users[id]; ok {
		delete(m.users, id)
		return nil
	}
	return sql.ErrNoRows
}

func seededUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users: map[int64]*models.User{
			1: {ID: 1, Username: "admin", Password: "hash", Role: models.RoleAdmin, Status: 1},
			2: {ID: 2, Username: "teacher", Password: "hash", Role: models.RoleUser, Status: 1},
		},
		nextID: 2,
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := seededUserRepo()
	svc := NewUserService(repo, nil, nil)

	view, err := svc.Create(context.Background(), CreateUserRequest{Username: "newuser", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, view.Role)
	assert.Equal(t, "active", view.Status)

	stored := repo.byUsername("newuser")
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc := NewUserService(seededUserRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{Username: "admin", Password: "secret123"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCreateUserShortPassword(t *testing.T) {
	svc := NewUserService(seededUserRepo(), nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{Username: "newuser", Password: "abc"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCannotDisableAdmin(t *testing.T) {
	svc := NewUserService(seededUserRepo(), nil, nil)

	err := svc.UpdateStatus(context.Background(), 1, 0)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestDisableRegularUser(t *testing.T) {
	repo := seededUserRepo()
	svc := NewUserService(repo, nil, nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), 2, 0))
	assert.Equal(t, 0, repo.users[2].Status)
}

func TestCannotDeleteAdmin(t *testing.T) {
	svc := NewUserService(seededUserRepo(), nil, nil)

	err := svc.Delete(context.Background(), 1)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestDeleteUnknownUser(t *testing.T) {
	svc := NewUserService(seededUserRepo(), nil, nil)

	err := svc.Delete(context.Background(), 99)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestListUsersHidesPassword(t *testing.T) {
	svc := NewUserService(seededUserRepo(), nil, nil)

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, views, 2)
	for _, v := range views {
		assert.NotEmpty(t, v.Username)
		assert.Contains(t, []string{"active", "inactive"}, v.Status)
	}
}
