package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-conduct-api/internal/models"
	"github.com/noah-isme/school-conduct-api/internal/service"
)

type fakeAuthRepo struct {
	users map[string]*models.User
}

func (f *fakeAuthRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeAuthRepo) UpdateLastLogin(context.Context, int64) error {
	return nil
}

type fakeAuditRepo struct {
	entries []models.OperationLog
}

func (f *fakeAuditRepo) Create(_ context.Context, entry *models.OperationLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(context.Context, models.OperationLogFilter) ([]models.OperationLog, int, error) {
	return nil, 0, nil
}

func (f *fakeAuditRepo) BatchDelete(context.Context, []int64) (int64, error) {
	return 0, nil
}

func newAuthFixture(t *testing.T) (*AuthHandler, *fakeAuditRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeAuthRepo{users: map[string]*models.User{
		"admin": {ID: 1, Username: "admin", Password: string(hash), Role: models.RoleAdmin, Status: 1},
	}}
	authSvc := service.NewAuthService(repo, nil, nil, service.AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
	})
	audit := &fakeAuditRepo{}
	return NewAuthHandler(authSvc, service.NewAuditService(audit, nil)), audit
}

func postLogin(handler *AuthHandler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Login(c)
	return rec
}

func TestLoginSuccessIssuesTokenAndAudits(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, audit := newAuthFixture(t)

	rec := postLogin(handler, `{"username":"admin","password":"secret123"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin", resp.UserInfo.Username)

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "login", audit.entries[0].Type)
	assert.Equal(t, "success", audit.entries[0].Status)
}

func TestLoginWrongPasswordAuditsFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, audit := newAuthFixture(t)

	rec := postLogin(handler, `{"username":"admin","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "failure", audit.entries[0].Status)
}

func TestLoginRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, audit := newAuthFixture(t)

	rec := postLogin(handler, `{"username":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, audit.entries)
}

func TestVerifyMalformedHeaderReportsInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newAuthFixture(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	c.Request.Header.Set("Authorization", "Token abc")

	handler.Verify(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp models.VerifyTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
}

func TestVerifyRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newAuthFixture(t)

	login := postLogin(handler, `{"username":"admin","password":"secret123"}`)
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
	c.Request.Header.Set("Authorization", "Bearer "+resp.Token)

	handler.Verify(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var verify models.VerifyTokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &verify))
	assert.True(t, verify.Valid)
	assert.Equal(t, "admin", verify.UserInfo.Username)
}
