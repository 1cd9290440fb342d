package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-conduct-api/pkg/storage"
)

func multipartUpload(t *testing.T, filename, fileType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if fileType != "" {
		require.NoError(t, writer.WriteField("type", fileType))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func newUploadFixture(t *testing.T, maxSize int64) (*UploadHandler, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewUploadStorage(dir)
	require.NoError(t, err)
	return NewUploadHandler(store, maxSize), dir
}

func TestUploadSavesImageUnderCategory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, dir := newUploadFixture(t, 1024)

	body, contentType := multipartUpload(t, "evidence.png", "behaviors", []byte("png-bytes"))
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/upload", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Upload(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/behaviors/"))

	saved, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(resp.URL, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), saved)
}

func TestUploadRejectsUnsupportedExtension(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newUploadFixture(t, 1024)

	body, contentType := multipartUpload(t, "evil.exe", "", []byte("nope"))
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/upload", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newUploadFixture(t, 4)

	body, contentType := multipartUpload(t, "big.jpg", "", []byte("way-too-large"))
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/upload", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadUnknownTypeFallsBackToGeneral(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newUploadFixture(t, 1024)

	body, contentType := multipartUpload(t, "photo.jpeg", "mystery", []byte("jpeg"))
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/upload", body)
	c.Request.Header.Set("Content-Type", contentType)

	handler.Upload(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/general/"))
}
