package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadCategory names a subdirectory under the upload root.
type UploadCategory string

const (
	CategoryGeneral   UploadCategory = "general"
	CategoryStudents  UploadCategory = "students"
	CategoryBehaviors UploadCategory = "behaviors"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// NormalizeCategory maps an arbitrary type parameter to a known category,
// defaulting to general.
func NormalizeCategory(raw string) UploadCategory {
	switch UploadCategory(raw) {
	case CategoryStudents:
		return CategoryStudents
	case CategoryBehaviors:
		return CategoryBehaviors
	default:
		return CategoryGeneral
	}
}

// IsAllowedImage reports whether the filename carries an allow-listed
// image extension.
func IsAllowedImage(filename string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// UploadStorage persists uploaded evidence files under a base directory,
// one subdirectory per category.
type UploadStorage struct {
	baseDir string
}

// NewUploadStorage ensures the base directory and category subdirectories
// exist and returns a handle.
func NewUploadStorage(baseDir string) (*UploadStorage, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	for _, cat := range []UploadCategory{CategoryGeneral, CategoryStudents, CategoryBehaviors} {
		if err := os.MkdirAll(filepath.Join(baseDir, string(cat)), 0o755); err != nil {
			return nil, fmt.Errorf("create upload directory: %w", err)
		}
	}
	return &UploadStorage{baseDir: baseDir}, nil
}

// BaseDir exposes the upload root for static serving.
func (s *UploadStorage) BaseDir() string {
	return s.baseDir
}

// Save streams the file into the category directory under a
// collision-free generated name and returns the public URL path.
func (s *UploadStorage) Save(category UploadCategory, originalName string, r io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s%s",
		time.Now().UnixMilli(),
		uuid.NewString()[:8],
		strings.ToLower(filepath.Ext(originalName)),
	)
	path := filepath.Join(s.baseDir, string(category), name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	if _, err := io.Copy(file, r); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return fmt.Sprintf("/uploads/%s/%s", category, name), nil
}

// Delete removes a stored file if present.
func (s *UploadStorage) Delete(urlPath string) error {
	rel := strings.TrimPrefix(urlPath, "/uploads/")
	if rel == urlPath || strings.Contains(rel, "..") {
		return fmt.Errorf("invalid upload path %q", urlPath)
	}
	if err := os.Remove(filepath.Join(s.baseDir, rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}
