package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
	"github.com/noah-isme/school-conduct-api/pkg/response"
	"github.com/noah-isme/school-conduct-api/pkg/storage"
)

// UploadHandler stores evidence images and returns their public URLs.
type UploadHandler struct {
	storage *storage.UploadStorage
	maxSize int64
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(store *storage.UploadStorage, maxSize int64) *UploadHandler {
	return &UploadHandler{storage: store, maxSize: maxSize}
}

type uploadResult struct {
	URL          string `json:"url"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
}

// Upload godoc
// @Summary Upload an evidence image
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file (jpg, jpeg or png)"
// @Param type formData string false "Category: general, students or behaviors"
// @Success 200 {object} uploadResult
// @Failure 400 {object} response.ErrorBody
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请选择要上传的文件"))
		return
	}
	if !storage.IsAllowedImage(file.Filename) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "仅支持 jpg、jpeg、png 格式的图片"))
		return
	}
	if h.maxSize > 0 && file.Size > h.maxSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "文件大小超出限制"))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "无法读取上传文件"))
		return
	}
	defer src.Close()

	rawType := c.Query("type")
	if rawType == "" {
		rawType = c.PostForm("type")
	}
	category := storage.NormalizeCategory(rawType)
	url, err := h.storage.Save(category, file.Filename, src)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "文件保存失败"))
		return
	}
	response.JSON(c, http.StatusOK, uploadResult{
		URL:          url,
		OriginalName: file.Filename,
		Size:         file.Size,
	})
}
