package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-conduct-api/internal/models"
	"github.com/noah-isme/school-conduct-api/internal/service"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
	"github.com/noah-isme/school-conduct-api/pkg/response"
)

// AuthHandler handles login and token verification endpoints.
type AuthHandler struct {
	service *service.AuthService
	audit   *service.AuditService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *service.AuthService, audit *service.AuditService) *AuthHandler {
	return &AuthHandler{service: svc, audit: audit}
}

// Login godoc
// @Summary Log in
// @Description Authenticate with username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} response.ErrorBody
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "用户名和密码不能为空"))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.audit.Record(c.Request.Context(), models.OperationLog{
			Type:        "login",
			Module:      "auth",
			Description: "登录失败",
			Username:    req.Username,
			Status:      "failure",
		})
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "login",
		Module:      "auth",
		Description: "登录成功",
		Username:    req.Username,
	})
	response.JSON(c, http.StatusOK, resp)
}

// Verify godoc
// @Summary Verify token
// @Description Check whether the presented token is still valid
// @Tags Auth
// @Produce json
// @Success 200 {object} models.VerifyTokenResponse
// @Router /auth/verify-token [get]
func (h *AuthHandler) Verify(c *gin.Context) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		response.JSON(c, http.StatusOK, &models.VerifyTokenResponse{Valid: false})
		return
	}
	response.JSON(c, http.StatusOK, h.service.VerifyToken(parts[1]))
}
