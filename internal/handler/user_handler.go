package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-conduct-api/internal/models"
	"github.com/noah-isme/school-conduct-api/internal/service"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
	"github.com/noah-isme/school-conduct-api/pkg/response"
)

// UserHandler handles account management endpoints. All routes are
// admin-gated.
type UserHandler struct {
	service *service.UserService
	audit   *service.AuditService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc *service.UserService, audit *service.AuditService) *UserHandler {
	return &UserHandler{service: svc, audit: audit}
}

// List godoc
// @Summary List accounts
// @Tags Users
// @Produce json
// @Success 200 {array} models.UserView
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users)
}

// Create godoc
// @Summary Create account
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body service.CreateUserRequest true "Account payload"
// @Success 201 {object} models.UserView
// @Failure 409 {object} response.ErrorBody
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}

	view, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "create",
		Module:      "users",
		Description: fmt.Sprintf("创建用户 %s", view.Username),
		Username:    usernameFromContext(c),
	})
	response.Created(c, view)
}

type updatePasswordRequest struct {
	Password string `json:"password"`
}

// UpdatePassword resets an account password.
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的用户ID"))
		return
	}
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	if err := h.service.UpdatePassword(c.Request.Context(), id, req.Password); err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "update",
		Module:      "users",
		Description: fmt.Sprintf("重置用户 %d 的密码", id),
		Username:    usernameFromContext(c),
	})
	response.Message(c, http.StatusOK, "密码修改成功")
}

type updateStatusRequest struct {
	Status *int `json:"status"`
}

// UpdateStatus enables or disables an account.
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的用户ID"))
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "status 为必填项"))
		return
	}
	if err := h.service.UpdateStatus(c.Request.Context(), id, *req.Status); err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "update",
		Module:      "users",
		Description: fmt.Sprintf("修改用户 %d 状态为 %d", id, *req.Status),
		Username:    usernameFromContext(c),
	})
	response.Message(c, http.StatusOK, "用户状态修改成功")
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword lets the authenticated user rotate their own password.
// Unlike the other account routes this one is not admin-gated.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "请求体格式错误"))
		return
	}
	username := usernameFromContext(c)
	if err := h.service.ChangePassword(c.Request.Context(), username, req.OldPassword, req.NewPassword); err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "update",
		Module:      "users",
		Description: "修改本人密码",
		Username:    username,
	})
	response.Message(c, http.StatusOK, "密码修改成功")
}

// Delete removes an account.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "无效的用户ID"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), models.OperationLog{
		Type:        "delete",
		Module:      "users",
		Description: fmt.Sprintf("删除用户 %d", id),
		Username:    usernameFromContext(c),
	})
	response.Message(c, http.StatusOK, "用户删除成功")
}
