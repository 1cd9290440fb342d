package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Status  int      `json:"status"`
	Details []string `json:"details,omitempty"`
	Err     error    `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "用户名或密码错误")
	ErrInactiveAccount    = New("ACCOUNT_INACTIVE", http.StatusForbidden, "账号已禁用")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "资源不存在")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "无权访问")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "未提供认证token")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "资源冲突")
	ErrBusy               = New("DATABASE_BUSY", http.StatusConflict, "数据库忙，请稍后重试")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "参数校验失败")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "服务器内部错误")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of the error carrying per-item messages,
// used for batch validation failures (e.g. spreadsheet import).
func WithDetails(err *Error, details []string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Details = details
	return &clone
}
