package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the token payload: username plus role, nothing else.
type JWTClaims struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest carries the login credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInfo is the client-facing identity block.
type UserInfo struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// LoginResponse is the successful login payload.
type LoginResponse struct {
	Token    string   `json:"token"`
	UserInfo UserInfo `json:"userInfo"`
}

// VerifyTokenResponse reports token validity to the dashboard.
type VerifyTokenResponse struct {
	Valid    bool      `json:"valid"`
	UserInfo *UserInfo `json:"userInfo,omitempty"`
}
