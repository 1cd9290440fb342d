package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-conduct-api/internal/models"
	appErrors "github.com/noah-isme/school-conduct-api/pkg/errors"
	"github.com/noah-isme/school-conduct-api/pkg/response"
)

// AdminOnly restricts a route group to administrator accounts. It must run
// after JWT.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := value.(*models.JWTClaims)
		if !ok || claims.Role != models.RoleAdmin {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "需要管理员权限"))
			c.Abort()
			return
		}
		c.Next()
	}
}
