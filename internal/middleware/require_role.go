package middleware

import (
	"go-saas/internal/authz"
	"go-saas/internal/shared/apperror"
	"go-saas/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RequireRole rejects requests whose token role does not inherit the needed
// role in the fixed hierarchy.
func RequireRole(roles *authz.RoleHierarchy, needed string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" || !roles.Allows(role, needed) {
			e := apperror.ErrForbidden
			response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
