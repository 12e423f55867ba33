package registry

import (
	"go-saas/internal/authz"
	"go-saas/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, roles *authz.RoleHierarchy, authMW gin.HandlerFunc) {
	company := r.Group("/companies")
	company.Use(authMW)
	{
		company.GET("/me",
			middleware.RateLimitByUser(2, 10),
			handler.GetMe,
		)

		company.PUT("/me",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RequireRole(roles, authz.RoleCompanyAdmin),
			handler.UpdateMe,
		)
	}
}
