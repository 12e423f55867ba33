package aggregator

import (
	"go-saas/internal/authz"
	"go-saas/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, roles *authz.RoleHierarchy, authMW gin.HandlerFunc) {
	usage := r.Group("/usage")
	usage.Use(authMW)
	{
		usage.GET("", middleware.RateLimitByUser(2, 10), handler.GetUsage)
		usage.POST("/refresh",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RequireRole(roles, authz.RoleSuperAdmin),
			handler.TriggerRefresh,
		)
	}
}
