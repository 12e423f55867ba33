package user

import (
	"go-saas/internal/authz"
	"go-saas/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, roles *authz.RoleHierarchy, authMW gin.HandlerFunc) {
	users := r.Group("/users")
	users.Use(authMW)
	{
		users.GET("", middleware.RateLimitByUser(2, 10), handler.GetAll)
		users.GET("/:id", middleware.RateLimitByUser(2, 10), handler.GetByID)
		users.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequireRole(roles, authz.RoleCompanyAdmin),
			handler.Create,
		)
		users.PATCH("/:id/status",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequireRole(roles, authz.RoleCompanyAdmin),
			handler.ToggleStatus,
		)
		users.POST("/change-password", middleware.RateLimitByUser(0.2, 1), handler.ChangePassword)

		users.PATCH("/by-email",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RequireRole(roles, authz.RoleSuperAdmin),
			handler.UpdateByEmail,
		)
	}
}
