package invitation

import (
	"go-saas/internal/authz"
	"go-saas/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, roles *authz.RoleHierarchy, authMW gin.HandlerFunc) {
	invitations := r.Group("/invitations")
	{
		invitations.POST("/accept", middleware.RateLimitByIP(1, 5), handler.Accept)

		managed := invitations.Group("")
		managed.Use(authMW)
		{
			managed.GET("", middleware.RateLimitByUser(2, 10), handler.GetAll)
			managed.POST("",
				middleware.RateLimitByUser(0.5, 2),
				middleware.RequireRole(roles, authz.RoleCompanyAdmin),
				handler.Create,
			)
			managed.POST("/:id/resend",
				middleware.RateLimitByUser(0.5, 2),
				middleware.RequireRole(roles, authz.RoleCompanyAdmin),
				handler.Resend,
			)
			managed.DELETE("/:id",
				middleware.RateLimitByUser(0.5, 2),
				middleware.RequireRole(roles, authz.RoleCompanyAdmin),
				handler.Cancel,
			)
		}
	}
}
