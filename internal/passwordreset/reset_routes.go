package passwordreset

import (
	"go-saas/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	reset := r.Group("/password-reset")
	{
		reset.POST("/request", middleware.RateLimitByIP(0.2, 3), handler.Request)
		reset.POST("/confirm", middleware.RateLimitByIP(0.5, 5), handler.Confirm)
	}
}
