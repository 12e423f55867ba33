package file

import (
	"go-saas/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMW gin.HandlerFunc) {
	files := r.Group("/files")
	files.Use(authMW)
	{
		files.GET("", middleware.RateLimitByUser(2, 10), handler.GetAll)
		files.POST("", middleware.RateLimitByUser(1, 5), handler.RegisterUpload)
		files.POST("/:id/confirm", middleware.RateLimitByUser(1, 5), handler.ConfirmUpload)
		files.DELETE("/:id", middleware.RateLimitByUser(1, 5), handler.Delete)
	}
}
