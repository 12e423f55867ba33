package auth

import (
	"go-saas/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(rg *gin.RouterGroup, handler *Handler, authMW gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(rate.Limit(1), 10), handler.RefreshToken)
		auth.POST("/logout", handler.Logout)
		auth.GET("/me", authMW, handler.Me)
	}
}
