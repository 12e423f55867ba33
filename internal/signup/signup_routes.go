package signup

import (
	"go-saas/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	// Idempotency protects against double-submits cloning two schemas
	// for the same click.
	r.POST("/signup",
		middleware.RateLimitByIP(0.1, 2),
		middleware.Idempotency(rdb),
		handler.Signup,
	)
}
