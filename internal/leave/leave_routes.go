package leave

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	// Per-employee limit on the mutating endpoints only; reads stay cheap.
	mutating := middleware.RateLimitByEmployee(rate.Limit(2), 5)

	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/review", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Review)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			mutating,
			middleware.Idempotency(rdb),
			handler.Apply,
		)
		leaves.PUT("/:id/decision",
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			mutating,
			handler.Decide,
		)
		leaves.POST("/:id/cancel",
			middleware.RBACAuthorize(rbacService, "leave", "cancel"),
			mutating,
			handler.Cancel,
		)
	}
}
