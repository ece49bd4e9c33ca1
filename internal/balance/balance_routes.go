package balance

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	// Registered before the leave wildcard routes so /leaves/balance wins
	// over /leaves/:id.
	balances := r.Group("/leaves")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/balance", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.Get)
	}
}
