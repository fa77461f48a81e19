package leave

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"go-leaveflow/internal/middleware"
	"go-leaveflow/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		leaves.POST("",
			middleware.RateLimitByUser(rate.Every(time.Second), 5),
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.Idempotency(rdb),
			handler.Submit)
		leaves.POST("/:id/approve",
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			middleware.Idempotency(rdb),
			handler.Approve)
		leaves.POST("/:id/reject",
			middleware.RBACAuthorize(rbacService, "leave", "approve"),
			middleware.Idempotency(rdb),
			handler.Reject)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Cancel)
	}
}
