package allowance

import (
	"github.com/gin-gonic/gin"

	"go-leaveflow/internal/middleware"
	"go-leaveflow/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	allowances := r.Group("/allowance")
	allowances.Use(middleware.AuthMiddleware())
	{
		allowances.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "allowance", "read"), handler.GetBreakdown)
		allowances.POST("/adjustments", middleware.RBACAuthorize(rbacService, "allowance", "manage"), handler.CreateAdjustment)
	}
}
