package delegation

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
	delegations := r.Group("/delegations")
	delegations.Use(middleware.AuthMiddleware())
	{
		delegations.GET("", middleware.RBACAuthorize(rbacService, "delegation", "read"), handler.GetAll)
		delegations.POST("", middleware.RBACAuthorize(rbacService, "delegation", "create"), handler.Create)
		delegations.DELETE("/:id", middleware.RBACAuthorize(rbacService, "delegation", "manage"), handler.Deactivate)
	}
}
