package rbac

import (
	"github.com/gin-gonic/gin"

	"go-leaveflow/internal/middleware"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/roles", middleware.RBACAuthorize(service, "role", "read"), handler.ListRoles)
		group.GET("/permissions", middleware.RBACAuthorize(service, "role", "read"), handler.ListPermissions)
	}
}
