package employee

import (
	"staff-portal/internal/middleware"
	"staff-portal/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("/options", handler.GetOptions)
		employees.GET("", middleware.RBACAuthorize(rbacService, "employees", "manage"), handler.GetAll)
		employees.GET("/:id", middleware.RBACAuthorize(rbacService, "employees", "manage"), handler.GetById)
		employees.POST("", middleware.RBACAuthorize(rbacService, "employees", "manage"), handler.Create)
		employees.PUT("/:id", middleware.RBACAuthorize(rbacService, "employees", "manage"), handler.Update)
		employees.DELETE("/:id", middleware.RBACAuthorize(rbacService, "employees", "manage"), handler.Delete)
	}
}
