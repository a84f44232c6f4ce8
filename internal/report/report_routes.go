package report

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
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/requests/export", middleware.RBACAuthorize(rbacService, "reports", "export"), handler.Export)
	}
}
