package request

import (
	"staff-portal/internal/middleware"
	"staff-portal/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	requests := r.Group("/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.POST("/leave", middleware.RBACAuthorize(rbacService, "requests", "create"), middleware.Idempotency(rdb), handler.SubmitLeave)
		requests.POST("/overtime", middleware.RBACAuthorize(rbacService, "requests", "create"), middleware.Idempotency(rdb), handler.SubmitOvertime)
		requests.GET("/mine", middleware.RBACAuthorize(rbacService, "requests", "read"), handler.ListMine)
		requests.GET("/pending", middleware.RBACAuthorize(rbacService, "approvals", "read"), handler.ListPending)
		requests.GET("", middleware.RBACAuthorize(rbacService, "requests", "read_all"), handler.ListAll)
		requests.GET("/cancellations", middleware.RBACAuthorize(rbacService, "cancellations", "read"), handler.ListCancellations)
		requests.POST("/:type/:id/decision", middleware.RBACAuthorize(rbacService, "approvals", "decide"), handler.Decide)
		requests.POST("/:type/:id/cancellation", middleware.RBACAuthorize(rbacService, "requests", "cancel"), handler.RequestCancellation)
		requests.POST("/:type/:id/cancellation/decision", middleware.RBACAuthorize(rbacService, "cancellations", "decide"), handler.DecideCancellation)
	}
}
