package middleware

import (
	"net/http"

	autherrors "staff-portal/internal/auth/errors"
	"staff-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// Enforcer is satisfied by rbac.Service; kept local so this package does
// not depend on the rbac package directly.
type Enforcer interface {
	Enforce(role, resource, action string) (bool, error)
}

func RBACAuthorize(service Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, autherrors.ErrForbidden.HTTPStatus, autherrors.ErrForbidden.Code, autherrors.ErrForbidden.Message, nil)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Authorization check failed", nil)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, autherrors.ErrForbidden.HTTPStatus, autherrors.ErrForbidden.Code, autherrors.ErrForbidden.Message, resource+":"+action)
			c.Abort()
			return
		}
		c.Next()
	}
}
