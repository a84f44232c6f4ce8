package report

import (
	"fmt"
	"net/http"

	"staff-portal/internal/request"
	"staff-portal/internal/shared/apperror"
	"staff-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Export(c *gin.Context) {
	var params ExportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Warn("http export validation failed", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	actor := request.Actor{
		UserID:     c.GetString("user_id"),
		EmployeeID: c.GetString("employee_id"),
		Name:       c.GetString("employee_name"),
		Department: c.GetString("department"),
		Role:       c.GetString("role"),
	}

	data, filename, err := h.service.Export(c.Request.Context(), actor, params)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("export failed",
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
