package request

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	requesterrors "staff-portal/internal/request/errors"
	"staff-portal/internal/shared/apperror"
	"staff-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyCacheTTL = 24 * time.Hour

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("request.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("request.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

// releaseIdempotencyLock frees the in-flight lock the idempotency
// middleware took, so a retry after completion hits the cached response
// instead of a conflict.
func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		_ = h.rdb.Del(c.Request.Context(), lk).Err()
	}
}

func (h *Handler) cacheIdempotentResponse(c *gin.Context, resp RequestResponse) {
	if h.rdb == nil {
		return
	}
	ck := c.GetString("idempotency_cache_key")
	if ck == "" {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	_ = h.rdb.Set(c.Request.Context(), ck, payload, idempotencyCacheTTL).Err()
}

// actorFrom reads the identity the auth middleware stored on the gin context.
func actorFrom(c *gin.Context) Actor {
	return Actor{
		UserID:     c.GetString("user_id"),
		EmployeeID: c.GetString("employee_id"),
		Name:       c.GetString("employee_name"),
		Department: c.GetString("department"),
		Position:   c.GetString("position"),
		Role:       c.GetString("role"),
	}
}

func requestTypeParam(c *gin.Context) (string, error) {
	switch strings.ToLower(c.Param("type")) {
	case "leave":
		return TypeLeave, nil
	case "overtime":
		return TypeOvertime, nil
	default:
		return "", requesterrors.ErrInvalidRequestType
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("request operation failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) SubmitLeave(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	actor := actorFrom(c)
	h.logger.Debug("http submit leave", zap.String("employee_id", actor.EmployeeID))

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http submit leave validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.SubmitLeave(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) SubmitOvertime(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	actor := actorFrom(c)
	h.logger.Debug("http submit overtime", zap.String("employee_id", actor.EmployeeID))

	var req SubmitOvertimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http submit overtime validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.SubmitOvertime(c.Request.Context(), actor, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	resp, err := h.service.ListMine(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListPending(c *gin.Context) {
	resp, err := h.service.ListPending(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// listFilter narrows the merged result set before pagination. All fields
// are optional; empty values match everything.
type listFilter struct {
	Search     string `form:"search"`
	Department string `form:"department"`
	Type       string `form:"type"`
	Status     string `form:"status"`
	From       string `form:"from"`
	To         string `form:"to"`
}

func (f listFilter) matches(r RequestResponse) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.EmployeeName), needle) &&
			!strings.Contains(strings.ToLower(r.EmployeeID), needle) {
			return false
		}
	}
	if f.Department != "" && !strings.EqualFold(r.Department, f.Department) {
		return false
	}
	if f.Type != "" && !strings.EqualFold(r.Type, f.Type) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(r.Status, f.Status) {
		return false
	}
	if f.From != "" || f.To != "" {
		day := r.StartDate
		if len(day) > len(dateLayout) {
			day = day[:len(dateLayout)]
		}
		if f.From != "" && day < f.From {
			return false
		}
		if f.To != "" && day > f.To {
			return false
		}
	}
	return true
}

func applyFilter(rows []RequestResponse, f listFilter) []RequestResponse {
	filtered := make([]RequestResponse, 0, len(rows))
	for _, r := range rows {
		if f.matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func (h *Handler) ListAll(c *gin.Context) {
	resp, err := h.service.ListAll(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var filter listFilter
	if err := c.ShouldBindQuery(&filter); err == nil {
		resp = applyFilter(resp, filter)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	total := int64(len(resp))
	start := (page - 1) * limit
	if start > len(resp) {
		start = len(resp)
	}
	end := start + limit
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, limit)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) ListCancellations(c *gin.Context) {
	resp, err := h.service.ListCancellationRequests(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	requestType, err := requestTypeParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http decide validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), actorFrom(c), requestType, c.Param("id"), req.Outcome)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RequestCancellation(c *gin.Context) {
	requestType, err := requestTypeParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http cancellation validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.RequestCancellation(c.Request.Context(), actorFrom(c), requestType, c.Param("id"), req.Reason)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DecideCancellation(c *gin.Context) {
	requestType, err := requestTypeParam(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req DecideCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http decide cancellation validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.DecideCancellation(c.Request.Context(), actorFrom(c), requestType, c.Param("id"), *req.Approve)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
