package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/repairpos/backend/internal/infrastructure/logger"
	"github.com/repairpos/backend/internal/interfaces/http/dto"
	"github.com/repairpos/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RequestIDHeader is the header carrying the request ID
const RequestIDHeader = "X-Request-ID"

// DefaultTenantID is used when neither the token nor the X-Tenant-ID header names a tenant
var DefaultTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

const dateLayout = "2006-01-02"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}

// getUserID returns the authenticated user
func getUserID(c *gin.Context) (uuid.UUID, error) {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		return uuid.Nil, errors.New("user ID not found in context")
	}
	return uuid.Parse(raw)
}

// getTenantID resolves the tenant from the token, then the X-Tenant-ID header, then the default tenant
func getTenantID(c *gin.Context) (uuid.UUID, error) {
	raw := middleware.GetJWTTenantID(c)
	if raw == "" {
		raw = c.GetHeader("X-Tenant-ID")
	}
	if raw == "" {
		return DefaultTenantID, nil
	}
	return uuid.Parse(raw)
}

// tenant writes a 400 and returns false when the tenant cannot be resolved
func (h *BaseHandler) tenant(c *gin.Context) (uuid.UUID, bool) {
	id, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, false
	}
	return id, true
}

// actor returns the tenant and the authenticated user, answering 401 without a user
func (h *BaseHandler) actor(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, userID, true
}

// pathID parses a UUID path parameter
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, fmt.Sprintf("Invalid %s format", name))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the body, answering 400 with field details on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(err, getRequestID(c)))
		return false
	}
	return true
}

// bindQuery binds query parameters, answering 400 on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(err, getRequestID(c)))
		return false
	}
	return true
}

// listFilter reads paging, search and sorting plus the named filters.
// "true" and "false" become booleans so flag filters such as low_stock work.
func (h *BaseHandler) listFilter(c *gin.Context, filters ...string) (shared.Filter, bool) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return shared.Filter{}, false
	}
	f := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}
	for _, key := range filters {
		switch raw := c.Query(key); raw {
		case "":
		case "true", "false":
			f.Set(key, raw == "true")
		default:
			f.Set(key, raw)
		}
	}
	f.Normalize()
	return f, true
}

// queryUUID parses an optional UUID query parameter
func (h *BaseHandler) queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.BadRequest(c, fmt.Sprintf("Invalid %s format", name))
		return nil, false
	}
	return &id, true
}

// queryDate parses an optional YYYY-MM-DD query parameter
func (h *BaseHandler) queryDate(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		h.BadRequest(c, fmt.Sprintf("%s must be a date in YYYY-MM-DD format", name))
		return time.Time{}, false
	}
	return d, true
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Page sends one page of a list
func Page[T any](h *BaseHandler, c *gin.Context, page *shared.Paginated[T]) {
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// PDF sends an inline PDF document
func (h *BaseHandler) PDF(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts an error into the response envelope. Domain errors keep their
// code and message; anything else is logged and reported as a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}
	logger.GetGinLogger(c).Error("Unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	h.InternalError(c, "An unexpected error occurred")
}

// byID runs fn for the tenant and the :id path parameter and answers 200 with its result
func byID[T any](h *BaseHandler, c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) (T, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	out, err := fn(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// deleteByID runs fn for the tenant and the :id path parameter and answers 204
func deleteByID(h *BaseHandler, c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) error) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// createFrom binds the JSON body and answers 201 with the result of fn
func createFrom[R, T any](h *BaseHandler, c *gin.Context, fn func(ctx context.Context, tenantID uuid.UUID, req R) (T, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req R
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := fn(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, out)
}

// updateByID binds the JSON body for the :id path parameter and answers 200
func updateByID[R, T any](h *BaseHandler, c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID, req R) (T, error)) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req R
	if !h.bindJSON(c, &req) {
		return
	}
	out, err := fn(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// listWith answers a paginated list filtered by the named query parameters
func listWith[T any](h *BaseHandler, c *gin.Context, fn func(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[T], error), keys ...string) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, keys...)
	if !ok {
		return
	}
	page, err := fn(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(h, c, page)
}
