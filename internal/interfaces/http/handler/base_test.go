package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/repairpos/backend/internal/interfaces/http/dto"
	"github.com/repairpos/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setJWTContext simulates an authenticated request
func setJWTContext(c *gin.Context, tenantID, userID uuid.UUID) {
	c.Set("jwt_tenant_id", tenantID.String())
	c.Set("jwt_user_id", userID.String())
}

func newContext(method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*gin.Context)
		want  string
	}{
		{"from context", func(c *gin.Context) { c.Set(middleware.RequestIDKey, "ctx-id") }, "ctx-id"},
		{"from header", func(c *gin.Context) { c.Request.Header.Set(RequestIDHeader, "hdr-id") }, "hdr-id"},
		{"context wins", func(c *gin.Context) {
			c.Set(middleware.RequestIDKey, "ctx-id")
			c.Request.Header.Set(RequestIDHeader, "hdr-id")
		}, "ctx-id"},
		{"empty", func(c *gin.Context) {}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodGet, "/", "")
			tt.setup(c)
			assert.Equal(t, tt.want, getRequestID(c))
		})
	}
}

func TestGetTenantID(t *testing.T) {
	jwtTenant := uuid.New()
	headerTenant := uuid.New()

	c, _ := newContext(http.MethodGet, "/", "")
	got, err := getTenantID(c)
	require.NoError(t, err)
	assert.Equal(t, DefaultTenantID, got)

	c, _ = newContext(http.MethodGet, "/", "")
	c.Request.Header.Set("X-Tenant-ID", headerTenant.String())
	got, err = getTenantID(c)
	require.NoError(t, err)
	assert.Equal(t, headerTenant, got)

	c, _ = newContext(http.MethodGet, "/", "")
	c.Request.Header.Set("X-Tenant-ID", headerTenant.String())
	setJWTContext(c, jwtTenant, uuid.New())
	got, err = getTenantID(c)
	require.NoError(t, err)
	assert.Equal(t, jwtTenant, got)

	c, _ = newContext(http.MethodGet, "/", "")
	c.Request.Header.Set("X-Tenant-ID", "not-a-uuid")
	_, err = getTenantID(c)
	assert.Error(t, err)
}

func TestActor_RequiresUser(t *testing.T) {
	h := &BaseHandler{}

	c, w := newContext(http.MethodPost, "/", "")
	_, _, ok := h.actor(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tenantID, userID := uuid.New(), uuid.New()
	c, _ = newContext(http.MethodPost, "/", "")
	setJWTContext(c, tenantID, userID)
	gotTenant, gotUser, ok := h.actor(c)
	require.True(t, ok)
	assert.Equal(t, tenantID, gotTenant)
	assert.Equal(t, userID, gotUser)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped", fmt.Errorf("load: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"insufficient stock", shared.NewDomainError("INSUFFICIENT_STOCK", "only 2 left"), http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"provider", shared.NewDomainError("PROVIDER_ERROR", "upstream 500"), http.StatusBadGateway, dto.ErrCodeProviderError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodGet, "/", "")
			c.Set(middleware.RequestIDKey, "req-1")
			(&BaseHandler{}).HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestHandleError_HidesUnknownMessages(t *testing.T) {
	c, w := newContext(http.MethodGet, "/", "")
	(&BaseHandler{}).HandleError(c, errors.New("pq: password authentication failed"))
	assert.NotContains(t, w.Body.String(), "password")
}

func TestListFilter(t *testing.T) {
	h := &BaseHandler{}
	branch := uuid.New()
	c, _ := newContext(http.MethodGet,
		"/?page=2&page_size=5&search=a54&order_dir=ASC&branch_id="+branch.String()+"&low_stock=true&status=", "")

	f, ok := h.listFilter(c, "branch_id", "low_stock", "status")
	require.True(t, ok)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 5, f.PageSize)
	assert.Equal(t, "a54", f.Search)
	assert.Equal(t, branch.String(), f.Filters["branch_id"])
	assert.Equal(t, true, f.Filters["low_stock"])
	assert.NotContains(t, f.Filters, "status")
}

func TestListFilter_Defaults(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/", "")
	f, ok := (&BaseHandler{}).listFilter(c)
	require.True(t, ok)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, shared.DefaultPageSize, f.PageSize)
	assert.Equal(t, "desc", f.OrderDir)
}

func TestListFilter_RejectsOversizedPage(t *testing.T) {
	c, w := newContext(http.MethodGet, "/?page_size=1000", "")
	_, ok := (&BaseHandler{}).listFilter(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestQueryUUIDAndDate(t *testing.T) {
	h := &BaseHandler{}
	id := uuid.New()

	c, _ := newContext(http.MethodGet, "/?branch_id="+id.String()+"&from=2026-03-01", "")
	got, ok := h.queryUUID(c, "branch_id")
	require.True(t, ok)
	assert.Equal(t, id, *got)
	day, ok := h.queryDate(c, "from")
	require.True(t, ok)
	assert.Equal(t, 2026, day.Year())

	c, _ = newContext(http.MethodGet, "/", "")
	got, ok = h.queryUUID(c, "branch_id")
	require.True(t, ok)
	assert.Nil(t, got)

	c, w := newContext(http.MethodGet, "/?from=03/01/2026", "")
	_, ok = h.queryDate(c, "from")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type widget struct {
	Name string `json:"name" binding:"required"`
}

func TestGenericHelpers(t *testing.T) {
	h := &BaseHandler{}
	tenantID := uuid.New()
	id := uuid.New()

	t.Run("byID passes tenant and id", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/", "")
		c.Request.Header.Set("X-Tenant-ID", tenantID.String())
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		byID(h, c, func(_ context.Context, gotTenant, gotID uuid.UUID) (*widget, error) {
			assert.Equal(t, tenantID, gotTenant)
			assert.Equal(t, id, gotID)
			return &widget{Name: "ok"}, nil
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"ok"`)
	})

	t.Run("byID rejects a malformed id", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/", "")
		c.Params = gin.Params{{Key: "id", Value: "42"}}
		called := false
		byID(h, c, func(context.Context, uuid.UUID, uuid.UUID) (*widget, error) {
			called = true
			return nil, nil
		})
		assert.False(t, called)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("createFrom validates the body", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/", `{}`)
		createFrom(h, c, func(_ context.Context, _ uuid.UUID, req widget) (*widget, error) {
			return &req, nil
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Error)
		assert.NotEmpty(t, resp.Error.Details)
	})

	t.Run("createFrom answers 201", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/", `{"name":"case"}`)
		createFrom(h, c, func(_ context.Context, _ uuid.UUID, req widget) (*widget, error) {
			return &req, nil
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("updateByID maps domain errors", func(t *testing.T) {
		c, w := newContext(http.MethodPut, "/", `{"name":"x"}`)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		updateByID(h, c, func(context.Context, uuid.UUID, uuid.UUID, widget) (*widget, error) {
			return nil, shared.ErrConcurrencyConflict
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("deleteByID answers 204", func(t *testing.T) {
		c, w := newContext(http.MethodDelete, "/", "")
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		deleteByID(h, c, func(context.Context, uuid.UUID, uuid.UUID) error { return nil })
		c.Writer.WriteHeaderNow()
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("listWith writes paging meta", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/?page=2&page_size=2&status=open", "")
		listWith(h, c, func(_ context.Context, _ uuid.UUID, f shared.Filter) (*shared.Paginated[widget], error) {
			assert.Equal(t, "open", f.Filters["status"])
			page := shared.NewPaginated([]widget{{Name: "c"}}, 3, f.Page, f.PageSize)
			return &page, nil
		}, "status")
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(3), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 2, resp.Meta.TotalPages)
	})
}

func TestPDF(t *testing.T) {
	c, w := newContext(http.MethodGet, "/", "")
	(&BaseHandler{}).PDF(c, "OS-1.pdf", []byte("%PDF-1.7"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="OS-1.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.7", w.Body.String())
}
