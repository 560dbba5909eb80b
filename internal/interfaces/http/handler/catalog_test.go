package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/repairpos/backend/internal/application/catalog"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type importProducts struct {
	catalog.ProductRepository
	created []*catalog.Product
}

func (r *importProducts) Create(_ context.Context, p *catalog.Product) error {
	r.created = append(r.created, p)
	return nil
}

func (r *importProducts) FindBySKU(context.Context, uuid.UUID, string) (*catalog.Product, error) {
	return nil, shared.ErrNotFound
}

func importRequest(t *testing.T, target, content string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "produtos.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, target, &body)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())
	return c, w
}

func TestProductHandler_Import(t *testing.T) {
	repo := &importProducts{}
	h := NewProductHandler(nil, catalogapp.NewProductImportService(repo, nil, zap.NewNop()))
	tenantID, userID := uuid.New(), uuid.New()

	t.Run("imports valid rows and reports the rest", func(t *testing.T) {
		c, w := importRequest(t, "/products/import", "sku;name;sale_price\nCAP-1;Capa;39,90\n;Sem sku;1\n")
		setJWTContext(c, tenantID, userID)

		h.Import(c)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.EqualValues(t, 2, data["total"])
		assert.EqualValues(t, 1, data["created"])
		assert.EqualValues(t, 1, data["failed"])
		require.Len(t, repo.created, 1)
		assert.Equal(t, "CAP-1", repo.created[0].SKU)
	})

	t.Run("missing required column", func(t *testing.T) {
		c, w := importRequest(t, "/products/import", "sku,price\nA,1\n")
		setJWTContext(c, tenantID, userID)

		h.Import(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_MISSING_COLUMNS", decode(t, w).Error.Code)
	})

	t.Run("bad dry_run flag", func(t *testing.T) {
		c, w := importRequest(t, "/products/import?dry_run=talvez", "sku,name\nA,a\n")
		setJWTContext(c, tenantID, userID)

		h.Import(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no file", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/products/import", strings.NewReader(""))
		setJWTContext(c, tenantID, userID)

		h.Import(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
