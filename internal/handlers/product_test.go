package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sparshnfc/storefront/internal/docstore"
	"github.com/sparshnfc/storefront/internal/events"
	"github.com/sparshnfc/storefront/internal/upload"
)

func newProductEnv(t *testing.T) (*echo.Echo, *docstore.Memory, *ProductHandler) {
	t.Helper()
	mem, recs := newRecordsService()
	uploads, err := upload.New("")
	require.NoError(t, err)
	return echo.New(), mem, &ProductHandler{
		Records:  recs,
		Uploads:  uploads,
		Producer: events.NewProducer(nil),
	}
}

func TestGetProductsNewestFirst(t *testing.T) {
	e, mem, h := newProductEnv(t)

	for _, doc := range []docstore.Document{
		{"name": "old", "createdAt": "2025-01-01T00:00:00Z"},
		{"name": "new", "createdAt": "2025-03-01T00:00:00Z"},
	} {
		_, err := mem.Create(context.Background(), "products", doc)
		require.NoError(t, err)
	}

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/v1/products", nil)
	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])

	products := body["products"].([]any)
	require.Len(t, products, 2)
	require.Equal(t, "new", products[0].(map[string]any)["name"])

	meta := body["meta"].(map[string]any)
	require.Equal(t, float64(2), meta["total"])
	require.Equal(t, false, meta["has_next"])
}

func TestGetProductsPagination(t *testing.T) {
	e, mem, h := newProductEnv(t)

	for i := 0; i < 15; i++ {
		_, err := mem.Create(context.Background(), "products", docstore.Document{
			"name": "card", "createdAt": "2025-01-01T00:00:00Z",
		})
		require.NoError(t, err)
	}

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/v1/products?page=2&size=10", nil)
	require.NoError(t, h.GetProducts(c))

	body := decodeBody(t, rec)
	require.Len(t, body["products"], 5)

	meta := body["meta"].(map[string]any)
	require.Equal(t, float64(2), meta["page"])
	require.Equal(t, float64(2), meta["total_pages"])
	require.Equal(t, true, meta["has_prev"])
	require.Equal(t, false, meta["has_next"])
}

func TestGetProduct(t *testing.T) {
	e, mem, h := newProductEnv(t)

	id, err := mem.Create(context.Background(), "products", docstore.Document{
		"name": "card", "createdAt": "2025-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/v1/products/"+id, nil)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	product := decodeBody(t, rec)["product"].(map[string]any)
	require.Equal(t, id, product["id"])
	require.Equal(t, "card", product["name"])
}

func TestGetProductNotFound(t *testing.T) {
	e, _, h := newProductEnv(t)

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/v1/products/missing", nil)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "product not found", decodeBody(t, rec)["error"])
}

func TestCreateProduct(t *testing.T) {
	e, mem, h := newProductEnv(t)

	form := url.Values{}
	form.Set("name", "Metal Card")
	form.Set("price", "999")
	form.Set("type", "metal")
	form.Set("finish", "matte")

	rec, c := doFormRequest(t, e, http.MethodPost, "/api/v1/admin/products", form)
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	id := body["id"].(string)

	snap, err := mem.Get(context.Background(), "products", id)
	require.NoError(t, err)
	require.Equal(t, "Metal Card", snap.Data["name"])
	require.Equal(t, 999.0, snap.Data["price"])
	require.Equal(t, true, snap.Data["active"])
	require.NotEmpty(t, snap.Data["createdAt"])
}

func TestCreateProductValidation(t *testing.T) {
	e, _, h := newProductEnv(t)

	form := url.Values{}
	form.Set("price", "999")
	_, c := doFormRequest(t, e, http.MethodPost, "/api/v1/admin/products", form)
	err := h.CreateProduct(c)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)

	form = url.Values{}
	form.Set("name", "Metal Card")
	form.Set("price", "not a number")
	_, c = doFormRequest(t, e, http.MethodPost, "/api/v1/admin/products", form)
	err = h.CreateProduct(c)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestPatchProduct(t *testing.T) {
	e, mem, h := newProductEnv(t)

	id, err := mem.Create(context.Background(), "products", docstore.Document{
		"name": "card", "price": 999.0, "createdAt": "2025-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	rec, c := doJSONRequest(t, e, http.MethodPatch, "/api/v1/admin/products/"+id, map[string]any{
		"price": 899.0,
		"id":    "spoofed",
	})
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.PatchProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	snap, err := mem.Get(context.Background(), "products", id)
	require.NoError(t, err)
	require.Equal(t, 899.0, snap.Data["price"])
	require.NotContains(t, snap.Data, "id")
}

func TestDeleteProduct(t *testing.T) {
	e, mem, h := newProductEnv(t)

	id, err := mem.Create(context.Background(), "products", docstore.Document{
		"name": "card", "createdAt": "2025-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	rec, c := doJSONRequest(t, e, http.MethodDelete, "/api/v1/admin/products/"+id, nil)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, err = mem.Get(context.Background(), "products", id)
	require.ErrorIs(t, err, docstore.ErrNotFound)
}
