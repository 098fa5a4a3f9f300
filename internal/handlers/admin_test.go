package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sparshnfc/storefront/internal/docstore"
	"github.com/sparshnfc/storefront/internal/events"
)

func newAdminEnv(t *testing.T) (*echo.Echo, *docstore.Memory, *AdminHandler) {
	t.Helper()
	mem, recs := newRecordsService()
	return echo.New(), mem, &AdminHandler{
		Records:  recs,
		Producer: events.NewProducer(nil),
	}
}

func TestGetOrdersNewestFirst(t *testing.T) {
	e, mem, h := newAdminEnv(t)

	for _, doc := range []docstore.Document{
		{"total": 100.0, "createdAt": "2025-01-01T00:00:00Z"},
		{"total": 300.0, "createdAt": "2025-03-01T00:00:00Z"},
		{"total": 200.0, "createdAt": "2025-02-01T00:00:00Z"},
	} {
		_, err := mem.Create(context.Background(), "orders", doc)
		require.NoError(t, err)
	}

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/v1/admin/orders", nil)
	require.NoError(t, h.GetOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])

	orders := body["orders"].([]any)
	require.Len(t, orders, 3)
	require.Equal(t, 300.0, orders[0].(map[string]any)["total"])
	require.Equal(t, 100.0, orders[2].(map[string]any)["total"])
}

func TestGetOrdersEmptyCollection(t *testing.T) {
	e, _, h := newAdminEnv(t)

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/v1/admin/orders", nil)
	require.NoError(t, h.GetOrders(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	require.Empty(t, body["orders"])
}

func TestGetOrder(t *testing.T) {
	e, mem, h := newAdminEnv(t)

	id, err := mem.Create(context.Background(), "orders", docstore.Document{
		"total": 1180.0, "createdAt": "2025-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/v1/admin/orders/"+id, nil)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.GetOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	order := decodeBody(t, rec)["order"].(map[string]any)
	require.Equal(t, id, order["id"])
}

func TestGetOrderNotFound(t *testing.T) {
	e, _, h := newAdminEnv(t)

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/v1/admin/orders/missing", nil)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, h.GetOrder(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "order not found", decodeBody(t, rec)["error"])
}

func TestUpdateOrderStatus(t *testing.T) {
	e, mem, h := newAdminEnv(t)

	id, err := mem.Create(context.Background(), "orders", docstore.Document{
		"status": "pending", "createdAt": "2025-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	rec, c := doJSONRequest(t, e, http.MethodPatch, "/api/v1/admin/orders/"+id+"/status", map[string]any{
		"status": "shipped",
	})
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.UpdateOrderStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	snap, err := mem.Get(context.Background(), "orders", id)
	require.NoError(t, err)
	require.Equal(t, "shipped", snap.Data["status"])
}

func TestUpdateOrderStatusRequiresStatus(t *testing.T) {
	e, _, h := newAdminEnv(t)

	_, c := doJSONRequest(t, e, http.MethodPatch, "/api/v1/admin/orders/x/status", map[string]any{})
	c.SetParamNames("id")
	c.SetParamValues("x")
	err := h.UpdateOrderStatus(c)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestGetUsersAttachesUID(t *testing.T) {
	e, mem, h := newAdminEnv(t)

	id, err := mem.Create(context.Background(), "users", docstore.Document{
		"email": "a@x.com", "createdAt": "2025-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/v1/admin/users", nil)
	require.NoError(t, h.GetUsers(c))
	require.Equal(t, http.StatusOK, rec.Code)

	users := decodeBody(t, rec)["users"].([]any)
	require.Len(t, users, 1)
	require.Equal(t, id, users[0].(map[string]any)["id"])
	require.Equal(t, id, users[0].(map[string]any)["uid"])
}

func TestGetUserNotFound(t *testing.T) {
	e, _, h := newAdminEnv(t)

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/v1/admin/users/missing", nil)
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, h.GetUser(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
