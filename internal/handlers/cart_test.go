package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/sparshnfc/storefront/internal/events"
	"github.com/sparshnfc/storefront/internal/kvstore"
)

func newCartEnv() (*echo.Echo, *CartHandler) {
	return echo.New(), &CartHandler{
		KV:       kvstore.NewMemory(),
		Producer: events.NewProducer(nil),
	}
}

func cartCookieFrom(t *testing.T, rec interface{ Result() *http.Response }) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == cartCookie {
			return ck
		}
	}
	t.Fatal("cart session cookie not set")
	return nil
}

func TestAddToCartMintsSessionCookie(t *testing.T) {
	e, h := newCartEnv()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/cart", map[string]any{
		"id": "p1", "price": 999.0, "quantity": 1, "finish": "matte",
	})
	require.NoError(t, h.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)

	ck := cartCookieFrom(t, rec)
	require.NotEmpty(t, ck.Value)
	require.Equal(t, "1", rec.Header().Get("X-Cart-Count"))

	body := decodeBody(t, rec)
	require.Equal(t, float64(1), body["count"])
	require.Equal(t, 999.0, body["subtotal"])
}

func TestCartFlow(t *testing.T) {
	e, h := newCartEnv()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/cart", map[string]any{
		"id": "p1", "price": 500.0, "quantity": 1, "finish": "matte",
	})
	require.NoError(t, h.AddToCart(c))
	ck := cartCookieFrom(t, rec)

	// Same variant again merges into one entry.
	rec, c = doJSONRequest(t, e, http.MethodPost, "/api/v1/cart", map[string]any{
		"id": "p1", "price": 500.0, "quantity": 1, "finish": "matte",
	}, ck)
	require.NoError(t, h.AddToCart(c))

	body := decodeBody(t, rec)
	require.Equal(t, float64(2), body["count"])
	require.Len(t, body["items"], 1)
	require.Equal(t, 1000.0, body["subtotal"])
	require.InDelta(t, 180.0, body["gst"].(float64), 1e-9)
	require.InDelta(t, 1180.0, body["grand_total"].(float64), 1e-9)

	// A different finish is its own entry.
	rec, c = doJSONRequest(t, e, http.MethodPost, "/api/v1/cart", map[string]any{
		"id": "p1", "price": 500.0, "quantity": 1, "finish": "glossy",
	}, ck)
	require.NoError(t, h.AddToCart(c))
	require.Len(t, decodeBody(t, rec)["items"], 2)

	// The cart survives across requests on the same session cookie.
	rec, c = doJSONRequest(t, e, http.MethodGet, "/api/v1/cart", nil, ck)
	require.NoError(t, h.GetCart(c))
	require.Equal(t, float64(3), decodeBody(t, rec)["count"])
}

func TestUpdateQuantityToZeroRemoves(t *testing.T) {
	e, h := newCartEnv()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/cart", map[string]any{
		"id": "p1", "price": 500.0, "quantity": 2, "finish": "matte",
	})
	require.NoError(t, h.AddToCart(c))
	ck := cartCookieFrom(t, rec)

	rec, c = doJSONRequest(t, e, http.MethodPatch, "/api/v1/cart", map[string]any{
		"id": "p1", "finish": "matte", "quantity": 0,
	}, ck)
	require.NoError(t, h.UpdateQuantity(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Empty(t, body["items"])
	require.Equal(t, "0", rec.Header().Get("X-Cart-Count"))
}

func TestRemoveFromCart(t *testing.T) {
	e, h := newCartEnv()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/cart", map[string]any{
		"id": "p1", "price": 500.0, "quantity": 1,
	})
	require.NoError(t, h.AddToCart(c))
	ck := cartCookieFrom(t, rec)

	// The line was stored under the default finish.
	rec, c = doJSONRequest(t, e, http.MethodDelete, "/api/v1/cart?id=p1", nil, ck)
	require.NoError(t, h.RemoveFromCart(c))
	require.Empty(t, decodeBody(t, rec)["items"])
}

func TestRemoveFromCartRequiresID(t *testing.T) {
	e, h := newCartEnv()

	_, c := doJSONRequest(t, e, http.MethodDelete, "/api/v1/cart", nil)
	err := h.RemoveFromCart(c)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestClearCart(t *testing.T) {
	e, h := newCartEnv()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/cart", map[string]any{
		"id": "p1", "price": 500.0, "quantity": 3,
	})
	require.NoError(t, h.AddToCart(c))
	ck := cartCookieFrom(t, rec)

	rec, c = doJSONRequest(t, e, http.MethodDelete, "/api/v1/cart/all", nil, ck)
	require.NoError(t, h.ClearCart(c))

	body := decodeBody(t, rec)
	require.Empty(t, body["items"])
	require.Equal(t, float64(0), body["count"])
	require.Equal(t, 0.0, body["subtotal"])
}

func TestAddToCartRequiresID(t *testing.T) {
	e, h := newCartEnv()

	_, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/cart", map[string]any{"quantity": 1})
	err := h.AddToCart(c)
	require.Error(t, err)
	require.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}
