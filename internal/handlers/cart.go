package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/sparshnfc/storefront/internal/cart"
	"github.com/sparshnfc/storefront/internal/events"
	"github.com/sparshnfc/storefront/internal/kvstore"
	"github.com/sparshnfc/storefront/internal/session"
)

const cartCookie = "cartSession"

type CartHandler struct {
	KV       kvstore.Store
	Producer *events.Producer
}

// store resolves the per-browsing-session cart, minting the session cookie
// on first contact. The X-Cart-Count header carries the badge count back on
// every mutation.
func (h *CartHandler) store(c echo.Context) *cart.Store {
	var sid string
	if ck, err := c.Cookie(cartCookie); err == nil && ck.Value != "" {
		sid = ck.Value
	} else {
		sid = uuid.NewString()
		c.SetCookie(session.CreateCookie(cartCookie, sid, "/", time.Now().Add(365*24*time.Hour)))
	}

	st := cart.NewStore(h.KV, "cart:"+sid)
	st.OnChange(func(count int) {
		c.Response().Header().Set("X-Cart-Count", strconv.Itoa(count))
	})
	return st
}

func (h *CartHandler) summary(st *cart.Store, lines []cart.Line) echo.Map {
	subtotal := st.Total()
	gst := cart.CalculateGST(subtotal)
	var count int
	for _, l := range lines {
		count += l.Quantity
	}
	return echo.Map{
		"items":       lines,
		"count":       count,
		"subtotal":    subtotal,
		"gst":         gst,
		"grand_total": subtotal + gst,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	st := h.store(c)
	return c.JSON(http.StatusOK, h.summary(st, st.Get()))
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	var line cart.Line
	if err := c.Bind(&line); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if line.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product id is required")
	}

	st := h.store(c)
	lines := st.Add(line)

	publish(c, h.Producer, events.TopicCartEvents, line.ID, map[string]any{
		"type":     "add_to_cart",
		"id":       line.ID,
		"finish":   line.Finish,
		"quantity": line.Quantity,
	})

	return c.JSON(http.StatusOK, h.summary(st, lines))
}

func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	var req struct {
		ID       string `json:"id"`
		Finish   string `json:"finish"`
		Quantity int    `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.ID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product id is required")
	}
	if req.Finish == "" {
		req.Finish = cart.DefaultFinish
	}

	st := h.store(c)
	lines := st.UpdateQuantity(req.ID, req.Finish, req.Quantity)

	publish(c, h.Producer, events.TopicCartEvents, req.ID, map[string]any{
		"type":     "update_quantity",
		"id":       req.ID,
		"finish":   req.Finish,
		"quantity": req.Quantity,
	})

	return c.JSON(http.StatusOK, h.summary(st, lines))
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product id is required")
	}
	finish := c.QueryParam("finish")
	if finish == "" {
		finish = cart.DefaultFinish
	}

	st := h.store(c)
	lines := st.Remove(id, finish)

	publish(c, h.Producer, events.TopicCartEvents, id, map[string]any{
		"type":   "remove_from_cart",
		"id":     id,
		"finish": finish,
	})

	return c.JSON(http.StatusOK, h.summary(st, lines))
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	st := h.store(c)
	lines := st.Clear()

	publish(c, h.Producer, events.TopicCartEvents, "", map[string]any{
		"type": "clear_cart",
	})

	return c.JSON(http.StatusOK, h.summary(st, lines))
}
