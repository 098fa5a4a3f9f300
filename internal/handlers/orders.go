package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sparshnfc/storefront/internal/docstore"
	"github.com/sparshnfc/storefront/internal/events"
	"github.com/sparshnfc/storefront/internal/records"
	"github.com/sparshnfc/storefront/internal/session"
)

// OrderHandler serves the signed-in customer's own orders.
type OrderHandler struct {
	Records  *records.Service
	Sessions *session.Service
	Producer *events.Producer
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	sess := session.FromEchoContext(c)

	limit := parseIntDefault(c.QueryParam("limit"), 10)
	res := h.Records.FetchAll(c.Request().Context(), records.Orders,
		records.WithFilter("userId", sess.ProfileID),
		records.WithLimit(limit),
	)
	return c.JSON(statusFor(res.Success), echo.Map{
		"success": res.Success,
		"orders":  res.Records,
		"error":   res.Error,
	})
}

// PlaceOrder stores the order document and refreshes the profile's last
// shipping details for checkout prefill.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	sess := session.FromEchoContext(c)

	var order docstore.Document
	if err := c.Bind(&order); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	delete(order, "id")
	delete(order, "userId")
	delete(order, "status")

	res := h.Records.SaveOrder(c.Request().Context(), sess.ProfileID, order)
	if !res.Success {
		return c.JSON(http.StatusBadGateway, res)
	}

	if shipping, ok := order["shipping"]; ok {
		err := h.Sessions.UpdateProfile(c.Request().Context(), sess, docstore.Document{
			"lastShippingAddress": shipping,
			"lastUpdated":         time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			c.Logger().Errorf("profile update after order error: %v", err)
		}
	}

	publish(c, h.Producer, events.TopicOrderEvents, res.ID, map[string]any{
		"type":    "order_created",
		"orderID": res.ID,
		"userID":  sess.UserID,
	})

	return c.JSON(http.StatusCreated, res)
}
