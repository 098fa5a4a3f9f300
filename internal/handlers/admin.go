package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sparshnfc/storefront/internal/docstore"
	"github.com/sparshnfc/storefront/internal/events"
	"github.com/sparshnfc/storefront/internal/records"
)

// AdminHandler serves the order and user screens of the dashboard.
type AdminHandler struct {
	Records  *records.Service
	Producer *events.Producer
}

func (h *AdminHandler) GetOrders(c echo.Context) error {
	res := h.Records.FetchAll(c.Request().Context(), records.Orders)
	return c.JSON(statusFor(res.Success), echo.Map{
		"success": res.Success,
		"orders":  res.Records,
		"error":   res.Error,
	})
}

func (h *AdminHandler) GetOrder(c echo.Context) error {
	res := h.Records.FetchOne(c.Request().Context(), records.Orders, c.Param("id"))
	if !res.Success {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": res.Error})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "order": res.Record})
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	id := c.Param("id")

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	res := h.Records.Update(c.Request().Context(), records.Orders, id, docstore.Document{
		"status": req.Status,
	})
	if !res.Success {
		return c.JSON(http.StatusNotFound, res)
	}

	publish(c, h.Producer, events.TopicOrderEvents, id, map[string]any{
		"type":    "order_status_updated",
		"orderID": id,
		"status":  req.Status,
	})

	return c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) GetUsers(c echo.Context) error {
	res := h.Records.FetchAll(c.Request().Context(), records.Users)
	return c.JSON(statusFor(res.Success), echo.Map{
		"success": res.Success,
		"users":   res.Records,
		"error":   res.Error,
	})
}

func (h *AdminHandler) GetUser(c echo.Context) error {
	res := h.Records.FetchOne(c.Request().Context(), records.Users, c.Param("id"))
	if !res.Success {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": res.Error})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": res.Record})
}
