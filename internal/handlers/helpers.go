package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sparshnfc/storefront/internal/events"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

// publish fires a domain event, logging instead of failing the request when
// the broker is unreachable.
func publish(c echo.Context, p *events.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("event publish error: %v", err)
	}
}

// statusFor maps a structured result to an HTTP status, keeping the result
// body shape intact either way.
func statusFor(success bool) int {
	if success {
		return http.StatusOK
	}
	return http.StatusBadGateway
}
