package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sparshnfc/storefront/internal/docstore"
	"github.com/sparshnfc/storefront/internal/export"
	"github.com/sparshnfc/storefront/internal/records"
)

// ExportHandler streams CSV and PDF reports of the admin collections.
type ExportHandler struct {
	Records *records.Service
}

func (h *ExportHandler) OrdersCSV(c echo.Context) error {
	return h.stream(c, records.Orders, "csv", "text/csv", export.OrdersCSV)
}

func (h *ExportHandler) OrdersPDF(c echo.Context) error {
	return h.stream(c, records.Orders, "pdf", "application/pdf", export.OrdersPDF)
}

func (h *ExportHandler) UsersCSV(c echo.Context) error {
	return h.stream(c, records.Users, "csv", "text/csv", export.UsersCSV)
}

func (h *ExportHandler) UsersPDF(c echo.Context) error {
	return h.stream(c, records.Users, "pdf", "application/pdf", export.UsersPDF)
}

func (h *ExportHandler) stream(c echo.Context, kind records.Kind, ext, contentType string, write func(w io.Writer, docs []docstore.Document) error) error {
	res := h.Records.FetchAll(c.Request().Context(), kind)
	if !res.Success {
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "error": res.Error})
	}
	if len(res.Records) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "no data to export"})
	}

	filename := fmt.Sprintf("%s_%s.%s", kind.Name, time.Now().Format("2006-01-02"), ext)
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	return write(c.Response(), res.Records)
}
