package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sparshnfc/storefront/internal/docstore"
	"github.com/sparshnfc/storefront/internal/events"
	"github.com/sparshnfc/storefront/internal/records"
	"github.com/sparshnfc/storefront/internal/upload"
	"github.com/sparshnfc/storefront/internal/util"
)

type ProductHandler struct {
	Records  *records.Service
	Uploads  *upload.Cloudinary
	Producer *events.Producer
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	res := h.Records.FetchAll(c.Request().Context(), records.Products)
	if !res.Success {
		return c.JSON(http.StatusBadGateway, echo.Map{
			"success":  false,
			"error":    res.Error,
			"products": res.Records,
		})
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total := len(res.Records)
	if from > total {
		from = total
	}
	to := from + limit
	if to > total {
		to = total
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"products": res.Records[from:to],
		"meta": echo.Map{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + limit - 1) / limit,
			"has_prev":    page > 1,
			"has_next":    to < total,
		},
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	res := h.Records.FetchOne(c.Request().Context(), records.Products, c.Param("id"))
	if !res.Success {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": res.Error})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "product": res.Record})
}

// CreateProduct accepts a multipart form so the image travels with the
// fields. The image lands in cloudinary; its public id rides along on the
// document for cleanup at delete time.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	name := c.FormValue("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || price < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}

	doc := docstore.Document{
		"name":        name,
		"description": c.FormValue("description"),
		"type":        c.FormValue("type"),
		"price":       price,
		"finish":      c.FormValue("finish"),
		"sku":         c.FormValue("sku"),
		"active":      c.FormValue("active") != "false",
	}

	if file, err := c.FormFile("image"); err == nil {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		defer src.Close()

		url, publicID, err := h.Uploads.Upload(c.Request().Context(), src)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		doc["image"] = url
		doc["imagePublicId"] = publicID
	}

	res := h.Records.Add(c.Request().Context(), records.Products, doc)
	if !res.Success {
		return c.JSON(http.StatusBadGateway, res)
	}

	publish(c, h.Producer, events.TopicProductEvents, res.ID, map[string]any{
		"type":      "product_created",
		"productID": res.ID,
		"name":      name,
	})

	return c.JSON(http.StatusCreated, res)
}

func (h *ProductHandler) PatchProduct(c echo.Context) error {
	id := c.Param("id")

	var updates docstore.Document
	if err := c.Bind(&updates); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	delete(updates, "id")

	res := h.Records.Update(c.Request().Context(), records.Products, id, updates)
	if !res.Success {
		return c.JSON(http.StatusNotFound, res)
	}

	publish(c, h.Producer, events.TopicProductEvents, id, map[string]any{
		"type":      "product_updated",
		"productID": id,
	})

	return c.JSON(http.StatusOK, res)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")
	ctx := c.Request().Context()

	// Clean up the stored image when the product carried one.
	if one := h.Records.FetchOne(ctx, records.Products, id); one.Success {
		if publicID, ok := one.Record["imagePublicId"].(string); ok {
			if err := h.Uploads.Delete(ctx, publicID); err != nil {
				c.Logger().Errorf("image cleanup error: %v", err)
			}
		}
	}

	res := h.Records.Delete(ctx, records.Products, id)
	if !res.Success {
		return c.JSON(http.StatusNotFound, res)
	}

	publish(c, h.Producer, events.TopicProductEvents, id, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
