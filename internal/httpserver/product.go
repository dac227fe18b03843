package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vibe_commerce/internal/service"
	"github.com/Skotchmaster/vibe_commerce/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.ListProducts(ctx, c.QueryParam("q"))
	if err != nil {
		return fail(l, "get_products_error", err, "")
	}

	l.Debug("get_products_success", "count", len(items))
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_error", "status", 400, "reason", "invalid product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err, "product not found")
	}

	return c.JSON(http.StatusOK, product)
}
