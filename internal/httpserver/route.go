package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vibe_commerce/pkg/logging"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	Ready          func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		if err := d.Ready(c.Request().Context()); err != nil {
			logging.FromContext(c.Request().Context()).Warn("ready_check_failed", "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable")
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")

	api.GET("/products", d.CatalogHandler.GetProducts)
	api.GET("/products/:id", d.CatalogHandler.GetProduct)

	api.GET("/cart/:id", d.CartHandler.GetCart)
	api.POST("/cart/:id", d.CartHandler.AddToCart)
	api.DELETE("/cart/:cartId/:productId", d.CartHandler.RemoveFromCart)
	api.PUT("/cart/:cartId/:productId", d.CartHandler.SetQuantity)

	api.POST("/checkout", d.OrderHandler.Checkout)
	api.GET("/orders/:id", d.OrderHandler.GetOrder)
}
