package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vibe_commerce/internal/service"
	"github.com/Skotchmaster/vibe_commerce/internal/transport"
	"github.com/Skotchmaster/vibe_commerce/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	cart, err := h.Svc.GetOrCreateCart(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_cart_error", err, "cart not found")
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		l.Warn("add_to_cart_error", "status", 400, "reason", "invalid product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	cart, err := h.Svc.AddItem(ctx, c.Param("id"), productID, req.Qty.Value)
	if err != nil {
		return fail(l, "add_to_cart_error", err, "product not found")
	}

	l.Info("add_to_cart_success", "cart_id", cart.CartKey, "product_id", productID)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_from_cart")

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		l.Warn("remove_from_cart_error", "status", 400, "reason", "invalid product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	cart, err := h.Svc.RemoveItem(ctx, c.Param("cartId"), productID)
	if err != nil {
		return fail(l, "remove_from_cart_error", err, "cart not found")
	}

	l.Info("remove_from_cart_success", "cart_id", cart.CartKey, "product_id", productID)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		l.Warn("set_quantity_error", "status", 400, "reason", "invalid product id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req transport.SetQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_quantity_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !req.Qty.Set {
		l.Warn("set_quantity_error", "status", 400, "reason", "quantity must be an integer")
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be an integer")
	}

	cart, err := h.Svc.SetQuantity(ctx, c.Param("cartId"), productID, req.Qty.Value)
	if err != nil {
		return fail(l, "set_quantity_error", err, "cart or item not found")
	}

	l.Info("set_quantity_success", "cart_id", cart.CartKey, "product_id", productID, "quantity", req.Qty.Value)
	return c.JSON(http.StatusOK, cart)
}
