package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vibe_commerce/internal/service"
	"github.com/Skotchmaster/vibe_commerce/internal/transport"
	"github.com/Skotchmaster/vibe_commerce/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Checkout(ctx, service.CheckoutInput{
		Items:   req.CartItems,
		Name:    req.Name,
		Email:   req.Email,
		CartKey: req.CartID,
	})
	if err != nil {
		return fail(l, "checkout_error", err, "not found")
	}

	l.Info("checkout_success", "order_id", order.ID, "total", order.Total.StringFixed(2))
	return c.JSON(http.StatusOK, transport.NewReceipt(order))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "invalid order id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return fail(l, "get_order_error", err, "order not found")
	}

	return c.JSON(http.StatusOK, transport.NewReceipt(order))
}
