package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/vibe_commerce/internal/domain"
	"github.com/Skotchmaster/vibe_commerce/internal/models"
	"github.com/Skotchmaster/vibe_commerce/internal/mykafka"
	"github.com/Skotchmaster/vibe_commerce/pkg/logging"
)

type CheckoutInput struct {
	Items   models.LineItems
	Name    string
	Email   string
	CartKey string
}

type OrderService struct {
	Repo   OrderRepo
	Carts  *CartService
	Events EventPublisher
}

func (in CheckoutInput) validate() (name, email string, err error) {
	name = strings.TrimSpace(in.Name)
	email = strings.TrimSpace(in.Email)

	if in.Items == nil {
		return "", "", fmt.Errorf("%w: cart items required", domain.ErrValidation)
	}
	if name == "" {
		return "", "", fmt.Errorf("%w: name required", domain.ErrValidation)
	}
	if email == "" {
		return "", "", fmt.Errorf("%w: email required", domain.ErrValidation)
	}
	for i, it := range in.Items {
		if it.Quantity < 1 {
			return "", "", fmt.Errorf("%w: cart item %d: quantity must be at least 1", domain.ErrValidation, i)
		}
		if it.Price.IsNegative() {
			return "", "", fmt.Errorf("%w: cart item %d: price must not be negative", domain.ErrValidation, i)
		}
	}
	return name, email, nil
}

func (s *OrderService) Checkout(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	name, email, err := in.validate()
	if err != nil {
		return nil, err
	}

	order := models.NewOrder(name, email, in.Items, now())
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if key := strings.TrimSpace(in.CartKey); key != "" && s.Carts != nil {
		s.resetCart(ctx, key, order.ID)
	}

	publish(ctx, s.Events, mykafka.TopicOrderEvents, order.ID.String(), map[string]any{
		"type":    "order_created",
		"orderId": order.ID.String(),
		"cartId":  in.CartKey,
		"items":   len(order.Items),
		"total":   order.Total,
	})
	return order, nil
}

func (s *OrderService) resetCart(ctx context.Context, key string, orderID uuid.UUID) {
	_, err := s.Carts.Clear(ctx, key)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		logging.FromContext(ctx).Debug("checkout_cart_missing", "cart_id", key, "order_id", orderID)
	default:
		logging.FromContext(ctx).Warn("checkout_cart_reset_error", "cart_id", key, "order_id", orderID, "error", err)
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}
	return order, nil
}
