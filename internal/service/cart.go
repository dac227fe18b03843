package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/vibe_commerce/internal/domain"
	"github.com/Skotchmaster/vibe_commerce/internal/models"
	"github.com/Skotchmaster/vibe_commerce/internal/mykafka"
)

type CartService struct {
	Repo    CartRepo
	Catalog CatalogRepo
	Events  EventPublisher
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: cart id required", domain.ErrValidation)
	}
	return nil
}

func (s *CartService) GetOrCreateCart(ctx context.Context, key string) (*models.Cart, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	cart, err := s.Repo.GetOrCreateCart(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cart %s: %w", key, err)
	}
	return cart, nil
}

func (s *CartService) AddItem(ctx context.Context, key string, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", domain.ErrValidation)
	}

	product, err := s.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", productID, err)
	}

	cart, err := s.Repo.UpdateCart(ctx, key, true, func(c *models.Cart) error {
		c.AddItem(*product, quantity, now())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("add to cart %s: %w", key, err)
	}

	publish(ctx, s.Events, mykafka.TopicCartEvents, key, map[string]any{
		"type":      "cart_item_added",
		"cartId":    key,
		"productId": productID.String(),
		"quantity":  quantity,
		"total":     cart.Total,
	})
	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, key string, productID uuid.UUID) (*models.Cart, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	cart, err := s.Repo.UpdateCart(ctx, key, false, func(c *models.Cart) error {
		c.RemoveItem(productID, now())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("remove from cart %s: %w", key, err)
	}

	publish(ctx, s.Events, mykafka.TopicCartEvents, key, map[string]any{
		"type":      "cart_item_removed",
		"cartId":    key,
		"productId": productID.String(),
		"total":     cart.Total,
	})
	return cart, nil
}

func (s *CartService) SetQuantity(ctx context.Context, key string, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	cart, err := s.Repo.UpdateCart(ctx, key, false, func(c *models.Cart) error {
		return c.SetQuantity(productID, quantity, now())
	})
	if err != nil {
		return nil, fmt.Errorf("set quantity in cart %s: %w", key, err)
	}

	publish(ctx, s.Events, mykafka.TopicCartEvents, key, map[string]any{
		"type":      "cart_quantity_set",
		"cartId":    key,
		"productId": productID.String(),
		"quantity":  quantity,
		"total":     cart.Total,
	})
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, key string) (*models.Cart, error) {
	cart, err := s.Repo.UpdateCart(ctx, key, false, func(c *models.Cart) error {
		c.Reset(now())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("clear cart %s: %w", key, err)
	}

	publish(ctx, s.Events, mykafka.TopicCartEvents, key, map[string]any{
		"type":   "cart_cleared",
		"cartId": key,
	})
	return cart, nil
}
