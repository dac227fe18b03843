package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/vibe_commerce/internal/models"
	"github.com/Skotchmaster/vibe_commerce/pkg/logging"
)

const publishTimeout = 5 * time.Second

type CatalogRepo interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, q string) ([]models.Product, error)
}

type CartRepo interface {
	GetOrCreateCart(ctx context.Context, key string) (*models.Cart, error)
	UpdateCart(ctx context.Context, key string, create bool, fn func(*models.Cart) error) (*models.Cart, error)
}

type OrderRepo interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event interface{}) error
}

func publish(ctx context.Context, p EventPublisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.PublishEvent(pctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_event_error", "topic", topic, "type", event["type"], "error", err)
	}
}

func now() time.Time {
	return time.Now().UTC()
}
