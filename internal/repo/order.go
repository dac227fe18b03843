package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/vibe_commerce/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return translate(r.DB.WithContext(ctx).Create(order).Error)
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}
