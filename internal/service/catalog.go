package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/vibe_commerce/internal/models"
)

type CatalogService struct {
	Repo CatalogRepo
}

func (s *CatalogService) ListProducts(ctx context.Context, q string) ([]models.Product, error) {
	items, err := s.Repo.ListProducts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if items == nil {
		items = []models.Product{}
	}
	return items, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}
	return product, nil
}
