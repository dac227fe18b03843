package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/vibe_commerce/internal/models"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, q string) ([]models.Product, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Product{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + escapeLike(strings.ToLower(q)) + "%"
		tx = tx.Where("LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\'", like, like)
	}

	items := make([]models.Product, 0)
	if err := tx.Order("created_at ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, translate(err)
	}
	return total, nil
}

func (r *GormRepo) CreateProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return translate(r.DB.WithContext(ctx).Create(&products).Error)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
