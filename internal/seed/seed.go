package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/vibe_commerce/internal/models"
)

type Store interface {
	CountProducts(ctx context.Context) (int64, error)
	CreateProducts(ctx context.Context, products []models.Product) error
}

type product struct {
	name, price, image, description string
}

var defaults = []product{
	{"Wireless Headphones", "79.99", "🎧", "Premium sound quality"},
	{"USB-C Cable", "12.99", "🔌", "Fast charging cable"},
	{"Phone Stand", "19.99", "📱", "Adjustable phone holder"},
	{"Portable Charger", "34.99", "🔋", "20000mAh capacity"},
	{"Screen Protector", "9.99", "🛡️", "Tempered glass"},
	{"Laptop Cooling Pad", "44.99", "❄️", "Dual fan system"},
	{"Wireless Mouse", "29.99", "🖱️", "Ergonomic design"},
	{"Desk Lamp", "39.99", "💡", "LED brightness control"},
}

// CreatedAt is staggered so listing order matches declaration order.
func DefaultProducts(now time.Time) []models.Product {
	base := now.UTC().Truncate(time.Millisecond)
	out := make([]models.Product, 0, len(defaults))
	for i, d := range defaults {
		out = append(out, models.Product{
			Name:        d.name,
			Price:       decimal.RequireFromString(d.price),
			Image:       d.image,
			Description: d.description,
			CreatedAt:   base.Add(time.Duration(i) * time.Millisecond),
		})
	}
	return out
}

func Products(ctx context.Context, s Store, l *slog.Logger) (int, error) {
	n, err := s.CountProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		l.Info("products already exist, skipping seeding", "count", n)
		return 0, nil
	}

	products := DefaultProducts(time.Now())
	if err := s.CreateProducts(ctx, products); err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}

	l.Info("products seeded", "count", len(products))
	return len(products), nil
}
