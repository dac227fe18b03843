package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/vibe_commerce/internal/domain"
	"github.com/Skotchmaster/vibe_commerce/internal/models"
)

func (r *GormRepo) GetOrCreateCart(ctx context.Context, key string) (*models.Cart, error) {
	var err error
	for attempt := 0; attempt < maxCartAttempts; attempt++ {
		cart := models.NewCart(key, time.Now().UTC())
		err = r.DB.WithContext(ctx).Where("cart_key = ?", key).FirstOrCreate(cart).Error
		if err == nil {
			return cart, nil
		}
		// lost a creation race: the winner's row is there now
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	return nil, translate(err)
}

// UpdateCart runs fn under the row lock; nothing is written when fn fails.
func (r *GormRepo) UpdateCart(ctx context.Context, key string, create bool, fn func(*models.Cart) error) (*models.Cart, error) {
	var (
		cart *models.Cart
		err  error
	)
	for attempt := 0; attempt < maxCartAttempts; attempt++ {
		cart, err = r.updateCartTx(ctx, key, create, fn)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		return nil, translate(err)
	}
	return cart, nil
}

func (r *GormRepo) updateCartTx(ctx context.Context, key string, create bool, fn func(*models.Cart) error) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_key = ?", key).
			First(&cart).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound) && create:
			cart = *models.NewCart(key, time.Now().UTC())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return fmt.Errorf("cart %s: %w", key, domain.ErrNotFound)
		case err != nil:
			return err
		}

		if err := fn(&cart); err != nil {
			return err
		}
		cart.Version++
		return tx.Save(&cart).Error
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
