package repo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/vibe_commerce/internal/domain"
	"github.com/Skotchmaster/vibe_commerce/internal/models"
)

type store interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, q string) ([]models.Product, error)
	CountProducts(ctx context.Context) (int64, error)
	CreateProducts(ctx context.Context, products []models.Product) error
	GetOrCreateCart(ctx context.Context, key string) (*models.Cart, error)
	UpdateCart(ctx context.Context, key string, create bool, fn func(*models.Cart) error) (*models.Cart, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Ping(ctx context.Context) error
}

func seedProducts(t *testing.T, s store) []models.Product {
	t.Helper()

	base := time.Now().UTC().Truncate(time.Millisecond)
	products := []models.Product{
		{Name: "Wireless Headphones", Price: decimal.RequireFromString("79.99"), Image: "🎧", Description: "Premium sound quality", CreatedAt: base},
		{Name: "USB-C Cable", Price: decimal.RequireFromString("12.99"), Image: "🔌", Description: "Fast charging cable", CreatedAt: base.Add(time.Millisecond)},
		{Name: "Wireless Mouse", Price: decimal.RequireFromString("29.99"), Image: "🖱️", Description: "Ergonomic design", CreatedAt: base.Add(2 * time.Millisecond)},
	}
	require.NoError(t, s.CreateProducts(context.Background(), products))
	return products
}

func runStoreContract(t *testing.T, newStore func(t *testing.T) store) {
	t.Run("products", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		n, err := s.CountProducts(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)

		products := seedProducts(t, s)

		n, err = s.CountProducts(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, n)

		all, err := s.ListProducts(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i := range products {
			assert.Equal(t, products[i].ID, all[i].ID)
			assert.Equal(t, products[i].Name, all[i].Name)
			assert.True(t, products[i].Price.Equal(all[i].Price))
		}

		filtered, err := s.ListProducts(ctx, "wireless")
		require.NoError(t, err)
		assert.Len(t, filtered, 2)

		filtered, err = s.ListProducts(ctx, "CHARGING")
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, "USB-C Cable", filtered[0].Name)

		filtered, err = s.ListProducts(ctx, "100%")
		require.NoError(t, err)
		assert.Empty(t, filtered)

		got, err := s.GetProduct(ctx, products[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "USB-C Cable", got.Name)

		_, err = s.GetProduct(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("get or create cart is idempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first, err := s.GetOrCreateCart(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", first.CartKey)
		assert.Empty(t, first.Items)
		assert.True(t, first.Total.IsZero())

		second, err := s.GetOrCreateCart(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, first.CartKey, second.CartKey)
		assert.Empty(t, second.Items)
	})

	t.Run("update cart", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		products := seedProducts(t, s)
		now := time.Now().UTC()

		_, err := s.UpdateCart(ctx, "missing", false, func(c *models.Cart) error { return nil })
		assert.ErrorIs(t, err, domain.ErrNotFound)

		cart, err := s.UpdateCart(ctx, "abc", true, func(c *models.Cart) error {
			c.AddItem(products[0], 2, now)
			return nil
		})
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, "159.98", cart.Total.StringFixed(2))

		loaded, err := s.GetOrCreateCart(ctx, "abc")
		require.NoError(t, err)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, 2, loaded.Items[0].Quantity)
		assert.Equal(t, products[0].ID, loaded.Items[0].ProductID)
		assert.Equal(t, "159.98", loaded.Total.StringFixed(2))

		boom := errors.New("boom")
		_, err = s.UpdateCart(ctx, "abc", false, func(c *models.Cart) error {
			c.AddItem(products[1], 5, now)
			return boom
		})
		assert.ErrorIs(t, err, boom)

		loaded, err = s.GetOrCreateCart(ctx, "abc")
		require.NoError(t, err)
		assert.Len(t, loaded.Items, 1, "failed mutation must not be persisted")
	})

	t.Run("concurrent adds are not lost", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		products := seedProducts(t, s)

		const workers = 10
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.UpdateCart(ctx, "busy", true, func(c *models.Cart) error {
					c.AddItem(products[2], 1, time.Now().UTC())
					return nil
				})
				if err != nil && !errors.Is(err, domain.ErrConflict) {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		cart, err := s.GetOrCreateCart(ctx, "busy")
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.LessOrEqual(t, cart.Items[0].Quantity, workers)
		assert.Equal(t, cart.Items[0].Subtotal().StringFixed(2), cart.Total.StringFixed(2))
	})

	t.Run("orders", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		items := models.LineItems{
			{ProductID: uuid.New(), Name: "a", Price: decimal.RequireFromString("12.99"), Quantity: 2},
			{ProductID: uuid.New(), Name: "b", Price: decimal.RequireFromString("5.00"), Quantity: 1},
		}
		order := models.NewOrder("A", "a@b.com", items, time.Now().UTC().Truncate(time.Millisecond))
		require.NoError(t, s.CreateOrder(ctx, order))

		got, err := s.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "A", got.Name)
		assert.Equal(t, "a@b.com", got.Email)
		assert.Equal(t, models.OrderStatusCompleted, got.Status)
		assert.Equal(t, "30.98", got.Total.StringFixed(2))
		require.Len(t, got.Items, 2)
		assert.Equal(t, items[0].ProductID, got.Items[0].ProductID)

		_, err = s.GetOrder(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, newStore(t).Ping(context.Background()))
	})
}
