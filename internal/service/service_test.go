package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/vibe_commerce/internal/models"
	"github.com/Skotchmaster/vibe_commerce/internal/repo"
	"github.com/Skotchmaster/vibe_commerce/internal/repo/repotest"
	"github.com/Skotchmaster/vibe_commerce/internal/service"
)

type publishedEvent struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	m, _ := event.(map[string]any)
	p.events = append(p.events, publishedEvent{Topic: topic, Key: key, Event: m})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Event["type"].(string))
	}
	return out
}

type fixture struct {
	repo     *repo.GormRepo
	events   *recordingPublisher
	catalog  *service.CatalogService
	carts    *service.CartService
	orders   *service.OrderService
	products []models.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	r := repotest.NewGormRepo(t)
	base := time.Now().UTC().Truncate(time.Millisecond)
	products := []models.Product{
		{Name: "A", Price: decimal.RequireFromString("10.00"), Image: "🅰️", Description: "first", CreatedAt: base},
		{Name: "B", Price: decimal.RequireFromString("12.99"), Image: "🅱️", Description: "second", CreatedAt: base.Add(time.Millisecond)},
		{Name: "Lamp", Price: decimal.RequireFromString("39.99"), Image: "💡", Description: "Adjustable LED lamp", CreatedAt: base.Add(2 * time.Millisecond)},
	}
	require.NoError(t, r.CreateProducts(context.Background(), products))

	events := &recordingPublisher{}
	carts := &service.CartService{Repo: r, Catalog: r, Events: events}
	return &fixture{
		repo:     r,
		events:   events,
		catalog:  &service.CatalogService{Repo: r},
		carts:    carts,
		orders:   &service.OrderService{Repo: r, Carts: carts, Events: events},
		products: products,
	}
}

var errBroker = errors.New("broker down")
