package marketplace

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/example/agbado/pkg/models"
	"github.com/example/agbado/pkg/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestService(t *testing.T, opts ...Option) (*Service, *store.MemStore) {
	t.Helper()
	st := store.NewMemStore()
	require.NoError(t, store.Seed(context.Background(), st))
	svc := NewService(st, zaptest.NewLogger(t), opts...)
	t.Cleanup(svc.Close)
	return svc, st
}

// ctxStore fails reads once the caller's context is done.
type ctxStore struct {
	*store.MemStore
}

func (c *ctxStore) ListCartItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.MemStore.ListCartItems(ctx, userID)
}

// blockingSink holds every Record call until release is closed.
type blockingSink struct {
	release chan struct{}

	mu       sync.Mutex
	recorded int
}

func (b *blockingSink) Record(_ context.Context, _ Event) error {
	<-b.release
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recorded++
	return nil
}

func (b *blockingSink) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recorded
}

// faultyStore fails selected operations on top of a MemStore.
type faultyStore struct {
	*store.MemStore
	failCreateOrder     bool
	failCreateOrderItem bool
	failDeleteAfter     int // fail the nth DeleteCartItem call, 0 disables

	mu      sync.Mutex
	deletes int
}

var errInjected = errors.New("injected failure")

func (f *faultyStore) CreateOrder(ctx context.Context, o models.Order) (*models.Order, error) {
	if f.failCreateOrder {
		return nil, errInjected
	}
	return f.MemStore.CreateOrder(ctx, o)
}

func (f *faultyStore) CreateOrderItem(ctx context.Context, item models.OrderItem) (*models.OrderItem, error) {
	if f.failCreateOrderItem {
		return nil, errInjected
	}
	return f.MemStore.CreateOrderItem(ctx, item)
}

func (f *faultyStore) DeleteCartItem(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	f.deletes++
	n := f.deletes
	f.mu.Unlock()
	if f.failDeleteAfter > 0 && n == f.failDeleteAfter {
		return false, errInjected
	}
	return f.MemStore.DeleteCartItem(ctx, id)
}

// mapCache is a CartCache backed by a map.
type mapCache struct {
	mu      sync.Mutex
	carts   map[string]*CartView
	hits    int
	deletes int
}

func newMapCache() *mapCache {
	return &mapCache{carts: make(map[string]*CartView)}
}

func (c *mapCache) GetCart(_ context.Context, userID string) (*CartView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cart, ok := c.carts[userID]
	if !ok {
		return nil, ErrCacheMiss
	}
	c.hits++
	return cart, nil
}

func (c *mapCache) SetCart(_ context.Context, userID string, cart *CartView) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.carts[userID] = cart
	return nil
}

func (c *mapCache) DeleteCart(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.carts, userID)
	c.deletes++
	return nil
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(_ context.Context, ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) Record(ctx context.Context, ev Event) error {
	r.Notify(ctx, ev)
	return nil
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func productIDs(products []models.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func providerIDs(providers []models.Provider) []string {
	ids := make([]string, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	return ids
}
