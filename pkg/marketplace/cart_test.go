package marketplace

import (
	"context"
	"math"
	"testing"

	"github.com/example/agbado/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAddToCart_MergesSameProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod1", Quantity: 1})
	require.NoError(t, err)
	second, err := svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod1", Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 4, second.Quantity)

	cart, err := svc.Cart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	require.NotNil(t, cart.Items[0].Product)
	assert.Equal(t, "Handwoven Kente Cloth", cart.Items[0].Product.Name)
}

func TestAddToCart_SeparateUsersSeparateRows(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod1", Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, AddToCartInput{UserID: "u2", ProductID: "prod1", Quantity: 2})
	require.NoError(t, err)

	cart, err := svc.Cart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestAddToCart_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := map[string]AddToCartInput{
		"quantity":  {UserID: "u1", ProductID: "prod1", Quantity: 0},
		"productId": {UserID: "u1", Quantity: 1},
		"userId":    {ProductID: "prod1", Quantity: 1},
	}
	for field, in := range tests {
		_, err := svc.AddToCart(ctx, in)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, field)
		assert.Contains(t, ve.Fields, field)
	}
}

func TestCart_Totals(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod1", Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod3", Quantity: 1})
	require.NoError(t, err)

	cart, err := svc.Cart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, cart.TotalItems)
	assert.Equal(t, 65000, cart.TotalPrice)
}

func TestCart_MissingProductCountsAsZero(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "gone", Quantity: 5})
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod6", Quantity: 1})
	require.NoError(t, err)

	cart, err := svc.Cart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 6, cart.TotalItems)
	assert.Equal(t, 8000, cart.TotalPrice)

	for _, line := range cart.Items {
		if line.ProductID == "gone" {
			assert.Nil(t, line.Product)
		}
	}
}

func TestCart_EmptyForUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	cart, err := svc.Cart(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPrice)
}

func TestSetQuantity(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod2", Quantity: 1})
	require.NoError(t, err)

	updated, err := svc.SetQuantity(ctx, item.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	cart, err := svc.Cart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 7*45000, cart.TotalPrice)
}

func TestSetQuantity_NonPositiveRemoves(t *testing.T) {
	for _, q := range []int{0, -3} {
		svc, _ := newTestService(t)
		ctx := context.Background()

		item, err := svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod2", Quantity: 2})
		require.NoError(t, err)

		updated, err := svc.SetQuantity(ctx, item.ID, q)
		require.NoError(t, err)
		assert.Nil(t, updated)

		cart, err := svc.Cart(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	}
}

func TestSetQuantity_UnknownItem(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SetQuantity(context.Background(), "missing", 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveCartItem_Twice(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod4", Quantity: 1})
	require.NoError(t, err)

	removed, err := svc.RemoveCartItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = svc.RemoveCartItem(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCart_CacheFilledAndInvalidated(t *testing.T) {
	cache := newMapCache()
	svc, _ := newTestService(t, WithCartCache(cache))
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod1", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Cart(ctx, "u1")
	require.NoError(t, err)
	cart, err := svc.Cart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 25000, cart.TotalPrice)

	_, err = svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod1", Quantity: 1})
	require.NoError(t, err)

	cart, err = svc.Cart(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 50000, cart.TotalPrice)
}

func TestAddToCart_QuantityCapped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod1", Quantity: math.MaxInt})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "quantity")

	item, err := svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod1", Quantity: MaxQuantity})
	require.NoError(t, err)
	assert.Equal(t, MaxQuantity, item.Quantity)

	_, err = svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod1", Quantity: 1})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "quantity")

	cart, err := svc.Cart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, MaxQuantity, cart.Items[0].Quantity)
	assert.Equal(t, MaxQuantity, cart.TotalItems)
	assert.Equal(t, MaxQuantity*25000, cart.TotalPrice)
}

func TestSetQuantity_AboveCapRejected(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, AddToCartInput{UserID: "u1", ProductID: "prod1", Quantity: 2})
	require.NoError(t, err)

	_, err = svc.SetQuantity(ctx, item.ID, math.MaxInt)
	assert.True(t, IsValidation(err))

	cart, err := svc.Cart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestCart_FillSurvivesCancelledCaller(t *testing.T) {
	st := &ctxStore{MemStore: store.NewMemStore()}
	require.NoError(t, store.Seed(context.Background(), st))
	svc := NewService(st, zaptest.NewLogger(t))

	_, err := svc.AddToCart(context.Background(), AddToCartInput{UserID: "u1", ProductID: "prod1", Quantity: 2})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cart, err := svc.Cart(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.TotalItems)
}
