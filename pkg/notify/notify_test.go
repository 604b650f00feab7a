package notify

import (
	"context"
	"testing"
	"time"

	"github.com/example/agbado/pkg/marketplace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setupNotifier(t *testing.T, keep int) *Notifier {
	n, err := NewNotifier(zaptest.NewLogger(t), keep)
	require.NoError(t, err)
	t.Cleanup(n.Close)
	return n
}

func TestNotifier_FeedNewestFirst(t *testing.T) {
	n := setupNotifier(t, 0)
	ctx := context.Background()

	n.Notify(ctx, marketplace.Event{Kind: marketplace.EventOrderPlaced, UserID: "demo-user", EntityID: "o1", Amount: 65000, At: time.Now()})
	n.Notify(ctx, marketplace.Event{Kind: marketplace.EventBookingCreated, UserID: "demo-user", EntityID: "b1", At: time.Now()})
	n.Notify(ctx, marketplace.Event{Kind: marketplace.EventOrderPlaced, UserID: "someone-else", EntityID: "o2"})

	notes, err := n.Recent(ctx, "demo-user")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "b1", notes[0].EntityID)
	assert.Equal(t, "booking_created", notes[0].Kind)
	assert.Equal(t, "o1", notes[1].EntityID)
	assert.Contains(t, notes[1].Message, "65000")
}

func TestNotifier_FeedIsBounded(t *testing.T) {
	n := setupNotifier(t, 3)
	ctx := context.Background()

	for _, id := range []string{"o1", "o2", "o3", "o4", "o5"} {
		n.Notify(ctx, marketplace.Event{Kind: marketplace.EventOrderPlaced, UserID: "u1", EntityID: id})
	}

	notes, err := n.Recent(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "o5", notes[0].EntityID)
	assert.Equal(t, "o3", notes[2].EntityID)
}

func TestNotifier_UnknownUser(t *testing.T) {
	n := setupNotifier(t, 0)

	notes, err := n.Recent(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNotifier_RecentExpiredDeadline(t *testing.T) {
	n := setupNotifier(t, 0)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	notes, err := n.Recent(ctx, "demo-user")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, notes)
}

func TestNotifier_WithService(t *testing.T) {
	n := setupNotifier(t, 0)
	ctx := context.Background()

	svc := newSeededService(t, marketplace.WithNotifier(n))
	_, err := svc.AddToCart(ctx, marketplace.AddToCartInput{UserID: "u1", ProductID: "prod1", Quantity: 1})
	require.NoError(t, err)
	order, err := svc.PlaceOrder(ctx, marketplace.PlaceOrderInput{UserID: "u1", Total: 27000, ShippingAddress: "1 Marina, Lagos"})
	require.NoError(t, err)

	notes, err := n.Recent(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, order.ID, notes[0].EntityID)
	assert.Equal(t, 27000, notes[0].Amount)
}
