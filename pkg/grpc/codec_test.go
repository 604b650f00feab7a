package grpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/example/agbado/pkg/config"
	"github.com/example/agbado/pkg/marketplace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStatusRoundTrip(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		err := toStatus(fmt.Errorf("order o1: %w", marketplace.ErrNotFound))
		assert.Equal(t, codes.NotFound, status.Code(err))

		back := fromStatus(err)
		assert.ErrorIs(t, back, marketplace.ErrNotFound)
		assert.Equal(t, "order o1: not found", back.Error())
	})

	t.Run("validation", func(t *testing.T) {
		err := toStatus(&marketplace.ValidationError{Fields: map[string]string{"quantity": "gte=1"}})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))

		var ve *marketplace.ValidationError
		require.ErrorAs(t, fromStatus(err), &ve)
		assert.Equal(t, map[string]string{"quantity": "gte=1"}, ve.Fields)
	})

	t.Run("internal", func(t *testing.T) {
		err := toStatus(errors.New("disk on fire"))
		assert.Equal(t, codes.Internal, status.Code(err))

		back := fromStatus(err)
		assert.False(t, marketplace.IsValidation(back))
		assert.NotErrorIs(t, back, marketplace.ErrNotFound)
	})
}

func TestClientManager_DefaultTarget(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{Name: "order-service", Port: 50052}}
	m := NewClientManager(cfg, zaptest.NewLogger(t), nil)

	assert.Equal(t, "localhost:50052", m.resolve())
	assert.NoError(t, m.Close())

	require.NoError(t, m.Connect())
	assert.NotNil(t, m.OrderClient())
	assert.NotNil(t, m.CatalogClient())
	assert.NoError(t, m.Close())
}
