package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/example/agbado/pkg/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestServiceOptions(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("nothing configured", func(t *testing.T) {
		opts, closeAll := ServiceOptions(context.Background(), &config.Config{}, "gateway", logger)
		defer closeAll()
		assert.Empty(t, opts)
	})

	t.Run("redis reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{Redis: config.RedisConfig{Addr: mr.Addr(), CartTTL: time.Minute}}

		opts, closeAll := ServiceOptions(context.Background(), cfg, "gateway", logger)
		defer closeAll()
		assert.Len(t, opts, 1)
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		opts, closeAll := ServiceOptions(ctx, &config.Config{Redis: config.RedisConfig{Addr: addr}}, "gateway", logger)
		defer closeAll()
		assert.Empty(t, opts)
	})
}
