package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/agbado/pkg/config"
	"github.com/example/agbado/pkg/marketplace"
	"github.com/go-redis/redis/v8"
)

const defaultCartTTL = 15 * time.Minute

// RedisRepository caches rendered carts. It satisfies marketplace.CartCache.
type RedisRepository struct {
	client  *redis.Client
	cartTTL time.Duration
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return NewRedisRepositoryWithClient(redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}), cfg.CartTTL)
}

func NewRedisRepositoryWithClient(client *redis.Client, cartTTL time.Duration) *RedisRepository {
	if cartTTL <= 0 {
		cartTTL = defaultCartTTL
	}
	return &RedisRepository{client: client, cartTTL: cartTTL}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

// GetJSON returns marketplace.ErrCacheMiss when the key is absent.
func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return marketplace.ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func (r *RedisRepository) GetCart(ctx context.Context, userID string) (*marketplace.CartView, error) {
	var cart marketplace.CartView
	if err := r.GetJSON(ctx, cartKey(userID), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *RedisRepository) SetCart(ctx context.Context, userID string, cart *marketplace.CartView) error {
	return r.SetJSON(ctx, cartKey(userID), cart, r.cartTTL)
}

func (r *RedisRepository) DeleteCart(ctx context.Context, userID string) error {
	return r.Del(ctx, cartKey(userID))
}
