package repository

import (
	"context"
	"time"

	"github.com/example/agbado/pkg/config"
	"github.com/example/agbado/pkg/marketplace"
	"go.uber.org/zap"
)

// ServiceOptions connects the cart cache and the audit sink when they are
// configured. An unreachable backend is skipped with a warning. The returned
// func releases whatever was connected.
func ServiceOptions(ctx context.Context, cfg *config.Config, service string, logger *zap.Logger) ([]marketplace.Option, func()) {
	var (
		opts    []marketplace.Option
		closers []func()
	)

	if cfg.Redis.Addr != "" {
		redisRepo := NewRedisRepository(&cfg.Redis)
		if err := redisRepo.Ping(ctx); err != nil {
			logger.Warn("Redis connection failed, cart cache disabled", zap.Error(err))
			redisRepo.Close()
		} else {
			logger.Info("Redis connected successfully", zap.String("addr", cfg.Redis.Addr))
			opts = append(opts, marketplace.WithCartCache(redisRepo))
			closers = append(closers, func() { redisRepo.Close() })
		}
	}

	if cfg.MongoDB.URI != "" {
		mongoRepo, err := NewMongoRepository(&cfg.MongoDB, service)
		if err == nil {
			err = mongoRepo.Ping(ctx)
		}
		if err != nil {
			logger.Warn("MongoDB connection failed, audit log disabled", zap.Error(err))
		} else {
			logger.Info("MongoDB connected successfully", zap.String("database", cfg.MongoDB.Database))
			opts = append(opts, marketplace.WithAuditSink(mongoRepo))
			closers = append(closers, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				mongoRepo.Close(ctx)
			})
		}
	}

	return opts, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}
