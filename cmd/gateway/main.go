package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/agbado/gateway"
	"github.com/example/agbado/pkg/config"
	"github.com/example/agbado/pkg/discovery"
	"github.com/example/agbado/pkg/grpc"
	"github.com/example/agbado/pkg/marketplace"
	"github.com/example/agbado/pkg/notify"
	"github.com/example/agbado/pkg/repository"
	"github.com/example/agbado/pkg/store"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	configPath := os.Getenv("AGBADO_CONFIG_FILE")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := cfg.Log.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting API Gateway",
		zap.Int("port", cfg.Gateway.Port),
		zap.String("host", cfg.Gateway.Host),
		zap.String("store", cfg.Store.Driver))

	ctx := context.Background()

	st, err := store.Open(ctx, &cfg.Store, &cfg.MySQL)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.Close()

	opts, closeRepos := repository.ServiceOptions(ctx, cfg, cfg.Gateway.Name, logger)
	defer closeRepos()

	notifier, err := notify.NewNotifier(logger, 0)
	if err != nil {
		logger.Fatal("Failed to start notifier", zap.Error(err))
	}
	defer notifier.Close()
	opts = append(opts, marketplace.WithNotifier(notifier))

	svc := marketplace.NewService(st, logger, opts...)
	defer svc.Close()

	var sd *discovery.ServiceDiscovery
	if len(cfg.Etcd.Endpoints) > 0 {
		sd, err = discovery.NewServiceDiscovery(&cfg.Etcd, logger)
		if err != nil {
			logger.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		} else {
			defer sd.Close()
		}
	}

	gwOpts := []gateway.Option{gateway.WithFeed(notifier)}
	if cfg.Gateway.RemoteOrders {
		clients := grpc.NewClientManager(cfg, logger, sd)
		if err := clients.Connect(); err != nil {
			logger.Fatal("Failed to connect to order service", zap.Error(err))
		}
		defer clients.Close()
		gwOpts = append(gwOpts, gateway.WithRemote(clients.CatalogClient(), clients.OrderClient()))
	}

	gw := gateway.NewGateway(cfg, logger, svc, gwOpts...)
	gw.SetupRoutes()

	gwErr := make(chan error, 1)
	go func() {
		if err := gw.Start(); err != nil {
			gwErr <- err
		}
	}()

	logger.Info("Gateway started successfully")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-gwErr:
		logger.Error("Gateway error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := gw.Shutdown(shutdownCtx); err != nil {
		logger.Error("Gateway shutdown failed", zap.Error(err))
	}

	logger.Info("Gateway stopped")
}
