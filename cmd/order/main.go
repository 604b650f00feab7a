package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

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
		configPath = "config/order-config.yaml"
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

	logger.Info("Starting order service",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, &cfg.Store, &cfg.MySQL)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer st.Close()

	opts, closeRepos := repository.ServiceOptions(ctx, cfg, cfg.Server.Name, logger)
	defer closeRepos()

	notifier, err := notify.NewNotifier(logger, 0)
	if err != nil {
		logger.Fatal("Failed to start notifier", zap.Error(err))
	}
	defer notifier.Close()
	opts = append(opts, marketplace.WithNotifier(notifier))

	svc := marketplace.NewService(st, logger, opts...)
	defer svc.Close()
	server := grpc.NewServer(svc, logger)

	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: advertiseHost(cfg.Server.Host),
		Port: cfg.Server.Port,
	}

	var sd *discovery.ServiceDiscovery
	if len(cfg.Etcd.Endpoints) > 0 {
		sd, err = discovery.NewServiceDiscovery(&cfg.Etcd, logger)
		if err != nil {
			logger.Fatal("Failed to connect to etcd", zap.Error(err))
		}
		defer sd.Close()

		if err := sd.Register(ctx, instance); err != nil {
			logger.Fatal("Failed to register service", zap.Error(err))
		}
		logger.Info("Service registered in etcd",
			zap.String("name", instance.Name),
			zap.String("address", instance.Addr()))
	}

	serverErr := make(chan error, 1)
	go func() {
		addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
		if err := server.Start(addr); err != nil {
			serverErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Error("Server error", zap.Error(err))
	}

	if sd != nil {
		if err := sd.Deregister(context.Background(), instance); err != nil {
			logger.Error("Failed to deregister service", zap.Error(err))
		}
	}
	server.GracefulStop()

	logger.Info("Service stopped")
}

// advertiseHost replaces a wildcard listen address with the hostname so the
// registration is dialable.
func advertiseHost(host string) string {
	if host != "" && host != "0.0.0.0" && host != "::" {
		return host
	}
	if name, err := os.Hostname(); err == nil {
		return name
	}
	return "localhost"
}
