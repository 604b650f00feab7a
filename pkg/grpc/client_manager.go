package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/example/agbado/pkg/config"
	"github.com/example/agbado/pkg/discovery"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ClientManager owns the connection to the order service, which hosts both
// OrderService and CatalogService.
type ClientManager struct {
	config    *config.Config
	discovery *discovery.ServiceDiscovery
	logger    *zap.Logger

	orderClient   *OrderClient
	catalogClient *CatalogClient

	conn *grpc.ClientConn
}

// NewClientManager creates a client manager. disc may be nil.
func NewClientManager(cfg *config.Config, logger *zap.Logger, disc *discovery.ServiceDiscovery) *ClientManager {
	return &ClientManager{
		config:    cfg,
		discovery: disc,
		logger:    logger.Named("client-manager"),
	}
}

// Connect resolves the order service through etcd when available, falling
// back to localhost on the configured server port.
func (m *ClientManager) Connect(opts ...grpc.DialOption) error {
	target := m.resolve()

	m.logger.Info("Connecting to order service", zap.String("target", target))

	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return fmt.Errorf("failed to connect to order service: %w", err)
	}

	m.conn = conn
	m.orderClient = NewOrderClient(conn)
	m.catalogClient = NewCatalogClient(conn)
	return nil
}

func (m *ClientManager) resolve() string {
	target := fmt.Sprintf("localhost:%d", m.config.Server.Port)
	if m.discovery == nil {
		return target
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	instances, err := m.discovery.Discover(ctx, m.config.Server.Name)
	if err != nil || len(instances) == 0 {
		m.logger.Info("Using default address for order service", zap.String("address", target), zap.Error(err))
		return target
	}

	target = instances[0].Addr()
	m.logger.Info("Discovered order service", zap.String("address", target))
	return target
}

func (m *ClientManager) OrderClient() *OrderClient {
	return m.orderClient
}

func (m *ClientManager) CatalogClient() *CatalogClient {
	return m.catalogClient
}

func (m *ClientManager) Close() error {
	if m.conn == nil {
		return nil
	}
	if err := m.conn.Close(); err != nil {
		return fmt.Errorf("order connection close error: %w", err)
	}
	return nil
}
