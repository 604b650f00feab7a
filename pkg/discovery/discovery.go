package discovery

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/example/agbado/pkg/config"
	"go.uber.org/zap"
	clientv3 "go.etcd.io/etcd/client/v3"
)

const leaseTTL = 30

// ServiceDiscovery registers services under Prefix/<name>/<host:port> with a
// kept-alive lease, so a crashed instance disappears after leaseTTL seconds.
type ServiceDiscovery struct {
	client *clientv3.Client
	prefix string
	logger *zap.Logger

	mu     sync.Mutex
	leases map[string]clientv3.LeaseID
}

type ServiceInstance struct {
	Name string
	Host string
	Port int
}

func (i *ServiceInstance) Addr() string {
	return net.JoinHostPort(i.Host, strconv.Itoa(i.Port))
}

func NewServiceDiscovery(cfg *config.EtcdConfig, logger *zap.Logger) (*ServiceDiscovery, error) {
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: cfg.DialTimeout * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	return New(cli, cfg.Prefix, logger), nil
}

// New wraps an existing etcd client.
func New(cli *clientv3.Client, prefix string, logger *zap.Logger) *ServiceDiscovery {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceDiscovery{
		client: cli,
		prefix: prefix,
		logger: logger.Named("discovery"),
		leases: make(map[string]clientv3.LeaseID),
	}
}

func (sd *ServiceDiscovery) servicePrefix(name string) string {
	return fmt.Sprintf("%s%s/", sd.prefix, name)
}

func (sd *ServiceDiscovery) instanceKey(instance *ServiceInstance) string {
	return sd.servicePrefix(instance.Name) + instance.Addr()
}

// Register keeps the instance alive until ctx is cancelled or Deregister is
// called.
func (sd *ServiceDiscovery) Register(ctx context.Context, instance *ServiceInstance) error {
	key := sd.instanceKey(instance)

	lease, err := sd.client.Grant(ctx, leaseTTL)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}

	if _, err := sd.client.Put(ctx, key, instance.Addr(), clientv3.WithLease(lease.ID)); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	ch, err := sd.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return fmt.Errorf("failed to keep alive: %w", err)
	}

	sd.mu.Lock()
	sd.leases[key] = lease.ID
	sd.mu.Unlock()

	go func() {
		for range ch {
		}
		sd.logger.Info("Lease keep-alive ended", zap.String("key", key))
	}()

	sd.logger.Info("Service registered", zap.String("key", key))
	return nil
}

func (sd *ServiceDiscovery) Discover(ctx context.Context, serviceName string) ([]*ServiceInstance, error) {
	resp, err := sd.client.Get(ctx, sd.servicePrefix(serviceName), clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to discover service: %w", err)
	}

	instances := make([]*ServiceInstance, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		instance, err := ParseInstance(serviceName, string(kv.Value))
		if err != nil {
			sd.logger.Warn("Skipping malformed registration",
				zap.String("key", string(kv.Key)), zap.Error(err))
			continue
		}
		instances = append(instances, instance)
	}

	return instances, nil
}

// ParseInstance reads a host:port registration value.
func ParseInstance(name, addr string) (*ServiceInstance, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port in %q", addr)
	}
	return &ServiceInstance{Name: name, Host: host, Port: port}, nil
}

// Deregister deletes the key and revokes its lease, which also stops the
// keep-alive.
func (sd *ServiceDiscovery) Deregister(ctx context.Context, instance *ServiceInstance) error {
	key := sd.instanceKey(instance)
	if _, err := sd.client.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}

	sd.mu.Lock()
	id, ok := sd.leases[key]
	delete(sd.leases, key)
	sd.mu.Unlock()

	if ok {
		if _, err := sd.client.Revoke(ctx, id); err != nil {
			return fmt.Errorf("failed to revoke lease: %w", err)
		}
	}
	return nil
}

func (sd *ServiceDiscovery) Close() error {
	return sd.client.Close()
}
