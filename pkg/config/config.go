package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/example/agbado/pkg/models"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Gateway     GatewayConfig     `mapstructure:"gateway"`
	Store       StoreConfig       `mapstructure:"store"`
	Marketplace MarketplaceConfig `mapstructure:"marketplace"`
	Etcd        EtcdConfig        `mapstructure:"etcd"`
	Redis       RedisConfig       `mapstructure:"redis"`
	MySQL       MySQLConfig       `mapstructure:"mysql"`
	MongoDB     MongoDBConfig     `mapstructure:"mongodb"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig is the gRPC listener of the order service.
type ServerConfig struct {
	Name string `mapstructure:"name"`
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// GatewayConfig is the HTTP listener. With RemoteOrders the catalog and
// checkout endpoints are served by the order service over gRPC.
type GatewayConfig struct {
	Name           string   `mapstructure:"name"`
	Port           int      `mapstructure:"port"`
	Host           string   `mapstructure:"host"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RemoteOrders   bool     `mapstructure:"remote_orders"`
}

// StoreConfig selects the storage engine: "memory" or "mysql".
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Seed   bool   `mapstructure:"seed"`
}

type MarketplaceConfig struct {
	DemoUserID      string `mapstructure:"demo_user_id"`
	SearchMinLength int    `mapstructure:"search_min_length"`
	ShippingFee     int    `mapstructure:"shipping_fee"`
}

type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Prefix      string        `mapstructure:"prefix"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PoolSize int           `mapstructure:"pool_size"`
	CartTTL  time.Duration `mapstructure:"cart_ttl"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type MongoDBConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "order-service")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50052)
	v.SetDefault("gateway.name", "gateway")
	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8080)
	v.SetDefault("gateway.allowed_origins", []string{"*"})
	v.SetDefault("gateway.remote_orders", false)
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.seed", true)
	v.SetDefault("marketplace.demo_user_id", models.DemoUserID)
	v.SetDefault("marketplace.search_min_length", 3)
	v.SetDefault("marketplace.shipping_fee", 2000)
	v.SetDefault("etcd.endpoints", []string{})
	v.SetDefault("etcd.dial_timeout", 5)
	v.SetDefault("etcd.prefix", "/agbado/services/")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.cart_ttl", 15*time.Minute)
	v.SetDefault("mysql.host", "localhost")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.username", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.database", "agbado")
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.max_open_conns", 100)
	v.SetDefault("mongodb.uri", "")
	v.SetDefault("mongodb.database", "agbado")
	v.SetDefault("mongodb.collection", "audit_logs")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
}

// Load reads the yaml file at configPath. Every key can be overridden by an
// AGBADO_ prefixed environment variable, e.g. AGBADO_STORE_DRIVER. A missing
// file is tolerated; defaults then describe an in-memory gateway.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("AGBADO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// Build returns a zap logger honouring level, encoding and output paths.
func (c LogConfig) Build() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()

	if c.Level != "" {
		level, err := zap.ParseAtomicLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
		zc.Level = level
	}
	if c.Encoding != "" {
		zc.Encoding = c.Encoding
	}
	if len(c.OutputPaths) > 0 {
		zc.OutputPaths = c.OutputPaths
	}

	return zc.Build()
}
