package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Etcd    EtcdConfig    `mapstructure:"etcd"`
	Redis   RedisConfig   `mapstructure:"redis"`
	MySQL   MySQLConfig   `mapstructure:"mysql"`
	MongoDB MongoDBConfig `mapstructure:"mongodb"`
	Storage StorageConfig `mapstructure:"storage"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	Audit   AuditConfig   `mapstructure:"audit"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Name          string `mapstructure:"name"`
	Port          int    `mapstructure:"port"`
	Host          string `mapstructure:"host"`
	AdvertiseHost string `mapstructure:"advertise_host"`
}

// Advertised is the host other services should dial. It falls back to Host.
func (c *ServerConfig) Advertised() string {
	if c.AdvertiseHost != "" {
		return c.AdvertiseHost
	}
	return c.Host
}

type EtcdConfig struct {
	Endpoints   []string      `mapstructure:"endpoints"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	Prefix      string        `mapstructure:"prefix"`
	LeaseTTL    int64         `mapstructure:"lease_ttl"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PoolSize int           `mapstructure:"pool_size"`
	NameTTL  time.Duration `mapstructure:"name_ttl"`
	Enabled  bool          `mapstructure:"enabled"`
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
	URI               string        `mapstructure:"uri"`
	Database          string        `mapstructure:"database"`
	OrderCollection   string        `mapstructure:"order_collection"`
	ProductCollection string        `mapstructure:"product_collection"`
	UserCollection    string        `mapstructure:"user_collection"`
	AuditCollection   string        `mapstructure:"audit_collection"`
	ConnectTimeout    time.Duration `mapstructure:"connect_timeout"`
}

// StorageConfig selects the order store: "mongo" or "memory".
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// AuditConfig selects where lifecycle events are recorded: "mongo", "mysql" or "" to disable.
type AuditConfig struct {
	Driver string `mapstructure:"driver"`
}

type GatewayConfig struct {
	Port           int           `mapstructure:"port"`
	Host           string        `mapstructure:"host"`
	OrderService   string        `mapstructure:"order_service"`
	OrderTarget    string        `mapstructure:"order_target"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
	File        string   `mapstructure:"file"`
	MaxSizeMB   int      `mapstructure:"max_size_mb"`
	MaxBackups  int      `mapstructure:"max_backups"`
	MaxAgeDays  int      `mapstructure:"max_age_days"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "order-service")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 50052)

	v.SetDefault("etcd.dial_timeout", 5)
	v.SetDefault("etcd.prefix", "/services/")
	v.SetDefault("etcd.lease_ttl", 30)

	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.name_ttl", 30*time.Minute)

	v.SetDefault("mongodb.database", "marketplace")
	v.SetDefault("mongodb.order_collection", "order")
	v.SetDefault("mongodb.product_collection", "product")
	v.SetDefault("mongodb.user_collection", "user")
	v.SetDefault("mongodb.audit_collection", "audit_log")
	v.SetDefault("mongodb.connect_timeout", 10*time.Second)

	v.SetDefault("storage.driver", "mongo")
	v.SetDefault("kafka.topic", "order-events")

	v.SetDefault("gateway.host", "0.0.0.0")
	v.SetDefault("gateway.port", 8080)
	v.SetDefault("gateway.order_service", "order-service")
	v.SetDefault("gateway.order_target", "localhost:50052")
	v.SetDefault("gateway.request_timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.output_paths", []string{"stdout"})
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)
}

func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// MARKETPLACE_MONGODB_URI overrides mongodb.uri and so on
	v.SetEnvPrefix("marketplace")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
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
