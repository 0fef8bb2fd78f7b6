// Package config loads process configuration from a YAML file and
// LEXCORE_-prefixed environment variables, adapted from the teacher's
// internal/config/config.go viper wiring.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Store         StoreConfig         `mapstructure:"store"`
	Queue         QueueConfig         `mapstructure:"queue"`
	Worker        WorkerConfig        `mapstructure:"worker"`
	Ingestion     IngestionConfig     `mapstructure:"ingestion"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Auth          AuthConfig          `mapstructure:"auth"`
	Cache         CacheConfig         `mapstructure:"cache"`
}

// ServerConfig holds the HTTP transport's listener configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects and configures the Backend implementation.
type StoreConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres, mongodb
	SQLitePath      string        `mapstructure:"sqlite_path"`
	PostgresDSN     string        `mapstructure:"postgres_dsn"`
	MongoURI        string        `mapstructure:"mongo_uri"`
	MongoDatabase   string        `mapstructure:"mongo_database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// QueueConfig selects the ingestion job queue backend.
type QueueConfig struct {
	Driver     string        `mapstructure:"driver"` // memory, nats, redis
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

// WorkerConfig sizes the ingestion worker pool.
type WorkerConfig struct {
	Count         int           `mapstructure:"count"`
	JobTimeout    time.Duration `mapstructure:"job_timeout"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
}

// IngestionConfig locates the out-of-core ingestion subprocess and its
// dry-run preview snapshot.
type IngestionConfig struct {
	Command         string        `mapstructure:"command"`
	PreviewSnapshot string        `mapstructure:"preview_snapshot"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	WorkerCount     int           `mapstructure:"worker_count"`
}

// ObservabilityConfig holds logging and metrics configuration.
type ObservabilityConfig struct {
	LogLevel       string `mapstructure:"log_level"`
	LogFormat      string `mapstructure:"log_format"` // json, text
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
	MetricsPort    int    `mapstructure:"metrics_port"`
}

// AuthConfig configures the HTTP transport's JWT and rate-limit policy.
type AuthConfig struct {
	JWTEnabled      bool          `mapstructure:"jwt_enabled"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	JWTExpiration   time.Duration `mapstructure:"jwt_expiration"`
	RateLimitPerMin int           `mapstructure:"rate_limit_per_min"`
}

// CacheConfig optionally configures a shared cache for Store search
// memoization. Disabled (Driver empty) leaves the Store's per-process
// sync.Once caching as the only caching in effect.
type CacheConfig struct {
	Driver string        `mapstructure:"driver"` // "", memory, redis
	TTL    time.Duration `mapstructure:"ttl"`
}

// Load reads configuration from configPath (or ./configs/config.yaml,
// ./config.yaml when empty), overlays LEXCORE_-prefixed environment
// variables, and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LEXCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "lexcore.db")
	v.SetDefault("store.max_open_conns", 25)
	v.SetDefault("store.max_idle_conns", 5)
	v.SetDefault("store.conn_max_lifetime", "5m")

	v.SetDefault("queue.driver", "memory")
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.retry_delay", "5s")

	v.SetDefault("worker.count", 4)
	v.SetDefault("worker.job_timeout", "5m")
	v.SetDefault("worker.shutdown_grace", "30s")

	v.SetDefault("ingestion.command", "")
	v.SetDefault("ingestion.preview_snapshot", "./ingestion-snapshots/preview.html")
	v.SetDefault("ingestion.request_timeout", "2m")
	v.SetDefault("ingestion.worker_count", 2)

	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "json")
	v.SetDefault("observability.metrics_enabled", true)
	v.SetDefault("observability.metrics_port", 9091)

	v.SetDefault("auth.jwt_enabled", false)
	v.SetDefault("auth.jwt_expiration", "24h")
	v.SetDefault("auth.rate_limit_per_min", 100)

	v.SetDefault("cache.driver", "")
	v.SetDefault("cache.ttl", "5m")
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}

	validDrivers := map[string]bool{"sqlite": true, "postgres": true, "mongodb": true}
	if !validDrivers[cfg.Store.Driver] {
		return fmt.Errorf("invalid store driver: %s", cfg.Store.Driver)
	}

	validQueueDrivers := map[string]bool{"memory": true, "nats": true, "redis": true}
	if !validQueueDrivers[cfg.Queue.Driver] {
		return fmt.Errorf("invalid queue driver: %s", cfg.Queue.Driver)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "fatal": true}
	if !validLogLevels[cfg.Observability.LogLevel] {
		return fmt.Errorf("invalid log level: %s", cfg.Observability.LogLevel)
	}

	return nil
}
