package config

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment overrides. Nested keys are joined
// with a double underscore: PAGEVIEWS_SERVER__PORT sets server.port.
const EnvPrefix = "PAGEVIEWS_"

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
	StorageBolt     = "bolt"
)

// Config represents the top-level application config.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Storage  StorageConfig  `koanf:"storage"`
	Database DatabaseConfig `koanf:"database"`
	Redis    RedisConfig    `koanf:"redis"`
	Bolt     BoltConfig     `koanf:"bolt"`
	Actors   ActorsConfig   `koanf:"actors"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
	HealthPath    string `koanf:"health_path"`
	MetricsPath   string `koanf:"metrics_path"`
	TenantHeader  string `koanf:"tenant_header"` // empty: use the Host header
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug | info | warn | error
	Format string `koanf:"format"` // text | json
}

// SlogLevel parses Level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log.level %q: %w", c.Level, err)
	}
	return level, nil
}

type StorageConfig struct {
	Type           string        `koanf:"type"` // memory | postgres | redis | bolt
	ConnectRetries int           `koanf:"connect_retries"`
	ConnectBackoff time.Duration `koanf:"connect_backoff"`
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type RedisConfig struct {
	Addr        string        `koanf:"addr"`
	Password    string        `koanf:"password"`
	DB          int           `koanf:"db"`
	KeyPrefix   string        `koanf:"key_prefix"`
	DialTimeout time.Duration `koanf:"dial_timeout"`
}

type BoltConfig struct {
	Path   string `koanf:"path"`
	Bucket string `koanf:"bucket"`
}

type ActorsConfig struct {
	IdleTimeout   time.Duration `koanf:"idle_timeout"` // 0 keeps actors resident forever
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}
	if !validRoutePath(c.Server.HealthPath) {
		return fmt.Errorf("invalid server.health_path %q", c.Server.HealthPath)
	}
	if !validRoutePath(c.Server.MetricsPath) || c.Server.MetricsPath == c.Server.HealthPath {
		return fmt.Errorf("invalid server.metrics_path %q", c.Server.MetricsPath)
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q (must be text or json)", c.Log.Format)
	}

	if c.Storage.ConnectRetries <= 0 {
		return fmt.Errorf("storage.connect_retries must be > 0")
	}
	if c.Storage.ConnectBackoff <= 0 {
		return fmt.Errorf("storage.connect_backoff must be > 0")
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StoragePostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	case StorageRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return fmt.Errorf("redis.addr is required")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("redis.db must be >= 0")
		}
	case StorageBolt:
		if strings.TrimSpace(c.Bolt.Path) == "" {
			return fmt.Errorf("bolt.path is required")
		}
	default:
		return fmt.Errorf("unsupported storage.type %q", c.Storage.Type)
	}

	if c.Actors.IdleTimeout < 0 {
		return fmt.Errorf("actors.idle_timeout must be >= 0")
	}
	if c.Actors.IdleTimeout > 0 && c.Actors.SweepInterval <= 0 {
		return fmt.Errorf("actors.sweep_interval must be > 0 when actors.idle_timeout is set")
	}

	return nil
}

// validRoutePath accepts an absolute path that does not shadow the counter
// root or the batch endpoint.
func validRoutePath(p string) bool {
	return strings.HasPrefix(p, "/") && p != "/" && p != "/batch"
}

// Load parses config from defaults, an optional file and env, then validates it.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.max_body_size_mb": 1,
		"server.mode":             "release",
		"server.health_path":      "/healthz",
		"server.metrics_path":     "/metrics",
		"server.tenant_header":    "",
		"log.level":               "info",
		"log.format":              "text",
		"storage.type":            StorageMemory,
		"storage.connect_retries": 5,
		"storage.connect_backoff": "1s",
		"database.dsn":            "",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.auto_migrate":   true,
		"redis.addr":              "localhost:6379",
		"redis.db":                0,
		"redis.key_prefix":        "pageviews:",
		"redis.dial_timeout":      "5s",
		"bolt.path":               "pageviews.db",
		"bolt.bucket":             "page_views",
		"actors.idle_timeout":     "10m",
		"actors.sweep_interval":   "1m",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
