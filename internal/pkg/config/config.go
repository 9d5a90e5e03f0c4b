package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"

	defaultJWTSecret = "change-me"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// StoreBackend selects the storage implementation: mongo or memory.
	StoreBackend string `env:"STORE_BACKEND, default=mongo"`
	// NotifyWorkers is the number of publication fan-out workers.
	NotifyWorkers int `env:"NOTIFY_WORKERS, default=4"`

	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	JWTSecret    string        `env:"JWT_SECRET,    default=change-me"`
	TTL          time.Duration `env:"SESSION_TTL,   default=24h"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=blog"`
}

type RedisConfig struct {
	// URL overrides Addr, Password and DB when set.
	URL      string `env:"REDIS_URL"`
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("config: STORE_BACKEND must be %q or %q, got %q", BackendMongo, BackendMemory, c.StoreBackend)
	}
	if c.Session.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.IsProduction() && c.Session.JWTSecret == defaultJWTSecret {
		return errors.New("config: JWT_SECRET must be set in production")
	}
	if c.Session.TTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	return nil
}
