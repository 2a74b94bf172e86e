package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	APIPrefix       string        `env:"API_PREFIX"`
	StaticDir       string        `env:"STATIC_DIR"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Auth  AuthConfig
	Store StoreConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret            string `env:"JWT_SECRET, required"`
	BcryptCost           int    `env:"BCRYPT_COST,            default=10"`
	UnifyFailures        bool   `env:"AUTH_UNIFY_FAILURES,    default=false"`
	PublicProductListing bool   `env:"PUBLIC_PRODUCT_LISTING, default=false"`
}

type StoreConfig struct {
	Driver     string `env:"STORE_DRIVER, default=sqlite"`
	SQLitePath string `env:"SQLITE_PATH,  default=catalog.db"`

	Mongo MongoConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=catalog"`
}

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED, default=false"`
	Addr     string `env:"REDIS_ADDR,    default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,      default=0"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	switch c.Store.Driver {
	case DriverSQLite, DriverMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}
