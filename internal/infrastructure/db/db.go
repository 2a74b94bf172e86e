// Package db opens the configured backing stores and hands them out behind
// the core ports.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/ports"
	"github.com/99minutos/catalog-api/internal/infrastructure/config"
	mongostore "github.com/99minutos/catalog-api/internal/infrastructure/db/mongo"
	redisstore "github.com/99minutos/catalog-api/internal/infrastructure/db/redis"
	"github.com/99minutos/catalog-api/internal/infrastructure/db/sqlite"
)

// Stores groups the repositories selected by configuration.
type Stores struct {
	Users    ports.UserRepository
	Products ports.ProductRepository
	// Idempotency is nil when Redis is disabled.
	Idempotency ports.IdempotencyStore
	// Probes are keyed by dependency name for the readiness endpoint.
	Probes map[string]ports.Pinger

	closers []func(context.Context) error
}

// Open connects the store selected by cfg.Store.Driver, creates its schema,
// and connects Redis when enabled.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	s := &Stores{Probes: make(map[string]ports.Pinger)}

	var err error
	switch cfg.Store.Driver {
	case config.DriverSQLite:
		err = s.openSQLite(cfg.Store.SQLitePath, cfg.LogLevel == "trace")
	case config.DriverMongo:
		err = s.openMongo(ctx, cfg.Store.Mongo)
	default:
		err = fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	log.Info().Str("driver", cfg.Store.Driver).Msg("store ready")

	if cfg.Redis.Enabled {
		if err := s.openRedis(ctx, cfg.Redis); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	return s, nil
}

func (s *Stores) openSQLite(path string, debug bool) error {
	gdb, err := sqlite.Open(sqlite.Config{Path: path, Debug: debug})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, func(context.Context) error { return sqlite.Close(gdb) })

	if err := sqlite.Migrate(gdb); err != nil {
		return err
	}

	s.Users = sqlite.NewUserRepository(gdb)
	s.Products = sqlite.NewProductRepository(gdb)
	s.Probes[config.DriverSQLite] = sqlite.NewPinger(gdb)
	return nil
}

func (s *Stores) openMongo(ctx context.Context, cfg config.MongoConfig) error {
	client, mdb, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.URI, Database: cfg.Database})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, client.Disconnect)

	if err := mongostore.Migrate(ctx, mdb); err != nil {
		return err
	}

	s.Users = mongostore.NewUserRepository(mdb)
	s.Products = mongostore.NewProductRepository(mdb)
	s.Probes[config.DriverMongo] = mongostore.NewPinger(mdb)
	return nil
}

func (s *Stores) openRedis(ctx context.Context, cfg config.RedisConfig) error {
	client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, func(context.Context) error { return client.Close() })

	s.Idempotency = redisstore.NewIdempotencyStore(client)
	s.Probes["redis"] = redisstore.NewPinger(client)
	return nil
}

// Close releases every opened connection, newest first.
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
