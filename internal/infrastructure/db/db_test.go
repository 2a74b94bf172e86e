package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/infrastructure/config"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Driver = config.DriverSQLite
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "data", "catalog.db")

	ctx := context.Background()
	stores, err := Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = stores.Close(ctx) })

	assert.Nil(t, stores.Idempotency)
	require.Contains(t, stores.Probes, "sqlite")
	assert.NoError(t, stores.Probes["sqlite"].Ping(ctx))

	_, err = stores.Users.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	products, err := stores.Products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Store.Driver = "postgres"

	_, err := Open(context.Background(), cfg, zerolog.Nop())
	assert.ErrorContains(t, err, "postgres")
}
