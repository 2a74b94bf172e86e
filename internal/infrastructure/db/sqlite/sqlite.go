// Package sqlite is the relational credential and product store, built on
// gorm with the sqlite driver.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultTimeout = 5 * time.Second

// Config holds the sqlite settings.
type Config struct {
	Path string
	// Debug routes gorm's SQL log to stdout.
	Debug bool
}

// Open creates the database file (and its directory) if needed and returns a
// gorm handle with error translation enabled.
func Open(cfg Config) (*gorm.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, fs.ModePerm); err != nil {
			return nil, fmt.Errorf("sqlite dir: %w", err)
		}
	}

	gormLogger := logger.Discard
	if cfg.Debug {
		gormLogger = logger.Default
	}

	dsn := cfg.Path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the users and products tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userRecord{}, &productRecord{}); err != nil {
		return fmt.Errorf("sqlite migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Pinger reports database reachability for readiness probes.
type Pinger struct {
	db *gorm.DB
}

func NewPinger(db *gorm.DB) *Pinger {
	return &Pinger{db: db}
}

func (p *Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// parseID converts an external id into a primary key. ok is false for ids
// that cannot exist in this store.
func parseID(id string) (uint, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
