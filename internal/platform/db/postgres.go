// Package db owns the shared Postgres handle. Every context's repository
// layers on the same *gorm.DB; the pool is opened once at bootstrap and
// closed on shutdown.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dialTimeout bounds the startup ping so a wrong DSN fails fast instead of
// hanging the whole bootstrap.
const dialTimeout = 5 * time.Second

// Postgres holds the process-wide connection pool.
type Postgres struct {
	DB *gorm.DB
}

// Connect opens the pool and verifies the server answers before any
// repository is built on it.
func Connect(dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve postgres sql db handle: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{DB: db}, nil
}

// Close releases the pool. Safe on a nil receiver so shutdown paths can
// call it unconditionally.
func (p *Postgres) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
