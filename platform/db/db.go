// Package db provides database connection infrastructure.
// This is part of the platform layer and contains no business logic.
package db

import (
	"context"
	"time"

	"naybourhood_backend/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions tunes the pool for the calling process.
type PoolOptions struct {
	MaxConns int32
	MinConns int32
}

// APIPoolOptions is sized for the HTTP API.
var APIPoolOptions = PoolOptions{MaxConns: 25, MinConns: 5}

// WorkerPoolOptions is sized for the scheduler and CLI batch jobs.
var WorkerPoolOptions = PoolOptions{MaxConns: 10, MinConns: 1}

// NewPool creates a new database connection pool with production-ready settings.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, opts PoolOptions) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.GetDatabaseURL())
	if err != nil {
		return nil, err
	}

	if opts.MaxConns > 0 {
		poolConfig.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 && opts.MinConns <= poolConfig.MaxConns {
		poolConfig.MinConns = opts.MinConns
	}
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
