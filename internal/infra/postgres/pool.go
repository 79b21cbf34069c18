package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PoolConfig struct {
	MaxConns        int32
	MaxConnLifetime time.Duration
}

func NewPool(ctx context.Context, dsn string, cfg PoolConfig) (*pgxpool.Pool, error) {
	// Parse pool configuration for PostgreSQL connection.
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns // set maximum number of connections in pool
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime

	// Initialize connection pool for PostgreSQL.
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the library tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS memory_items (
			id          TEXT PRIMARY KEY,
			key         TEXT NOT NULL,
			pairs       TEXT[] NOT NULL,
			image_url   TEXT NOT NULL DEFAULT '',
			is_active   BOOLEAN NOT NULL DEFAULT TRUE,
			category_id TEXT REFERENCES categories (id) ON DELETE CASCADE,
			kind        TEXT NOT NULL DEFAULT '',
			correct     INT NOT NULL DEFAULT 0,
			incorrect   INT NOT NULL DEFAULT 0,
			created_at  TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			id             INT PRIMARY KEY CHECK (id = 1),
			max_questions  INT NOT NULL,
			question_style TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
