package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hailstack/hailstack/internal/config"
	"github.com/hailstack/hailstack/internal/model"
)

// Pool bounds. Five connections is plenty for single-purpose CLI tools
// and keeps a stack of workers well under Postgres's default limit.
const (
	poolMinConns = 1
	poolMaxConns = 5
)

// Store wraps a pgx connection pool with the queries the CLI needs.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a bounded connection pool against the configured database
// and verifies it with a ping.
func Connect(ctx context.Context, db config.DB) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(db.DSN())
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "invalid database configuration", err)
	}
	cfg.MinConns = poolMinConns
	cfg.MaxConns = poolMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitDatabaseError, "failed to create connection pool", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, model.WrapCLIError(model.ExitDatabaseError,
			fmt.Sprintf("database unreachable at %s:%s", db.Host, db.Port), err)
	}

	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping verifies database connectivity, for `db status`.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return model.WrapCLIError(model.ExitDatabaseError, "database ping failed", err)
	}
	return nil
}
