package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// applicationName tags bridge connections in pg_stat_activity unless the URL sets one
const applicationName = "xmlbridge"

// PostgresDB owns the pool behind the dispatch audit log and the migration runner
type PostgresDB struct {
	pool *pgxpool.Pool
}

// NewPostgresDB opens a pool for dbURL and fails fast when the server is unreachable
func NewPostgresDB(ctx context.Context, dbURL string) (*PostgresDB, error) {
	poolConfig, err := parsePoolConfig(dbURL)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

func parsePoolConfig(dbURL string) (*pgxpool.Config, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database URL is not set")
	}
	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if _, ok := poolConfig.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	return poolConfig, nil
}

// Close releases every pooled connection
func (db *PostgresDB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// GetPool exposes the pool to repositories
func (db *PostgresDB) GetPool() *pgxpool.Pool {
	return db.pool
}

// ExecuteTransaction runs fn in one transaction. It commits when fn returns nil
// and rolls back otherwise; a migration and its bookkeeping row land together.
func (db *PostgresDB) ExecuteTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	if err := pgx.BeginTxFunc(ctx, db.pool, pgx.TxOptions{}, fn); err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
