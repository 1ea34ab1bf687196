package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

const migrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	name       TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migration is one SQL file of the migrations directory
type Migration struct {
	Name string
	SQL  string
}

// LoadMigrations reads every *.sql file in dir, ordered by file name
func LoadMigrations(dir string) ([]Migration, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(files)

	migrations := make([]Migration, 0, len(files))
	for _, f := range files {
		raw, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", f, err)
		}
		if strings.TrimSpace(string(raw)) == "" {
			continue
		}
		migrations = append(migrations, Migration{Name: filepath.Base(f), SQL: string(raw)})
	}
	return migrations, nil
}

// Migrate applies every migration not yet recorded in schema_migrations. Each
// migration runs in its own transaction together with its bookkeeping row.
func (db *PostgresDB) Migrate(ctx context.Context, migrations []Migration, logger *logrus.Logger) (int, error) {
	if _, err := db.pool.Exec(ctx, migrationsTable); err != nil {
		return 0, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		var name string
		err := db.pool.QueryRow(ctx, `SELECT name FROM schema_migrations WHERE name = $1`, m.Name).Scan(&name)
		if err == nil {
			logger.WithField("migration", m.Name).Debug("migration already applied")
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return applied, fmt.Errorf("failed to check migration %s: %w", m.Name, err)
		}

		err = db.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("failed to apply migration %s: %w", m.Name, err)
		}
		logger.WithField("migration", m.Name).Info("migration applied")
		applied++
	}
	return applied, nil
}
