package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDispatchLogRepository implements DispatchLogRepository using PostgreSQL
type PostgresDispatchLogRepository struct {
	db *pgxpool.Pool
}

// NewPostgresDispatchLogRepository creates a new PostgreSQL dispatch log repository
func NewPostgresDispatchLogRepository(db *pgxpool.Pool) *PostgresDispatchLogRepository {
	return &PostgresDispatchLogRepository{db: db}
}

// Record appends a dispatch outcome
func (r *PostgresDispatchLogRepository) Record(ctx context.Context, rec *DispatchRecord) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO dispatch_log (session_id, document_type, ref, group_type, entry_count, success, status_code, error, actor, dispatched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, rec.SessionID, rec.DocumentType, rec.Ref, rec.GroupType, rec.EntryCount, rec.Success,
		rec.StatusCode, rec.Error, rec.Actor, rec.DispatchedAt).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("failed to insert dispatch record: %w", err)
	}
	return nil
}

// ListBySession returns the dispatch outcomes of a session, oldest first
func (r *PostgresDispatchLogRepository) ListBySession(ctx context.Context, sessionID string) ([]DispatchRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, session_id, document_type, ref, group_type, entry_count, success, status_code, error, actor, dispatched_at
		FROM dispatch_log
		WHERE session_id = $1
		ORDER BY dispatched_at, id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dispatch records: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (DispatchRecord, error) {
		var rec DispatchRecord
		err := row.Scan(&rec.ID, &rec.SessionID, &rec.DocumentType, &rec.Ref, &rec.GroupType, &rec.EntryCount,
			&rec.Success, &rec.StatusCode, &rec.Error, &rec.Actor, &rec.DispatchedAt)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan dispatch records: %w", err)
	}
	return records, nil
}
