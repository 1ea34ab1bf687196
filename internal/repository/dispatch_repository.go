package repository

import (
	"context"
	"time"
)

// DispatchRecord is one audit row per dispatch attempt
type DispatchRecord struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"sessionId"`
	DocumentType string    `json:"documentType"`
	Ref          string    `json:"ref,omitempty"`
	GroupType    string    `json:"groupType,omitempty"`
	EntryCount   int       `json:"entryCount"`
	Success      bool      `json:"success"`
	StatusCode   int       `json:"statusCode,omitempty"`
	Error        string    `json:"error,omitempty"`
	Actor        string    `json:"actor,omitempty"`
	DispatchedAt time.Time `json:"dispatchedAt"`
}

// DispatchLogRepository appends and lists dispatch outcomes
type DispatchLogRepository interface {
	Record(ctx context.Context, rec *DispatchRecord) error
	ListBySession(ctx context.Context, sessionID string) ([]DispatchRecord, error)
}

// NoopDispatchLogRepository is used when no database is configured
type NoopDispatchLogRepository struct{}

func (NoopDispatchLogRepository) Record(_ context.Context, _ *DispatchRecord) error {
	return nil
}

func (NoopDispatchLogRepository) ListBySession(_ context.Context, _ string) ([]DispatchRecord, error) {
	return []DispatchRecord{}, nil
}
