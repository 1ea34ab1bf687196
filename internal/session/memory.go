package session

import (
	"context"
	"sync"
	"time"
)

// MemoryBackend keeps sessions in process memory
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]Record)}
}

func (b *MemoryBackend) Put(_ context.Context, id string, rec Record, _ time.Duration) error {
	data := make([]byte, len(rec.Data))
	copy(data, rec.Data)

	b.mu.Lock()
	b.records[id] = Record{CreatedAt: rec.CreatedAt, Data: data}
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Get(_ context.Context, id string) (Record, bool, error) {
	b.mu.RLock()
	rec, ok := b.records[id]
	b.mu.RUnlock()
	return rec, ok, nil
}

func (b *MemoryBackend) Evict(_ context.Context, id string, createdAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if rec, ok := b.records[id]; ok && rec.CreatedAt.Equal(createdAt) {
		delete(b.records, id)
	}
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	delete(b.records, id)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Scan(ctx context.Context, fn func(id string, createdAt time.Time) error) error {
	b.mu.RLock()
	snapshot := make(map[string]time.Time, len(b.records))
	for id, rec := range b.records {
		snapshot[id] = rec.CreatedAt
	}
	b.mu.RUnlock()

	for id, createdAt := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(id, createdAt); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of stored sessions, expired or not
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.records)
}
