package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/erpbridge/xml-erp-bridge/internal/domain"
)

// Record is the stored form of a session
type Record struct {
	CreatedAt time.Time
	Data      []byte
}

// Backend is the key-value storage behind a Store. Implementations must make
// Put atomic: a concurrent Get sees either the whole record or nothing.
type Backend interface {
	Put(ctx context.Context, id string, rec Record, ttl time.Duration) error
	Get(ctx context.Context, id string) (Record, bool, error)
	// Evict removes id only if it still holds the record created at createdAt
	Evict(ctx context.Context, id string, createdAt time.Time) error
	Delete(ctx context.Context, id string) error
	// Scan calls fn for every stored id
	Scan(ctx context.Context, fn func(id string, createdAt time.Time) error) error
}

// Store owns scan sessions. Sessions are written once, never updated, and
// expire a fixed TTL after creation regardless of reads.
type Store struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time
	newID   func(time.Time) string
	logger  *logrus.Logger
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the session id generator
func WithIDGenerator(gen func(time.Time) string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger used by the sweeper
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// NewStore creates a store over backend
func NewStore(backend Backend, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		ttl:     ttl,
		now:     time.Now,
		newID:   NewID,
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns "<unix millis>-<random hex>"
func NewID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}

// TTL returns the configured time-to-live
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create stores an immutable snapshot of data and returns its id
func (s *Store) Create(ctx context.Context, data Data) (string, error) {
	now := s.now()
	id := s.newID(now)
	payload, err := json.Marshal(Session{ID: id, CreatedAt: now, Data: data})
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.backend.Put(ctx, id, Record{CreatedAt: now, Data: payload}, s.ttl); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return id, nil
}

// Get returns the session or domain.ErrSessionNotFound when it never existed
// or is older than the TTL. Expired sessions are evicted on the spot.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	rec, ok, err := s.backend.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	if s.expired(rec.CreatedAt) {
		if err := s.backend.Evict(ctx, id, rec.CreatedAt); err != nil {
			s.logger.WithError(err).WithField("session_id", id).Warn("failed to evict expired session")
		}
		return nil, domain.ErrSessionNotFound
	}

	var sess Session
	if err := json.Unmarshal(rec.Data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Delete removes a session ahead of its expiry
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.backend.Delete(ctx, id)
}

// Sweep evicts every expired session and returns how many were removed
func (s *Store) Sweep(ctx context.Context) (int, error) {
	type candidate struct {
		id        string
		createdAt time.Time
	}
	var expired []candidate
	err := s.backend.Scan(ctx, func(id string, createdAt time.Time) error {
		if s.expired(createdAt) {
			expired = append(expired, candidate{id: id, createdAt: createdAt})
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to scan sessions: %w", err)
	}

	removed := 0
	for _, c := range expired {
		if err := s.backend.Evict(ctx, c.id, c.createdAt); err != nil {
			return removed, fmt.Errorf("failed to evict session %s: %w", c.id, err)
		}
		removed++
	}
	return removed, nil
}

// Run sweeps every interval until ctx is done
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				s.logger.WithError(err).Error("session sweep failed")
				continue
			}
			if n > 0 {
				s.logger.WithField("evicted", n).Debug("session sweep")
			}
		}
	}
}

func (s *Store) expired(createdAt time.Time) bool {
	return s.now().Sub(createdAt) > s.ttl
}
