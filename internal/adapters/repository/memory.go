package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	model "github.com/okian/courtvision/internal/domain/model"
	"github.com/okian/courtvision/pkg/metrics"
)

// MemoryStore keeps history in a slice ordered most recent first.
type MemoryStore struct {
	mu      sync.RWMutex
	records []model.SessionRecord
	limit   int
}

// NewMemoryStore creates an in-memory history.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	s.trim()
	metrics.UpdateHistorySize(len(s.records))
	return s
}

// Prepend inserts rec at the head, dropping the oldest record past the limit.
func (s *MemoryStore) Prepend(ctx context.Context, rec model.SessionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, model.SessionRecord{})
	copy(s.records[1:], s.records)
	s.records[0] = rec.Clone()
	s.trim()

	metrics.UpdateHistorySize(len(s.records))
	return nil
}

// List returns a copy of the history, most recent first.
func (s *MemoryStore) List(_ context.Context) ([]model.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SessionRecord, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out, nil
}

// Get returns the record with the given id.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (model.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return model.SessionRecord{}, ErrNotFound
}

// Count returns the number of records held.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// trim must be called with s.mu held (or before the store is shared).
func (s *MemoryStore) trim() {
	if s.limit > 0 && len(s.records) > s.limit {
		clear(s.records[s.limit:])
		s.records = s.records[:s.limit]
	}
}
