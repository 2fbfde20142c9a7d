package repository

import model "github.com/okian/courtvision/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithLimit bounds the number of records kept in memory. When the bound is
// exceeded the oldest record is dropped. limit <= 0 keeps every record.
func WithLimit(limit int) Option {
	return func(s *MemoryStore) {
		s.limit = limit
	}
}

// WithSeed preloads records, most recent first, e.g. from a persistent store.
func WithSeed(records []model.SessionRecord) Option {
	return func(s *MemoryStore) {
		s.records = make([]model.SessionRecord, 0, len(records))
		for _, r := range records {
			s.records = append(s.records, r.Clone())
		}
	}
}
