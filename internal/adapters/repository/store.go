// Package repository stores archived session records, most recent first.
package repository

import (
	"context"

	"github.com/google/uuid"
	model "github.com/okian/courtvision/internal/domain/model"
)

// Store provides read/write access to session history.
type Store interface {
	// Prepend inserts rec at the head of the history.
	Prepend(ctx context.Context, rec model.SessionRecord) error

	// List returns every record, most recent first. The returned slice is
	// owned by the caller.
	List(ctx context.Context) ([]model.SessionRecord, error)

	// Get returns one record by id or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (model.SessionRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}
