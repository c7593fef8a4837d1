package repository

import (
	"context"

	"github.com/johnlatif16/Story-stories/internal/db/models"
)

// StoryRepository exposes persistence operations for the durable story tier.
//
// Two implementations exist with deliberately different failure contracts:
// the file-backed snapshot store is fail-soft (reads of a missing or corrupt
// snapshot yield an empty list, and callers are expected to absorb write
// failures), while the database-backed store surfaces every failure because
// the database is assumed reliable. FailSoft tells the service layer which
// contract it is holding.
type StoryRepository interface {
	// List returns persisted stories ordered newest first, capped at limit.
	List(ctx context.Context, limit int) ([]models.Story, error)
	// Insert adds a story to the durable tier.
	Insert(ctx context.Context, story *models.Story) error
	// Delete removes a story by id, reporting how many records were removed.
	Delete(ctx context.Context, id string) (int, error)
	// FailSoft reports whether write failures should be absorbed by callers.
	FailSoft() bool
}
