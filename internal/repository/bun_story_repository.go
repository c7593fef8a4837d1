package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/johnlatif16/Story-stories/internal/db/models"
)

// BunStoryRepository persists stories using Bun ORM against PostgreSQL or
// SQLite. Unlike the file-backed tier, failures here indicate a real outage
// and propagate to the caller.
type BunStoryRepository struct {
	db *bun.DB
}

// NewBunStoryRepository constructs a repository backed by Bun.
func NewBunStoryRepository(db *bun.DB) *BunStoryRepository {
	return &BunStoryRepository{db: db}
}

// FailSoft marks the database tier as authoritative: errors surface.
func (r *BunStoryRepository) FailSoft() bool { return false }

// EnsureSchema creates the stories table when it does not exist yet.
func (r *BunStoryRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.Story)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create stories table: %w", err)
	}
	return nil
}

// Insert adds a new story row.
func (r *BunStoryRepository) Insert(ctx context.Context, story *models.Story) error {
	if err := story.ValidateForCreate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if story.CreatedAt.IsZero() {
		story.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.NewInsert().Model(story).Exec(ctx); err != nil {
		return fmt.Errorf("insert story: %w", err)
	}
	return nil
}

// List returns stories ordered from newest to oldest, capped at limit.
func (r *BunStoryRepository) List(ctx context.Context, limit int) ([]models.Story, error) {
	var stories []models.Story
	q := r.db.NewSelect().Model(&stories).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}

	if stories == nil {
		stories = []models.Story{}
	}
	return stories, nil
}

// Delete removes a story by id and reports the number of rows removed.
func (r *BunStoryRepository) Delete(ctx context.Context, id string) (int, error) {
	result, err := r.db.NewDelete().
		Model((*models.Story)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete story: %w", err)
	}

	rows, _ := result.RowsAffected()
	return int(rows), nil
}
