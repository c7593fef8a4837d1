package stories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johnlatif16/Story-stories/internal/blob"
	"github.com/johnlatif16/Story-stories/internal/db/models"
	"github.com/johnlatif16/Story-stories/internal/repository"
)

// DefaultListLimit caps the public listing.
const DefaultListLimit = 200

// ErrTitleRequired is returned when the required title is empty after trimming.
var ErrTitleRequired = errors.New("title is required")

// PersistState reports which tiers hold a newly created story.
type PersistState int

const (
	// Persisted means the durable tier accepted the write.
	Persisted PersistState = iota
	// CachedOnly means the durable write failed and was absorbed; the story
	// lives in the cache until the process restarts.
	CachedOnly
)

// String renders the state for log output.
func (s PersistState) String() string {
	if s == CachedOnly {
		return "cached-only"
	}
	return "persisted"
}

// CreateInput carries the validated fields of a new story.
type CreateInput struct {
	Title    string
	Body     string
	Source   string
	ImageURL string
}

// Service orchestrates story reads and writes across the cache and durable
// tiers. Reads go through the merge view; writes hit the cache first and the
// durable store second.
type Service struct {
	repo      repository.StoryRepository
	cache     *Cache
	assets    blob.Store
	listLimit int
	now       func() time.Time
	newID     func() string
}

// NewService constructs a Service over the given tiers.
func NewService(repo repository.StoryRepository, cache *Cache) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		listLimit: DefaultListLimit,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// WithAssetStore adds the blob store used for image cleanup on delete
// (optional dependency).
func (s *Service) WithAssetStore(assets blob.Store) *Service {
	s.assets = assets
	return s
}

// WithListLimit overrides the listing cap.
func (s *Service) WithListLimit(limit int) *Service {
	s.listLimit = limit
	return s
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates the input, assigns id and timestamp, and writes the story
// to the cache tier first, then the durable tier. A fail-soft durable write
// failure is logged and absorbed, leaving the story CachedOnly; a failure of
// the authoritative database tier aborts the create.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Story, PersistState, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, CachedOnly, ErrTitleRequired
	}

	story := models.Story{
		ID:        s.newID(),
		Title:     title,
		Body:      input.Body,
		Source:    input.Source,
		ImageURL:  input.ImageURL,
		CreatedAt: s.now().UTC(),
	}

	s.cache.InsertFront(story)

	if err := s.repo.Insert(ctx, &story); err != nil {
		if !s.repo.FailSoft() {
			s.cache.Remove(story.ID)
			return nil, CachedOnly, fmt.Errorf("persist story: %w", err)
		}
		log.Printf("WARNING: durable write failed, story %s is cached-only: %v", story.ID, err)
		return &story, CachedOnly, nil
	}

	return &story, Persisted, nil
}

// List returns the merged, deduplicated, newest-first view over both tiers,
// capped at the configured limit. A fail-soft durable read failure degrades
// to the cache tier alone.
func (s *Service) List(ctx context.Context) ([]models.Story, error) {
	durable, err := s.repo.List(ctx, s.listLimit)
	if err != nil {
		if !s.repo.FailSoft() {
			return nil, fmt.Errorf("list stories: %w", err)
		}
		log.Printf("WARNING: durable read failed, serving cache only: %v", err)
		durable = nil
	}

	return mergeStories(s.cache.Snapshot(), durable, s.listLimit), nil
}

// Delete removes the story from both tiers, returning how many stories were
// removed (1 when either tier held the id, 0 otherwise). When the removed
// story referenced a locally stored image, the file is deleted best-effort.
func (s *Service) Delete(ctx context.Context, id string) (int, error) {
	story, found := s.findStory(ctx, id)

	_, cacheHeld := s.cache.Remove(id)

	durableRemoved, err := s.repo.Delete(ctx, id)
	if err != nil {
		if !s.repo.FailSoft() {
			return 0, fmt.Errorf("delete story: %w", err)
		}
		log.Printf("WARNING: durable delete of story %s failed: %v", id, err)
		durableRemoved = 0
	}

	if !cacheHeld && durableRemoved == 0 {
		return 0, nil
	}

	if found {
		s.removeLocalImage(ctx, story)
	}
	return 1, nil
}

// findStory looks the id up in the cache first, then the durable tier.
func (s *Service) findStory(ctx context.Context, id string) (models.Story, bool) {
	if story, ok := s.cache.Get(id); ok {
		return story, true
	}

	durable, err := s.repo.List(ctx, 0)
	if err != nil {
		return models.Story{}, false
	}
	for _, story := range durable {
		if story.ID == id {
			return story, true
		}
	}
	return models.Story{}, false
}

// removeLocalImage deletes a locally hosted image file. Failures are logged,
// never surfaced; blob-store assets are left untouched.
func (s *Service) removeLocalImage(ctx context.Context, story models.Story) {
	if s.assets == nil || story.ImageURL == "" {
		return
	}
	key, ok := s.assets.LocalKey(story.ImageURL)
	if !ok {
		return
	}
	if err := s.assets.Remove(ctx, key); err != nil {
		log.Printf("WARNING: could not remove image %s for story %s: %v", key, story.ID, err)
	}
}
