package stories

import (
	"sync"

	"github.com/johnlatif16/Story-stories/internal/db/models"
)

// Cache is the process-lifetime story tier. It exists to mask durable-store
// write failures: a story lives here from the moment create accepts it, so
// reads stay correct even when the snapshot rewrite was swallowed. It is
// deliberately unbounded; expected volumes are hundreds of stories.
//
// The cache is constructed once per process and injected, never a package
// singleton. All access is mutex-guarded because the HTTP host serves
// requests concurrently.
type Cache struct {
	mu    sync.Mutex
	order []string // newest first
	byID  map[string]models.Story
}

// NewCache constructs an empty cache.
func NewCache() *Cache {
	return &Cache{byID: make(map[string]models.Story)}
}

// InsertFront places the story at the front of the cache. Re-inserting an
// existing id replaces the stored value and moves it to the front.
func (c *Cache) InsertFront(story models.Story) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[story.ID]; exists {
		c.removeLocked(story.ID)
	}
	c.byID[story.ID] = story
	c.order = append([]string{story.ID}, c.order...)
}

// Remove deletes the story with the given id, returning it when present.
func (c *Cache) Remove(id string) (models.Story, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	story, ok := c.byID[id]
	if !ok {
		return models.Story{}, false
	}
	c.removeLocked(id)
	return story, true
}

// Get returns the cached story with the given id, if any.
func (c *Cache) Get(id string) (models.Story, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	story, ok := c.byID[id]
	return story, ok
}

// Snapshot returns the cached stories front-first.
func (c *Cache) Snapshot() []models.Story {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Story, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len reports the number of cached stories.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byID)
}

func (c *Cache) removeLocked(id string) {
	delete(c.byID, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
