package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/johnlatif16/Story-stories/internal/db/models"
)

// FileStoryRepository persists stories as a single JSON snapshot document,
// rewritten in full on every mutation. It targets deployments where the
// filesystem may be read-only: reads of an absent or corrupt snapshot return
// an empty list, and write failures are reported to the caller, which is
// expected to absorb them and fall back to its in-process cache.
type FileStoryRepository struct {
	mu   sync.Mutex
	path string
}

// NewFileStoryRepository constructs a snapshot store rooted at path.
func NewFileStoryRepository(path string) *FileStoryRepository {
	return &FileStoryRepository{path: path}
}

// FailSoft marks the file tier as best-effort.
func (r *FileStoryRepository) FailSoft() bool { return true }

// List returns the persisted snapshot, newest first. An absent, unreadable,
// or corrupt snapshot is treated as "no data", never as an error.
func (r *FileStoryRepository) List(ctx context.Context, limit int) ([]models.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	stories := r.readSnapshot()
	r.mu.Unlock()

	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].CreatedAt.After(stories[j].CreatedAt)
	})
	if limit > 0 && len(stories) > limit {
		stories = stories[:limit]
	}
	return stories, nil
}

// Insert prepends the story to the snapshot and rewrites it.
func (r *FileStoryRepository) Insert(ctx context.Context, story *models.Story) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stories := r.readSnapshot()
	stories = append([]models.Story{*story}, stories...)
	return r.writeSnapshot(stories)
}

// Delete removes the story with the given id, if present.
func (r *FileStoryRepository) Delete(ctx context.Context, id string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stories := r.readSnapshot()
	kept := stories[:0]
	removed := 0
	for _, s := range stories {
		if s.ID == id {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	if removed == 0 {
		return 0, nil
	}
	if err := r.writeSnapshot(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// readSnapshot loads the snapshot document. Corruption is logged and treated
// as an empty store. Callers must hold r.mu.
func (r *FileStoryRepository) readSnapshot() []models.Story {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("WARNING: story snapshot unreadable (%s): %v", r.path, err)
		}
		return []models.Story{}
	}

	var stories []models.Story
	if err := json.Unmarshal(data, &stories); err != nil {
		log.Printf("WARNING: story snapshot corrupt (%s), treating as empty: %v", r.path, err)
		return []models.Story{}
	}
	if stories == nil {
		stories = []models.Story{}
	}
	return stories
}

// writeSnapshot rewrites the full snapshot via a temp file rename so a
// partial write never corrupts the previous document. Callers must hold r.mu.
func (r *FileStoryRepository) writeSnapshot(stories []models.Story) error {
	data, err := json.MarshalIndent(stories, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".stories-*.json")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
