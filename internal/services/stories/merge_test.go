package stories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnlatif16/Story-stories/internal/db/models"
)

func story(id, title string, createdAt time.Time) models.Story {
	return models.Story{ID: id, Title: title, CreatedAt: createdAt}
}

func TestMergeStories_Dedup(t *testing.T) {
	now := time.Now().UTC()

	cache := []models.Story{story("a", "cached copy", now)}
	durable := []models.Story{
		story("a", "stale copy", now),
		story("b", "durable only", now.Add(-time.Minute)),
	}

	merged := mergeStories(cache, durable, 0)
	require.Len(t, merged, 2)
	assert.Equal(t, "a", merged[0].ID)
	assert.Equal(t, "cached copy", merged[0].Title, "cache tier wins on divergent ids")
	assert.Equal(t, "b", merged[1].ID)
}

func TestMergeStories_SortsNewestFirst(t *testing.T) {
	now := time.Now().UTC()

	// Insertion order deliberately scrambled across tiers.
	cache := []models.Story{story("old-cached", "x", now.Add(-time.Hour))}
	durable := []models.Story{
		story("mid", "x", now.Add(-30*time.Minute)),
		story("new", "x", now),
	}

	merged := mergeStories(cache, durable, 0)
	require.Len(t, merged, 3)
	assert.Equal(t, "new", merged[0].ID)
	assert.Equal(t, "mid", merged[1].ID)
	assert.Equal(t, "old-cached", merged[2].ID)
}

func TestMergeStories_StableOnEqualTimestamps(t *testing.T) {
	now := time.Now().UTC()

	cache := []models.Story{story("c1", "x", now), story("c2", "x", now)}
	durable := []models.Story{story("d1", "x", now)}

	merged := mergeStories(cache, durable, 0)
	require.Len(t, merged, 3)
	// Ties keep the precedence order: cache entries before durable ones.
	assert.Equal(t, []string{"c1", "c2", "d1"}, []string{merged[0].ID, merged[1].ID, merged[2].ID})
}

func TestMergeStories_Cap(t *testing.T) {
	now := time.Now().UTC()

	var durable []models.Story
	for i := 0; i < 10; i++ {
		durable = append(durable, story(string(rune('a'+i)), "x", now.Add(time.Duration(i)*time.Second)))
	}

	merged := mergeStories(nil, durable, 3)
	assert.Len(t, merged, 3)
}

func TestMergeStories_EmptyTiers(t *testing.T) {
	assert.Empty(t, mergeStories(nil, nil, 0))
	assert.Len(t, mergeStories([]models.Story{story("a", "x", time.Now())}, nil, 0), 1)
	assert.Len(t, mergeStories(nil, []models.Story{story("a", "x", time.Now())}, 0), 1)
}
