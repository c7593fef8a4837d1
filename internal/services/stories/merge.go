package stories

import (
	"sort"

	"github.com/johnlatif16/Story-stories/internal/db/models"
)

// mergeStories combines the cache tier and a durable-store snapshot into one
// deduplicated, time-ordered view. Cache entries are concatenated first, so
// when both tiers hold the same id the cache copy wins: it reflects the most
// recent write, which a failed snapshot rewrite may never have reached.
//
// The result is sorted by CreatedAt descending with a stable sort, so ties
// keep the precedence order, and is capped at limit when limit is positive.
// The view is recomputed on every read; cost is linear in total item count,
// which is acceptable at expected volumes.
func mergeStories(cache, durable []models.Story, limit int) []models.Story {
	merged := make([]models.Story, 0, len(cache)+len(durable))
	seen := make(map[string]struct{}, len(cache)+len(durable))

	for _, tier := range [][]models.Story{cache, durable} {
		for _, story := range tier {
			if _, dup := seen[story.ID]; dup {
				continue
			}
			seen[story.ID] = struct{}{}
			merged = append(merged, story)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
