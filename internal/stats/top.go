package stats

import (
	"sort"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

// TopItemsByAttempts returns the n most answered items.
func TopItemsByAttempts(aggs []model.ItemAggregate, n int) []model.ItemAggregate {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	items := make([]model.ItemAggregate, len(aggs))
	copy(items, aggs)
	sort.Slice(items, func(i, j int) bool {
		ti := items[i].Correct + items[i].Incorrect
		tj := items[j].Correct + items[j].Incorrect
		if ti == tj {
			return items[i].Label < items[j].Label
		}
		return ti > tj
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
