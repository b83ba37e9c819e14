package stats

import "github.com/lass9436/YomiYomi-sub002/internal/model"

// SelectWeakItems returns the ids of the lowest-accuracy items. Ties go to
// the item with the higher learning weight.
func SelectWeakItems(aggs []model.ItemAggregate, top int) []string {
	if len(aggs) == 0 {
		return nil
	}
	candidates := make([]model.ItemAggregate, len(aggs))
	copy(candidates, aggs)
	sortWeakest(candidates)
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	ids := make([]string, 0, top)
	for _, agg := range candidates[:top] {
		ids = append(ids, agg.ItemID)
	}
	return ids
}
