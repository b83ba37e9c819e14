package stats

import (
	"testing"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

func TestTopItemsByAttempts(t *testing.T) {
	aggs := []model.ItemAggregate{
		{ItemID: "b", Label: "本", Correct: 3, Incorrect: 1},
		{ItemID: "a", Label: "学生", Correct: 2, Incorrect: 2},
		{ItemID: "c", Label: "先生", Correct: 1, Incorrect: 0},
	}
	top := TopItemsByAttempts(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 items, got %d", len(top))
	}
	// Equal attempts fall back to label order.
	if top[0].ItemID != "a" || top[1].ItemID != "b" {
		t.Fatalf("unexpected order: %+v", top)
	}
	if got := TopItemsByAttempts(aggs, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %+v", got)
	}
}
