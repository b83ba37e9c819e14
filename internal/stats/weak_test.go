package stats

import (
	"reflect"
	"testing"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

func TestSelectWeakItems(t *testing.T) {
	aggs := []model.ItemAggregate{
		{ItemID: "good", Label: "a", Correct: 9, Incorrect: 1, LearningWeight: 0.2},
		{ItemID: "bad", Label: "b", Correct: 1, Incorrect: 3, LearningWeight: 0.9},
		{ItemID: "tie-light", Label: "c", Correct: 1, Incorrect: 1, LearningWeight: 0.4},
		{ItemID: "tie-heavy", Label: "d", Correct: 1, Incorrect: 1, LearningWeight: 0.8},
	}
	got := SelectWeakItems(aggs, 3)
	want := []string{"bad", "tie-heavy", "tie-light"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := SelectWeakItems(aggs, 0); len(got) != len(aggs) {
		t.Fatalf("expected all items for top=0, got %v", got)
	}
	if got := SelectWeakItems(nil, 3); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
