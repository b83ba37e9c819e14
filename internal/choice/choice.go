// Package choice builds multiple-choice quizzes over any item type.
package choice

import (
	"errors"
	"fmt"

	"github.com/lass9436/YomiYomi-sub002/internal/answer"
	"github.com/lass9436/YomiYomi-sub002/internal/model"
	"github.com/lass9436/YomiYomi-sub002/internal/selector"
)

// DefaultOptionCount is the number of options shown when none is requested.
const DefaultOptionCount = 4

// ErrInsufficientData means the pool cannot supply enough distinct distractors.
var ErrInsufficientData = errors.New("not enough data for a choice quiz")

// Attribute picks the question side and the answer side of an item.
type Attribute[T any] struct {
	Name     string
	Question func(T) string
	Answer   func(T) string
}

// ChoiceQuiz is one multiple-choice question.
type ChoiceQuiz struct {
	ItemID       string
	ItemWeight   float64
	Attribute    string
	Question     string
	Options      []string
	CorrectIndex int
}

// SourceID returns the id of the target item.
func (q ChoiceQuiz) SourceID() string { return q.ItemID }

// Weight returns the learning weight of the target item.
func (q ChoiceQuiz) Weight() float64 { return q.ItemWeight }

// CorrectAnswer returns the option at CorrectIndex.
func (q ChoiceQuiz) CorrectAnswer() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// Grade accepts an option index, or free text (e.g. speech) compared
// against the correct option.
func (q ChoiceQuiz) Grade(r answer.Response) bool {
	if i, ok := r.AsChoice(); ok {
		return i == q.CorrectIndex
	}
	if s, ok := r.AsText(); ok {
		return answer.Equals(s, q.CorrectAnswer())
	}
	return false
}

// Builder creates choice quizzes for items of type T.
type Builder[T any] struct {
	rnd    selector.Source
	id     func(T) string
	weight func(T) float64
}

// NewBuilder returns a Builder using id to recognise the target inside the
// pool and weight to carry the target's learning weight.
func NewBuilder[T any](rnd selector.Source, id func(T) string, weight func(T) float64) *Builder[T] {
	if rnd == nil {
		rnd = selector.NewSource()
	}
	return &Builder[T]{rnd: rnd, id: id, weight: weight}
}

// ForItems returns a Builder over study items.
func ForItems(rnd selector.Source) *Builder[model.StudyItem] {
	return NewBuilder(rnd,
		func(it model.StudyItem) string { return it.Info().ID },
		func(it model.StudyItem) float64 { return it.Info().LearningWeight },
	)
}

// Build samples optionCount-1 distractors from pool, uniformly and without
// replacement, and places the target's answer at a random index. Distractors
// never share the target's answer and never repeat a value.
func (b *Builder[T]) Build(target T, pool []T, attr Attribute[T], optionCount int) (ChoiceQuiz, error) {
	if optionCount < 2 {
		optionCount = DefaultOptionCount
	}
	want := attr.Answer(target)
	if want == "" {
		return ChoiceQuiz{}, fmt.Errorf("%w: %s has no %s value", ErrInsufficientData, b.id(target), attr.Name)
	}

	targetID := b.id(target)
	seen := map[string]bool{answer.Normalize(want): true}
	var distinct []string
	for _, it := range pool {
		if b.id(it) == targetID {
			continue
		}
		v := attr.Answer(it)
		key := answer.Normalize(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		distinct = append(distinct, v)
	}

	need := optionCount - 1
	if len(distinct) < need {
		return ChoiceQuiz{}, fmt.Errorf("%w: %s needs %d distractors, pool has %d", ErrInsufficientData, attr.Name, need, len(distinct))
	}

	options := make([]string, 0, optionCount)
	for _, i := range selector.PickIndices(b.rnd, need, len(distinct)) {
		options = append(options, distinct[i])
	}
	correct := b.rnd.Intn(optionCount)
	options = append(options, "")
	copy(options[correct+1:], options[correct:])
	options[correct] = want

	return ChoiceQuiz{
		ItemID:       targetID,
		ItemWeight:   b.weight(target),
		Attribute:    attr.Name,
		Question:     attr.Question(target),
		Options:      options,
		CorrectIndex: correct,
	}, nil
}
