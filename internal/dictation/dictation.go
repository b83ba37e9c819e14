// Package dictation builds sentence dictation quizzes: the learner sees a
// translation and types or speaks the Japanese sentence.
package dictation

import (
	"github.com/lass9436/YomiYomi-sub002/internal/answer"
	"github.com/lass9436/YomiYomi-sub002/internal/furigana"
	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

// Quiz is a dictation prompt for one sentence.
type Quiz struct {
	ItemID     string
	ItemWeight float64
	Title      string
	Prompt     string
	Expected   string // annotated source text
}

// Build creates a dictation quiz. The translation is the prompt; a sentence
// without a translation is prompted with its reading form instead.
func Build(s model.Sentence) Quiz {
	prompt := s.Translation
	if prompt == "" {
		prompt = furigana.StripToReadingForm(s.Text)
	}
	return Quiz{
		ItemID:     s.ID,
		ItemWeight: s.LearningWeight,
		Title:      s.Title,
		Prompt:     prompt,
		Expected:   s.Text,
	}
}

// SourceID returns the sentence id.
func (q Quiz) SourceID() string { return q.ItemID }

// Weight returns the sentence's learning weight.
func (q Quiz) Weight() float64 { return q.ItemWeight }

// Display is the expected sentence as written.
func (q Quiz) Display() string { return furigana.Strip(q.Expected) }

// Reading is the expected sentence in kana.
func (q Quiz) Reading() string { return furigana.StripToReadingForm(q.Expected) }

// Grade accepts the sentence in either written or kana form, since speech
// recognizers may return either.
func (q Quiz) Grade(r answer.Response) bool {
	s, ok := r.AsText()
	if !ok {
		return false
	}
	return answer.Equals(s, q.Display()) || answer.Equals(s, q.Reading())
}
