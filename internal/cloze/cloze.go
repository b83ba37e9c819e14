// Package cloze builds fill-the-blank quizzes over annotated passages.
package cloze

import (
	"errors"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lass9436/YomiYomi-sub002/internal/answer"
	"github.com/lass9436/YomiYomi-sub002/internal/furigana"
	"github.com/lass9436/YomiYomi-sub002/internal/model"
	"github.com/lass9436/YomiYomi-sub002/internal/selector"
)

// ErrUnquizzable signals that no candidate passage had a reading to blank.
var ErrUnquizzable = errors.New("cloze: no reading-bearing segments")

// DefaultPlaceholderWidth is the placeholder width in terminal cells.
const DefaultPlaceholderWidth = 4

const placeholderRune = '＿'

// Range is a half-open byte range.
type Range struct {
	Start int
	End   int
}

// BlankSpec describes one blank. Index follows position order.
type BlankSpec struct {
	Index         int
	CorrectAnswer string
	DisplayRange  Range
	PromptRange   Range
	Segment       int
}

// ClozeQuiz is a passage with some readings hidden.
//
// DisplayText is the reading form of the passage with placeholders, so that
// filling every blank with its answer gives furigana.StripToReadingForm of
// the source. PromptText is the same passage in base form (kanji kept) and is
// what a learner normally sees.
type ClozeQuiz struct {
	ItemID       string
	ItemWeight   float64
	Title        string
	OriginalText string
	Translation  string
	DisplayText  string
	PromptText   string
	Blanks       []BlankSpec
	Segments     []furigana.Segment
}

// SourceID returns the id of the passage the quiz was built from.
func (q ClozeQuiz) SourceID() string { return q.ItemID }

// Weight returns the learning weight of the source passage.
func (q ClozeQuiz) Weight() float64 { return q.ItemWeight }

// BlankCount returns the number of blanks.
func (q ClozeQuiz) BlankCount() int { return len(q.Blanks) }

// Quizzable reports whether the quiz has at least one blank.
func (q ClozeQuiz) Quizzable() bool { return len(q.Blanks) > 0 }

// Grade checks every blank. A plain text response is accepted when the quiz
// has exactly one blank.
func (q ClozeQuiz) Grade(r answer.Response) bool {
	if !q.Quizzable() {
		return false
	}
	filled, ok := r.AsBlanks()
	if !ok {
		text, isText := r.AsText()
		if !isText || len(q.Blanks) != 1 {
			return false
		}
		filled = map[int]string{q.Blanks[0].Index: text}
	}
	for _, b := range q.Blanks {
		got, ok := filled[b.Index]
		if !ok || !answer.Equals(got, b.CorrectAnswer) {
			return false
		}
	}
	return true
}

// Fill renders DisplayText with the given answers in place of placeholders.
// Missing answers keep their placeholder.
func (q ClozeQuiz) Fill(answers map[int]string) string {
	return fill(q.DisplayText, q.Blanks, answers, func(b BlankSpec) Range { return b.DisplayRange })
}

// FillPrompt is Fill over PromptText.
func (q ClozeQuiz) FillPrompt(answers map[int]string) string {
	return fill(q.PromptText, q.Blanks, answers, func(b BlankSpec) Range { return b.PromptRange })
}

func fill(text string, blanks []BlankSpec, answers map[int]string, rangeOf func(BlankSpec) Range) string {
	var b strings.Builder
	last := 0
	for _, blank := range blanks {
		r := rangeOf(blank)
		b.WriteString(text[last:r.Start])
		if a, ok := answers[blank.Index]; ok {
			b.WriteString(a)
		} else {
			b.WriteString(text[r.Start:r.End])
		}
		last = r.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// Builder creates cloze quizzes.
type Builder struct {
	rnd         selector.Source
	placeholder string
}

// NewBuilder returns a Builder whose placeholders span width terminal cells.
func NewBuilder(rnd selector.Source, width int) *Builder {
	if rnd == nil {
		rnd = selector.NewSource()
	}
	if width <= 0 {
		width = DefaultPlaceholderWidth
	}
	n := width / runewidth.RuneWidth(placeholderRune)
	if n < 1 {
		n = 1
	}
	return &Builder{rnd: rnd, placeholder: strings.Repeat(string(placeholderRune), n)}
}

// Placeholder returns the text used for each blank.
func (b *Builder) Placeholder() string {
	return b.placeholder
}

// Build blanks up to blankCount reading-bearing segments of sourceText.
// Blank positions are drawn uniformly without replacement; when blankCount
// covers every candidate all of them are blanked. A passage without readings
// yields a quiz with no blanks.
func (b *Builder) Build(sourceText, translation, sourceID, title string, blankCount int) ClozeQuiz {
	segs := furigana.Parse(sourceText)
	q := ClozeQuiz{
		ItemID:       sourceID,
		Title:        title,
		OriginalText: sourceText,
		Translation:  translation,
		Segments:     segs,
	}

	var candidates []int
	for i, s := range segs {
		if s.Annotated() {
			candidates = append(candidates, i)
		}
	}
	selected := make(map[int]bool)
	for _, ci := range selector.PickIndices(b.rnd, blankCount, len(candidates)) {
		selected[candidates[ci]] = true
	}

	var display, prompt strings.Builder
	for i, s := range segs {
		if !selected[i] {
			if s.Annotated() {
				display.WriteString(s.Reading)
			} else {
				display.WriteString(s.Base)
			}
			prompt.WriteString(s.Base)
			continue
		}
		spec := BlankSpec{
			Index:         len(q.Blanks),
			CorrectAnswer: s.Reading,
			Segment:       i,
		}
		spec.DisplayRange.Start = display.Len()
		display.WriteString(b.placeholder)
		spec.DisplayRange.End = display.Len()
		spec.PromptRange.Start = prompt.Len()
		prompt.WriteString(b.placeholder)
		spec.PromptRange.End = prompt.Len()
		q.Blanks = append(q.Blanks, spec)
	}
	q.DisplayText = display.String()
	q.PromptText = prompt.String()
	return q
}

// BuildSentence builds a quiz from a stored sentence and carries its weight.
func (b *Builder) BuildSentence(s model.Sentence, blankCount int) ClozeQuiz {
	q := b.Build(s.Text, s.Translation, s.ID, s.Title, blankCount)
	q.ItemWeight = s.LearningWeight
	return q
}
