package cloze

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/lass9436/YomiYomi-sub002/internal/answer"
	"github.com/lass9436/YomiYomi-sub002/internal/furigana"
	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

const sample = "私[わたし]は学生[がくせい]です"

func correctAnswers(q ClozeQuiz) map[int]string {
	out := make(map[int]string, len(q.Blanks))
	for _, b := range q.Blanks {
		out[b.Index] = b.CorrectAnswer
	}
	return out
}

func TestBuildScenario(t *testing.T) {
	b := NewBuilder(rand.New(rand.NewSource(1)), DefaultPlaceholderWidth)
	q := b.Build(sample, "I am a student", "s1", "intro", 2)

	if got := strings.Count(q.DisplayText, b.Placeholder()); got != 2 {
		t.Fatalf("expected 2 placeholders in %q, got %d", q.DisplayText, got)
	}
	if len(q.Blanks) != 2 {
		t.Fatalf("expected 2 blanks, got %d", len(q.Blanks))
	}
	if q.Blanks[0].Index != 0 || q.Blanks[0].CorrectAnswer != "わたし" {
		t.Fatalf("unexpected first blank %+v", q.Blanks[0])
	}
	if q.Blanks[1].Index != 1 || q.Blanks[1].CorrectAnswer != "がくせい" {
		t.Fatalf("unexpected second blank %+v", q.Blanks[1])
	}
	if q.PromptText != "＿＿は＿＿です" {
		t.Fatalf("unexpected prompt %q", q.PromptText)
	}
}

func TestBuildCoverage(t *testing.T) {
	texts := []string{
		sample,
		"今日[きょう]は、いい天気[てんき]ですね。明日[あした]も晴[は]れるでしょう。",
		"猫[ねこ]が好[す]き",
	}
	rnd := rand.New(rand.NewSource(3))
	b := NewBuilder(rnd, 6)
	for _, text := range texts {
		candidates := 0
		for _, s := range furigana.Parse(text) {
			if s.Annotated() {
				candidates++
			}
		}
		for n := 0; n <= candidates; n++ {
			for trial := 0; trial < 10; trial++ {
				q := b.Build(text, "", "id", "", n)
				if len(q.Blanks) != n {
					t.Fatalf("%q with %d blanks: got %d", text, n, len(q.Blanks))
				}
				for _, blank := range q.Blanks {
					r := blank.DisplayRange
					if q.DisplayText[r.Start:r.End] != b.Placeholder() {
						t.Fatalf("display range %v does not cover placeholder in %q", r, q.DisplayText)
					}
					p := blank.PromptRange
					if q.PromptText[p.Start:p.End] != b.Placeholder() {
						t.Fatalf("prompt range %v does not cover placeholder in %q", p, q.PromptText)
					}
				}
				if q.OriginalText != text {
					t.Fatalf("original text %q, want %q", q.OriginalText, text)
				}
				if got, want := q.Fill(correctAnswers(q)), furigana.StripToReadingForm(q.OriginalText); got != want {
					t.Fatalf("filled display %q != reading form %q", got, want)
				}
			}
		}
	}
}

func TestBuildBlanksEverythingWhenCountExceedsCandidates(t *testing.T) {
	q := NewBuilder(rand.New(rand.NewSource(1)), 0).Build(sample, "", "s1", "", 10)
	if len(q.Blanks) != 2 {
		t.Fatalf("expected all candidates blanked, got %d", len(q.Blanks))
	}
}

func TestBuildNoReadings(t *testing.T) {
	q := NewBuilder(rand.New(rand.NewSource(1)), 0).Build("ひらがなだけです", "", "s1", "", 3)
	if q.Quizzable() {
		t.Fatalf("expected unquizzable result")
	}
	if q.DisplayText != "ひらがなだけです" {
		t.Fatalf("unexpected display %q", q.DisplayText)
	}
	if q.Grade(answer.Blanks(nil)) {
		t.Fatalf("an empty quiz must never grade correct")
	}
}

func TestPlaceholderWidth(t *testing.T) {
	if got := NewBuilder(nil, 4).Placeholder(); got != "＿＿" {
		t.Fatalf("expected two fullwidth runes, got %q", got)
	}
	if got := NewBuilder(nil, 1).Placeholder(); got != "＿" {
		t.Fatalf("expected at least one rune, got %q", got)
	}
}

func TestGrade(t *testing.T) {
	q := NewBuilder(rand.New(rand.NewSource(1)), 0).Build(sample, "", "s1", "", 2)
	if !q.Grade(answer.Blanks(map[int]string{0: "わたし", 1: " がくせい。"})) {
		t.Fatalf("expected normalized answers to be accepted")
	}
	if q.Grade(answer.Blanks(map[int]string{0: "わたし"})) {
		t.Fatalf("missing blank should be wrong")
	}
	if q.Grade(answer.Text("わたし")) {
		t.Fatalf("text response needs a single-blank quiz")
	}

	single := NewBuilder(rand.New(rand.NewSource(1)), 0).Build("本[ほん]です", "", "s2", "", 1)
	if !single.Grade(answer.Text("ほん")) {
		t.Fatalf("single blank should accept a text response")
	}
	if single.Grade(answer.Choice(0)) {
		t.Fatalf("choice responses are not valid for cloze")
	}
}

func TestBuildSentenceCarriesWeight(t *testing.T) {
	s := model.Sentence{ItemInfo: model.ItemInfo{ID: "s9", LearningWeight: 0.7}, Title: "t", Text: sample, Translation: "tr"}
	q := NewBuilder(rand.New(rand.NewSource(1)), 0).BuildSentence(s, 1)
	if q.SourceID() != "s9" || q.Weight() != 0.7 || q.Translation != "tr" {
		t.Fatalf("unexpected quiz metadata %+v", q)
	}
}
