package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lass9436/YomiYomi-sub002/internal/choice"
	"github.com/lass9436/YomiYomi-sub002/internal/cloze"
	"github.com/lass9436/YomiYomi-sub002/internal/dictation"
	"github.com/lass9436/YomiYomi-sub002/internal/model"
	"github.com/lass9436/YomiYomi-sub002/internal/selector"
	"github.com/lass9436/YomiYomi-sub002/internal/session"
	"github.com/lass9436/YomiYomi-sub002/internal/study"
)

type fakeBackend struct {
	applied   []session.Effect
	applyErr  error
	recorded  []session.State
	recordErr error
}

func (f *fakeBackend) Apply(_ context.Context, eff session.Effect) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, eff)
	return nil
}

func (f *fakeBackend) Record(_ context.Context, _ study.Plan, _, _ time.Time, st session.State) (string, error) {
	if f.recordErr != nil {
		return "", f.recordErr
	}
	f.recorded = append(f.recorded, st)
	return "sess-1", nil
}

func startModel(t *testing.T, b *fakeBackend, quizzes ...session.Quiz) *Model {
	t.Helper()
	sess := session.New(nil)
	if err := sess.Start(quizzes); err != nil {
		t.Fatalf("start: %v", err)
	}
	m := NewModel(b, sess, study.Plan{Mode: choice.WordReading, Count: len(quizzes)}, nil)
	t.Cleanup(m.Close)
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func choiceQuiz(id string) choice.ChoiceQuiz {
	return choice.ChoiceQuiz{
		ItemID:       id,
		ItemWeight:   1,
		Attribute:    choice.WordReading,
		Question:     "student",
		Options:      []string{"せんせい", "がくせい", "ほん"},
		CorrectIndex: 1,
	}
}

func TestChoiceFlowRecordsSession(t *testing.T) {
	b := &fakeBackend{}
	m := startModel(t, b, choiceQuiz("w1"), choiceQuiz("w2"))

	m.Update(key("2"))
	if !m.state.IsAnswered() || m.state.Score != 1 {
		t.Fatalf("expected graded correct answer, got %+v", m.state)
	}
	if len(b.applied) != 1 || b.applied[0].SourceID != "w1" {
		t.Fatalf("expected effect applied, got %+v", b.applied)
	}
	if !strings.Contains(m.View(), "Correct") {
		t.Fatalf("expected outcome in view")
	}

	m.Update(key("enter"))
	m.Update(key("9"))
	if m.state.IsAnswered() {
		t.Fatalf("out of range option should be ignored")
	}
	m.Update(key("1"))
	m.Update(key("enter"))

	if !m.state.IsFinished() {
		t.Fatalf("expected finished session, got %s", m.state.Phase)
	}
	if len(b.recorded) != 1 || m.SessionID() != "sess-1" {
		t.Fatalf("expected recorded session")
	}
	if !strings.Contains(m.View(), "Score 1/2") {
		t.Fatalf("expected summary, got %q", m.View())
	}
}

func TestApplyFailureShowsWarning(t *testing.T) {
	b := &fakeBackend{applyErr: errors.New("database is locked")}
	m := startModel(t, b, choiceQuiz("w1"))

	m.Update(key("2"))
	if !m.state.IsAnswered() || m.state.Score != 1 {
		t.Fatalf("session should keep its state, got %+v", m.state)
	}
	if !strings.Contains(m.View(), "progress not saved: database is locked") {
		t.Fatalf("expected warning in footer")
	}
}

func TestRevealMarksOutcome(t *testing.T) {
	b := &fakeBackend{}
	m := startModel(t, b, choiceQuiz("w1"))
	m.Update(key("?"))
	if !m.state.ShowAnswer {
		t.Fatalf("expected answer shown")
	}
	m.Update(key("1"))
	if len(b.applied) != 1 || !b.applied[0].Revealed || b.applied[0].Correct {
		t.Fatalf("unexpected effect %+v", b.applied)
	}
}

func TestClozeBlanksWithTab(t *testing.T) {
	q := cloze.NewBuilder(selector.NewSource(), 4).Build("私[わたし]は学生[がくせい]です", "I am a student", "s1", "", 2)
	b := &fakeBackend{}
	m := startModel(t, b, q)

	typeText(m, "わたし")
	m.Update(key("tab"))
	if m.focus != 1 || m.state.FilledAnswers[0] != "わたし" {
		t.Fatalf("expected first blank stored, got focus %d %v", m.focus, m.state.FilledAnswers)
	}
	typeText(m, "がくせい")
	if !strings.Contains(m.View(), "Blank 2/2") {
		t.Fatalf("expected blank indicator in view")
	}
	m.Update(key("enter"))

	if !m.state.IsAnswered() || m.state.Score != 1 {
		t.Fatalf("expected correct cloze answer, got %+v", m.state)
	}
	if len(b.applied) != 1 || !b.applied[0].Correct {
		t.Fatalf("unexpected effect %+v", b.applied)
	}
}

func TestDictationAcceptsReading(t *testing.T) {
	q := dictation.Build(model.Sentence{
		ItemInfo: model.ItemInfo{ID: "s1", LearningWeight: 1},
		Text:     "本[ほん]を読[よ]む",
	})
	b := &fakeBackend{}
	m := startModel(t, b, q)

	typeText(m, "ほんをよむ")
	m.Update(key("enter"))
	if m.state.Score != 1 {
		t.Fatalf("expected reading form to be accepted")
	}
	if !strings.Contains(m.View(), "本を読む") {
		t.Fatalf("expected written form after answering")
	}
}

func TestRecordFailureShowsWarning(t *testing.T) {
	b := &fakeBackend{recordErr: errors.New("disk full")}
	m := startModel(t, b, choiceQuiz("w1"))
	m.Update(key("2"))
	m.Update(key("enter"))
	if !m.state.IsFinished() || m.SessionID() != "" {
		t.Fatalf("unexpected state after failed record")
	}
	if !strings.Contains(m.View(), "session not saved: disk full") {
		t.Fatalf("expected record warning")
	}
}

func TestFooterSegments(t *testing.T) {
	m := startModel(t, &fakeBackend{}, choiceQuiz("w1"), choiceQuiz("w2"))
	out := m.renderFooter()
	for _, want := range []string{"Quiz 1/2", "Score 0", "1-9: answer", "?: reveal"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}
