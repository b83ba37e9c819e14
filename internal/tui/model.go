// Package tui provides the Bubble Tea study interface.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lass9436/YomiYomi-sub002/internal/answer"
	"github.com/lass9436/YomiYomi-sub002/internal/choice"
	"github.com/lass9436/YomiYomi-sub002/internal/cloze"
	"github.com/lass9436/YomiYomi-sub002/internal/dictation"
	"github.com/lass9436/YomiYomi-sub002/internal/logger"
	"github.com/lass9436/YomiYomi-sub002/internal/session"
	"github.com/lass9436/YomiYomi-sub002/internal/study"
)

// Backend persists what the learner does.
type Backend interface {
	Apply(ctx context.Context, eff session.Effect) error
	Record(ctx context.Context, plan study.Plan, startedAt, endedAt time.Time, st session.State) (string, error)
}

// Model implements the Bubble Tea study UI.
type Model struct {
	backend Backend
	sess    *session.Session
	cancel  func()
	plan    study.Plan
	log     *logger.Logger
	now     func() time.Time

	state     session.State
	startedAt time.Time
	input     textinput.Model
	focus     int
	chosen    int

	sessionID string
	warning   string

	width  int
	height int
}

var (
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	baseStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	blankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	filledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FB3D5"))
	revealStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAAD14"))
)

// NewModel wraps a started session.
func NewModel(backend Backend, sess *session.Session, plan study.Plan, log *logger.Logger) *Model {
	if log == nil {
		log = logger.Nop()
	}
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "answer"
	input.CharLimit = 256

	m := &Model{
		backend: backend,
		sess:    sess,
		plan:    plan,
		log:     log.With("component", "tui"),
		now:     time.Now,
		input:   input,
		chosen:  -1,
		state:   sess.State(),
	}
	m.cancel = sess.Subscribe(func(st session.State) {
		m.state = st
	})
	m.startedAt = m.now()
	m.input.Focus()
	return m
}

// Close stops listening to the session.
func (m *Model) Close() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// SessionID is the id the finished session was saved under, if any.
func (m *Model) SessionID() string {
	return m.sessionID
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, m.contentWidth()-4)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.state.Phase {
		case session.Finished:
			switch msg.String() {
			case "enter", "q", "esc":
				return m, tea.Quit
			}
			return m, nil
		case session.Answered:
			switch msg.String() {
			case "enter", " ", "n":
				m.advance()
			case "?":
				m.reveal()
			case "esc":
				return m, tea.Quit
			}
			return m, nil
		case session.InProgress:
			return m.updateInProgress(msg)
		}
	}
	return m, nil
}

func (m *Model) updateInProgress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return m, tea.Quit
	}
	if msg.String() == "?" {
		m.reveal()
		return m, nil
	}
	switch q := m.state.Current().(type) {
	case choice.ChoiceQuiz:
		if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
			return m, nil
		}
		n, err := strconv.Atoi(string(msg.Runes))
		if err != nil || n < 1 || n > len(q.Options) {
			return m, nil
		}
		m.chosen = n - 1
		m.submit(answer.Choice(n - 1))
		return m, nil
	case cloze.ClozeQuiz:
		switch msg.Type {
		case tea.KeyTab:
			m.moveBlank(q, 1)
			return m, nil
		case tea.KeyShiftTab:
			m.moveBlank(q, -1)
			return m, nil
		case tea.KeyEnter:
			m.commitBlank()
			m.submitFilled()
			return m, nil
		}
	default:
		if msg.Type == tea.KeyEnter {
			m.submit(answer.Text(m.input.Value()))
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) commitBlank() {
	if err := m.sess.FillBlank(m.focus, m.input.Value()); err != nil {
		m.log.Warn("fill blank failed", "blank", m.focus, "error", err)
	}
}

func (m *Model) moveBlank(q cloze.ClozeQuiz, delta int) {
	n := q.BlankCount()
	if n == 0 {
		return
	}
	m.commitBlank()
	m.focus = (m.focus + delta + n) % n
	m.input.SetValue(m.state.FilledAnswers[m.focus])
	m.input.CursorEnd()
}

func (m *Model) submitFilled() {
	eff, err := m.sess.SubmitFilled()
	m.afterSubmit(eff, err)
}

func (m *Model) submit(r answer.Response) {
	eff, err := m.sess.SubmitAnswer(r)
	m.afterSubmit(eff, err)
}

func (m *Model) afterSubmit(eff session.Effect, err error) {
	if err != nil {
		m.warning = err.Error()
		return
	}
	m.input.Blur()
	if err := m.backend.Apply(context.Background(), eff); err != nil {
		m.log.Warn("apply effect failed", "item", eff.SourceID, "error", err)
		m.warning = fmt.Sprintf("progress not saved: %v", err)
		return
	}
	m.warning = ""
}

func (m *Model) reveal() {
	if err := m.sess.RevealAnswer(); err != nil {
		m.warning = err.Error()
	}
}

func (m *Model) advance() {
	if err := m.sess.Next(); err != nil {
		m.warning = err.Error()
		return
	}
	m.focus = 0
	m.chosen = -1
	m.input.Reset()
	m.input.Focus()
	if m.state.IsFinished() {
		m.finish()
	}
}

func (m *Model) finish() {
	id, err := m.backend.Record(context.Background(), m.plan, m.startedAt, m.now(), m.state)
	if err != nil {
		m.log.Error("record session failed", "error", err)
		m.warning = fmt.Sprintf("session not saved: %v", err)
		return
	}
	m.sessionID = id
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.contentWidth()
	content := m.renderBody(width)
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	body := lipgloss.NewStyle().Width(width).Render(content)
	footer := m.renderFooter()
	footerHeight := lipgloss.Height(footer)
	if m.height <= footerHeight+1 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	placed := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, body)
	return placed + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 60
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderBody(width int) string {
	if m.state.IsFinished() {
		return m.renderSummary()
	}
	var lines []string
	switch q := m.state.Current().(type) {
	case choice.ChoiceQuiz:
		lines = m.renderChoice(q, width)
	case cloze.ClozeQuiz:
		lines = m.renderCloze(q, width)
	case dictation.Quiz:
		lines = m.renderDictation(q, width)
	default:
		return ""
	}
	if eff, ok := m.state.LastOutcome(); ok && m.state.IsAnswered() {
		lines = append(lines, "", renderOutcome(eff))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderChoice(q choice.ChoiceQuiz, width int) []string {
	lines := []string{
		mutedStyle.Render(q.Attribute),
		"",
		wrapText(q.Question, textStyle.Bold(true), width),
		"",
	}
	answered := m.state.IsAnswered()
	for i, opt := range q.Options {
		style := textStyle
		switch {
		case (answered || m.state.ShowAnswer) && i == q.CorrectIndex:
			style = correctStyle
		case answered && i == m.chosen:
			style = wrongStyle
		}
		lines = append(lines, wrapText(fmt.Sprintf("%d) %s", i+1, opt), style, width))
	}
	return lines
}

func (m *Model) renderCloze(q cloze.ClozeQuiz, width int) []string {
	var lines []string
	if q.Title != "" {
		lines = append(lines, mutedStyle.Render(q.Title), "")
	}
	answers := m.state.FilledAnswers
	if !m.state.IsAnswered() {
		answers = make(map[int]string, len(answers)+1)
		for k, v := range m.state.FilledAnswers {
			answers[k] = v
		}
		answers[m.focus] = m.input.Value()
	}
	passage := styleSpans(passageSpans(q, answers, m.focus, m.state.ShowAnswer || m.state.IsAnswered()))
	lines = append(lines, wrapStyledRunes(passage, width))
	if q.Translation != "" {
		lines = append(lines, "", wrapText(q.Translation, mutedStyle, width))
	}
	if !m.state.IsAnswered() {
		lines = append(lines, "", mutedStyle.Render(fmt.Sprintf("Blank %d/%d", m.focus+1, q.BlankCount())), m.input.View())
	}
	return lines
}

func (m *Model) renderDictation(q dictation.Quiz, width int) []string {
	var lines []string
	if q.Title != "" {
		lines = append(lines, mutedStyle.Render(q.Title), "")
	}
	lines = append(lines, wrapText(q.Prompt, textStyle, width))
	if m.state.ShowAnswer || m.state.IsAnswered() {
		lines = append(lines, "",
			wrapText(q.Display(), revealStyle, width),
			wrapText(q.Reading(), mutedStyle, width),
		)
	}
	if !m.state.IsAnswered() {
		lines = append(lines, "", m.input.View())
	}
	return lines
}

func renderOutcome(eff session.Effect) string {
	if eff.Correct {
		return correctStyle.Render("Correct")
	}
	return wrongStyle.Render("Wrong")
}

func (m *Model) renderSummary() string {
	total := m.state.Total()
	pct := 0.0
	if total > 0 {
		pct = float64(m.state.Score) / float64(total) * 100
	}
	lines := []string{
		textStyle.Bold(true).Render("Session complete"),
		"",
		fmt.Sprintf("Score %d/%d (%.0f%%)", m.state.Score, total, pct),
	}
	revealed := 0
	for _, o := range m.state.Outcomes {
		if o.Revealed {
			revealed++
		}
	}
	if revealed > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Answers revealed: %d", revealed)))
	}
	lines = append(lines, "", mutedStyle.Render("enter to quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("Quiz %d/%d", min(m.state.CurrentIndex+1, m.state.Total()), m.state.Total())}
	segments = append(segments, fmt.Sprintf("Score %d", m.state.Score))
	switch {
	case m.state.IsFinished():
	case m.state.IsAnswered():
		segments = append(segments, "enter: next")
	default:
		switch m.state.Current().(type) {
		case choice.ChoiceQuiz:
			segments = append(segments, "1-9: answer")
		case cloze.ClozeQuiz:
			segments = append(segments, "tab: next blank", "enter: submit")
		default:
			segments = append(segments, "enter: submit")
		}
		segments = append(segments, "?: reveal")
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.warning != "" {
		footer += "\n" + warnStyle.Render(m.warning)
	}
	return footer
}
