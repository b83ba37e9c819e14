// Package session holds the quiz session state machine.
//
// A Session moves NotStarted -> InProgress -> Answered -> (InProgress |
// Finished). Calls that are not valid in the current phase return
// ErrInvalidTransition and leave the state untouched. Weight changes are
// returned as an Effect for the caller to persist; the session never writes.
package session

import (
	"errors"
	"fmt"

	"github.com/lass9436/YomiYomi-sub002/internal/answer"
)

var (
	// ErrInvalidTransition reports a call made in the wrong phase.
	ErrInvalidTransition = errors.New("invalid session transition")
	// ErrEmpty is returned by Start when there is nothing to quiz.
	ErrEmpty = errors.New("session has no quizzes")
	// ErrNoSuchBlank is returned by FillBlank for an unknown blank index.
	ErrNoSuchBlank = errors.New("no such blank")
)

// Phase is the session lifecycle stage.
type Phase int

// Session phases.
const (
	NotStarted Phase = iota
	InProgress
	Answered
	Finished
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not-started"
	case InProgress:
		return "in-progress"
	case Answered:
		return "answered"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Quiz is anything the session can present and grade.
type Quiz interface {
	SourceID() string
	Weight() float64
	Grade(answer.Response) bool
}

// blanked is implemented by quizzes with numbered blanks.
type blanked interface {
	BlankCount() int
}

// Effect is the post-answer result the caller persists.
type Effect struct {
	SourceID       string
	Correct        bool
	Revealed       bool
	PreviousWeight float64
	NewWeight      float64
}

// State is a snapshot of a session.
type State struct {
	Phase         Phase
	Quizzes       []Quiz
	CurrentIndex  int
	Score         int
	FilledAnswers map[int]string
	ShowAnswer    bool
	Outcomes      []Effect
}

// Total is the number of quizzes in the session.
func (s State) Total() int { return len(s.Quizzes) }

// IsAnswered reports whether the current quiz has been graded.
func (s State) IsAnswered() bool { return s.Phase == Answered }

// IsFinished reports whether every quiz has been answered.
func (s State) IsFinished() bool { return s.Phase == Finished }

// Current returns the quiz at CurrentIndex, or nil when none is active.
func (s State) Current() Quiz {
	if s.Phase == NotStarted || s.CurrentIndex >= len(s.Quizzes) {
		return nil
	}
	return s.Quizzes[s.CurrentIndex]
}

// LastOutcome returns the most recent graded answer.
func (s State) LastOutcome() (Effect, bool) {
	if len(s.Outcomes) == 0 {
		return Effect{}, false
	}
	return s.Outcomes[len(s.Outcomes)-1], true
}

func (s State) clone() State {
	out := s
	if s.FilledAnswers != nil {
		out.FilledAnswers = make(map[int]string, len(s.FilledAnswers))
		for k, v := range s.FilledAnswers {
			out.FilledAnswers[k] = v
		}
	}
	out.Outcomes = append([]Effect(nil), s.Outcomes...)
	return out
}

// Session is owned by a single caller; it is not safe for concurrent use.
type Session struct {
	state  State
	policy WeightPolicy
	subs   map[int]func(State)
	nextID int
}

// New returns a session that updates weights with policy.
func New(policy WeightPolicy) *Session {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Session{policy: policy, subs: make(map[int]func(State))}
}

// State returns a snapshot of the current state.
func (s *Session) State() State {
	return s.state.clone()
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned func removes the subscription.
func (s *Session) Subscribe(fn func(State)) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Session) notify() {
	snap := s.state.clone()
	for _, fn := range s.subs {
		fn(snap)
	}
}

func (s *Session) invalid(op string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, s.state.Phase)
}

// Start begins a new run over quizzes, discarding any previous run.
func (s *Session) Start(quizzes []Quiz) error {
	if len(quizzes) == 0 {
		return ErrEmpty
	}
	s.state = State{
		Phase:         InProgress,
		Quizzes:       append([]Quiz(nil), quizzes...),
		FilledAnswers: map[int]string{},
	}
	s.notify()
	return nil
}

// FillBlank stores a partial answer for one blank of the current quiz.
func (s *Session) FillBlank(index int, text string) error {
	if s.state.Phase != InProgress {
		return s.invalid("fill blank")
	}
	b, ok := s.state.Current().(blanked)
	if !ok || index < 0 || index >= b.BlankCount() {
		return fmt.Errorf("%w: %d", ErrNoSuchBlank, index)
	}
	s.state.FilledAnswers[index] = text
	s.notify()
	return nil
}

// SubmitAnswer grades r against the current quiz.
func (s *Session) SubmitAnswer(r answer.Response) (Effect, error) {
	if s.state.Phase != InProgress {
		return Effect{}, s.invalid("submit")
	}
	q := s.state.Current()
	correct := q.Grade(r)
	prev := q.Weight()
	eff := Effect{
		SourceID:       q.SourceID(),
		Correct:        correct,
		Revealed:       s.state.ShowAnswer,
		PreviousWeight: prev,
		NewWeight:      s.policy.Next(prev, correct),
	}
	if correct {
		s.state.Score++
	}
	s.state.Phase = Answered
	s.state.Outcomes = append(s.state.Outcomes, eff)
	s.notify()
	return eff, nil
}

// SubmitFilled submits the answers collected with FillBlank.
func (s *Session) SubmitFilled() (Effect, error) {
	return s.SubmitAnswer(answer.Blanks(s.state.FilledAnswers))
}

// Next advances past an answered quiz, finishing after the last one.
func (s *Session) Next() error {
	if s.state.Phase != Answered {
		return s.invalid("next")
	}
	if s.state.CurrentIndex+1 == len(s.state.Quizzes) {
		s.state.Phase = Finished
	} else {
		s.state.CurrentIndex++
		s.state.Phase = InProgress
		s.state.FilledAnswers = map[int]string{}
	}
	s.state.ShowAnswer = false
	s.notify()
	return nil
}

// RevealAnswer shows the answer of the current quiz without scoring it.
func (s *Session) RevealAnswer() error {
	if s.state.Phase != InProgress && s.state.Phase != Answered {
		return s.invalid("reveal")
	}
	s.state.ShowAnswer = true
	s.notify()
	return nil
}
