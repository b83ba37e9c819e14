// Package study wires the content store to the quiz builders and sessions.
package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lass9436/YomiYomi-sub002/internal/choice"
	"github.com/lass9436/YomiYomi-sub002/internal/cloze"
	"github.com/lass9436/YomiYomi-sub002/internal/dictation"
	"github.com/lass9436/YomiYomi-sub002/internal/logger"
	"github.com/lass9436/YomiYomi-sub002/internal/model"
	"github.com/lass9436/YomiYomi-sub002/internal/selector"
	"github.com/lass9436/YomiYomi-sub002/internal/session"
)

// ErrNoItems is returned when the store has nothing to quiz for a plan.
var ErrNoItems = errors.New("no study items")

// ContentStore is the persistence the service needs.
type ContentStore interface {
	GetPoolByLevel(ctx context.Context, level model.Level) ([]model.StudyItem, error)
	GetPoolByKind(ctx context.Context, kind model.Kind, level model.Level) ([]model.StudyItem, error)
	GetByID(ctx context.Context, id string) (model.StudyItem, bool, error)
	UpdateLearningWeight(ctx context.Context, id string, weight float64) error
	GetDistinctCategories(ctx context.Context) ([]string, error)
	InsertSession(ctx context.Context, rec model.SessionRecord, answers []model.AnswerRecord) (string, error)
}

// Plan describes the session to prepare.
type Plan struct {
	Mode     Mode
	Level    model.Level
	Category string
	Count    int
	Blanks   int
	Options  int
}

// Report tells the caller how a plan was satisfied.
type Report struct {
	// LevelFallback is set when no item matched Plan.Level and the whole
	// pool was used instead.
	LevelFallback bool
	// Skipped lists passages that had no reading to blank.
	Skipped []string
}

// Options configures a Service.
type Options struct {
	Source           selector.Source
	Floor            float64
	PlaceholderWidth int
	Policy           session.WeightPolicy
	Logger           *logger.Logger
}

// Service prepares quizzes and persists their outcome.
type Service struct {
	store    ContentStore
	selector *selector.Selector[model.StudyItem]
	choices  *choice.Builder[model.StudyItem]
	clozes   *cloze.Builder
	policy   session.WeightPolicy
	log      *logger.Logger
}

// NewService returns a Service over store.
func NewService(store ContentStore, opts Options) *Service {
	rnd := opts.Source
	if rnd == nil {
		rnd = selector.NewSource()
	}
	policy := opts.Policy
	if policy == nil {
		policy = session.DefaultPolicy()
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:    store,
		selector: selector.ForItems(rnd).WithEpsilon(opts.Floor),
		choices:  choice.ForItems(rnd),
		clozes:   cloze.NewBuilder(rnd, opts.PlaceholderWidth),
		policy:   policy,
		log:      log.With("component", "study"),
	}
}

// NewSession returns an empty session using the service's weight policy.
func (s *Service) NewSession() *session.Session {
	return session.New(s.policy)
}

// Categories lists the categories available for filtering.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.store.GetDistinctCategories(ctx)
}

// Prepare loads the pool for plan, picks targets by learning weight and
// builds their quizzes.
func (s *Service) Prepare(ctx context.Context, plan Plan) ([]session.Quiz, Report, error) {
	var report Report
	if plan.Count <= 0 {
		return nil, report, fmt.Errorf("count must be > 0")
	}
	pool, err := s.pool(ctx, plan.Mode.Kind(), plan.Category)
	if err != nil {
		return nil, report, err
	}
	if len(pool) == 0 {
		return nil, report, fmt.Errorf("%w: no %s items", ErrNoItems, plan.Mode.Kind())
	}

	switch {
	case plan.Mode.IsChoice():
		attr, _, _ := choice.ItemAttribute(string(plan.Mode))
		targets, pick := s.selector.PickManyAtLevel(plan.Count, pool, plan.Level)
		report.LevelFallback = pick.LevelFallback
		quizzes := make([]session.Quiz, 0, len(targets))
		for _, target := range targets {
			q, err := s.choices.Build(target, pool, attr, plan.Options)
			if err != nil {
				return nil, report, err
			}
			quizzes = append(quizzes, q)
		}
		s.logPrepared(plan, report, len(quizzes))
		return quizzes, report, nil

	case plan.Mode == ModeCloze, plan.Mode == ModeDictation:
		// Order every candidate by weight so unquizzable passages can be
		// replaced by the next pick.
		ordered, pick := s.selector.PickManyAtLevel(len(pool), pool, plan.Level)
		report.LevelFallback = pick.LevelFallback
		var quizzes []session.Quiz
		for _, it := range ordered {
			if len(quizzes) == plan.Count {
				break
			}
			sentence, ok := it.(model.Sentence)
			if !ok {
				continue
			}
			if plan.Mode == ModeDictation {
				quizzes = append(quizzes, dictation.Build(sentence))
				continue
			}
			q := s.clozes.BuildSentence(sentence, plan.Blanks)
			if !q.Quizzable() {
				report.Skipped = append(report.Skipped, sentence.ID)
				s.log.Warn("passage has no readings to blank", "item", sentence.ID)
				continue
			}
			quizzes = append(quizzes, q)
		}
		if len(quizzes) == 0 {
			return nil, report, cloze.ErrUnquizzable
		}
		s.logPrepared(plan, report, len(quizzes))
		return quizzes, report, nil

	default:
		return nil, report, fmt.Errorf("unknown mode %q", plan.Mode)
	}
}

func (s *Service) logPrepared(plan Plan, report Report, n int) {
	s.log.Debug("prepared quizzes",
		"mode", plan.Mode,
		"level", plan.Level.String(),
		"count", n,
		"level_fallback", report.LevelFallback,
		"skipped", len(report.Skipped),
	)
}

func (s *Service) pool(ctx context.Context, kind model.Kind, category string) ([]model.StudyItem, error) {
	// The level filter is applied by the selector so it can fall back.
	pool, err := s.store.GetPoolByKind(ctx, kind, model.LevelAll)
	if err != nil {
		s.log.Error("load pool failed", "kind", kind, "error", err)
		return nil, err
	}
	if category == "" {
		return pool, nil
	}
	var filtered []model.StudyItem
	for _, it := range pool {
		if it.Info().Category == category {
			filtered = append(filtered, it)
		}
	}
	return filtered, nil
}

// Lookup returns the stored item with id.
func (s *Service) Lookup(ctx context.Context, id string) (model.StudyItem, bool, error) {
	return s.store.GetByID(ctx, id)
}

// Next picks a single item by weight, for flashcard-style browsing. An empty
// kind draws from every kind.
func (s *Service) Next(ctx context.Context, level model.Level, kind model.Kind) (model.StudyItem, selector.Pick, error) {
	var (
		pool []model.StudyItem
		err  error
	)
	if kind == "" {
		pool, err = s.store.GetPoolByLevel(ctx, model.LevelAll)
	} else {
		pool, err = s.store.GetPoolByKind(ctx, kind, model.LevelAll)
	}
	if err != nil {
		return nil, selector.Pick{}, err
	}
	item, pick, err := s.selector.PickWeighted(pool, level)
	if errors.Is(err, selector.ErrEmptyPool) {
		return nil, pick, ErrNoItems
	}
	return item, pick, err
}

// Apply persists the weight change of one answer. A failure is logged and
// returned; the session is not touched.
func (s *Service) Apply(ctx context.Context, eff session.Effect) error {
	if err := s.store.UpdateLearningWeight(ctx, eff.SourceID, eff.NewWeight); err != nil {
		s.log.Warn("weight write-back failed", "item", eff.SourceID, "weight", eff.NewWeight, "error", err)
		return fmt.Errorf("save weight for %s: %w", eff.SourceID, err)
	}
	s.log.Debug("weight updated", "item", eff.SourceID, "from", eff.PreviousWeight, "to", eff.NewWeight, "correct", eff.Correct)
	return nil
}

// Record persists a finished session and returns its id.
func (s *Service) Record(ctx context.Context, plan Plan, startedAt, endedAt time.Time, st session.State) (string, error) {
	rec := model.SessionRecord{
		StartedAt:  startedAt,
		EndedAt:    endedAt,
		Mode:       string(plan.Mode),
		Level:      plan.Level,
		Total:      len(st.Outcomes),
		Score:      st.Score,
		DurationMs: endedAt.Sub(startedAt).Milliseconds(),
	}
	answers := make([]model.AnswerRecord, 0, len(st.Outcomes))
	for _, o := range st.Outcomes {
		answers = append(answers, model.AnswerRecord{
			ItemID:    o.SourceID,
			Correct:   o.Correct,
			Revealed:  o.Revealed,
			NewWeight: o.NewWeight,
		})
	}
	id, err := s.store.InsertSession(ctx, rec, answers)
	if err != nil {
		s.log.Error("record session failed", "error", err)
		return "", err
	}
	s.log.Info("session recorded", "session", id, "mode", rec.Mode, "score", rec.Score, "total", rec.Total)
	return id, nil
}
