// Package selector picks study items with probability proportional to their
// learning weight.
package selector

import (
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

// DefaultEpsilon is the weight floor that keeps mastered items reachable.
const DefaultEpsilon = 0.01

// ErrEmptyPool is returned when there is nothing to pick from.
var ErrEmptyPool = errors.New("selector: empty pool")

// Source is the randomness consumed by the selector. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	Intn(n int) int
}

// NewSource returns a Source seeded with the current time.
func NewSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Pick describes how a weighted pick was made.
type Pick struct {
	// LevelFallback is set when no item matched the level filter and the
	// whole pool was used instead.
	LevelFallback bool
}

// Selector samples items of type T using caller-supplied accessors.
type Selector[T any] struct {
	rnd     Source
	weight  func(T) float64
	level   func(T) model.Level
	epsilon float64
}

// New returns a Selector. level may be nil when items carry no level.
func New[T any](rnd Source, weight func(T) float64, level func(T) model.Level) *Selector[T] {
	if rnd == nil {
		rnd = NewSource()
	}
	return &Selector[T]{rnd: rnd, weight: weight, level: level, epsilon: DefaultEpsilon}
}

// ForItems returns a Selector over study items.
func ForItems(rnd Source) *Selector[model.StudyItem] {
	return New(rnd,
		func(it model.StudyItem) float64 { return it.Info().LearningWeight },
		func(it model.StudyItem) model.Level { return it.Info().Level },
	)
}

// WithEpsilon sets the weight floor. Non-positive values are ignored.
func (s *Selector[T]) WithEpsilon(eps float64) *Selector[T] {
	if eps > 0 {
		s.epsilon = eps
	}
	return s
}

// Source exposes the underlying randomness so builders can share it.
func (s *Selector[T]) Source() Source {
	return s.rnd
}

// PickWeighted returns one item from pool, restricted to level unless level
// is LevelAll. It consumes exactly one Float64 draw.
func (s *Selector[T]) PickWeighted(pool []T, level model.Level) (T, Pick, error) {
	var zero T
	if len(pool) == 0 {
		return zero, Pick{}, ErrEmptyPool
	}
	candidates, pick := s.filter(pool, level)
	weights, total := s.weights(candidates)
	return candidates[s.draw(weights, total)], pick, nil
}

// PickManyWithoutReplacement returns up to n distinct items, weighted, in
// pick order. It consumes one Float64 draw per returned item.
func (s *Selector[T]) PickManyWithoutReplacement(n int, pool []T) []T {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}
	remaining := append([]T(nil), pool...)
	weights, total := s.weights(remaining)
	out := make([]T, 0, n)
	for len(out) < n {
		idx := s.draw(weights, total)
		out = append(out, remaining[idx])
		total -= weights[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)
		weights = append(weights[:idx], weights[idx+1:]...)
	}
	return out
}

// PickManyAtLevel applies the level filter of PickWeighted, then picks up to
// n items without replacement.
func (s *Selector[T]) PickManyAtLevel(n int, pool []T, level model.Level) ([]T, Pick) {
	candidates, pick := s.filter(pool, level)
	return s.PickManyWithoutReplacement(n, candidates), pick
}

// PickIndices returns n distinct indices in [0, size), uniformly, sorted
// ascending. When n >= size every index is returned without any draw.
// Otherwise it consumes one Intn draw per index.
func PickIndices(rnd Source, n, size int) []int {
	if n <= 0 || size <= 0 {
		return nil
	}
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}
	if n >= size {
		return idx
	}
	for i := 0; i < n; i++ {
		j := i + rnd.Intn(size-i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	out := idx[:n]
	sort.Ints(out)
	return out
}

func (s *Selector[T]) filter(pool []T, level model.Level) ([]T, Pick) {
	if level == model.LevelAll || s.level == nil {
		return pool, Pick{}
	}
	matched := make([]T, 0, len(pool))
	for _, it := range pool {
		if s.level(it) == level {
			matched = append(matched, it)
		}
	}
	if len(matched) == 0 {
		return pool, Pick{LevelFallback: true}
	}
	return matched, Pick{}
}

func (s *Selector[T]) weights(items []T) ([]float64, float64) {
	weights := make([]float64, len(items))
	total := 0.0
	for i, it := range items {
		w := s.weight(it)
		if !(w >= s.epsilon) {
			w = s.epsilon
		}
		weights[i] = w
		total += w
	}
	return weights, total
}

// draw scans cumulative weights against a single uniform draw.
func (s *Selector[T]) draw(weights []float64, total float64) int {
	r := s.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights) - 1
}
