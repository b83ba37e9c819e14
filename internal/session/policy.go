package session

// WeightPolicy computes an item's next learning weight from an answer.
type WeightPolicy interface {
	Next(weight float64, correct bool) float64
}

// Default DecayPolicy factors.
const (
	DefaultCorrectFactor = 0.6
	DefaultWrongBoost    = 0.5
)

// DecayPolicy shrinks the weight on a correct answer and moves it toward 1
// on a wrong one. Results are clamped to [0, 1].
type DecayPolicy struct {
	CorrectFactor float64
	WrongBoost    float64
}

// DefaultPolicy returns a DecayPolicy with the default factors.
func DefaultPolicy() DecayPolicy {
	return DecayPolicy{CorrectFactor: DefaultCorrectFactor, WrongBoost: DefaultWrongBoost}
}

// Next implements WeightPolicy.
func (p DecayPolicy) Next(weight float64, correct bool) float64 {
	w := clamp(weight)
	if correct {
		return clamp(w * p.CorrectFactor)
	}
	return clamp(w + (1-w)*p.WrongBoost)
}

func clamp(w float64) float64 {
	switch {
	case w != w, w < 0:
		return 0
	case w > 1:
		return 1
	default:
		return w
	}
}
