package study

import (
	"fmt"
	"strings"

	"github.com/lass9436/YomiYomi-sub002/internal/choice"
	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

// Mode selects what a session quizzes.
type Mode string

// Non-choice modes. Choice modes share their names with choice attributes.
const (
	ModeCloze     Mode = "cloze"
	ModeDictation Mode = "dictation"
)

// Modes lists every mode name.
func Modes() []Mode {
	var out []Mode
	for _, name := range choice.ItemAttributeNames() {
		out = append(out, Mode(name))
	}
	return append(out, ModeCloze, ModeDictation)
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Kind returns the item kind the mode draws from.
func (m Mode) Kind() model.Kind {
	if _, kind, ok := choice.ItemAttribute(string(m)); ok {
		return kind
	}
	return model.KindSentence
}

// IsChoice reports whether the mode builds multiple-choice quizzes.
func (m Mode) IsChoice() bool {
	_, _, ok := choice.ItemAttribute(string(m))
	return ok
}
