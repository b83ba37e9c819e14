// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Level is a proficiency tier used to filter candidate pools.
type Level int

// Levels, from the unfiltered tier to the hardest JLPT tier.
const (
	LevelAll Level = iota
	LevelN5
	LevelN4
	LevelN3
	LevelN2
	LevelN1
)

var levelNames = []string{"ALL", "N5", "N4", "N3", "N2", "N1"}

// String returns the canonical level name.
func (l Level) String() string {
	if l < LevelAll || int(l) >= len(levelNames) {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel parses a level name such as "n3" or "ALL". Empty input means ALL.
func ParseLevel(s string) (Level, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return LevelAll, nil
	}
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return LevelAll, fmt.Errorf("unknown level %q (expected ALL or N5..N1)", s)
}

// Levels lists every level in display order.
func Levels() []Level {
	return []Level{LevelAll, LevelN5, LevelN4, LevelN3, LevelN2, LevelN1}
}

// Kind identifies a StudyItem variant.
type Kind string

// Item kinds.
const (
	KindKanji    Kind = "kanji"
	KindWord     Kind = "word"
	KindSentence Kind = "sentence"
)

// ParseKind parses an item kind name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindKanji, KindWord, KindSentence:
		return k, nil
	default:
		return "", fmt.Errorf("unknown item kind %q", s)
	}
}

// ItemInfo holds the fields shared by every study item.
type ItemInfo struct {
	ID             string
	Level          Level
	LearningWeight float64
	Category       string
}

// StudyItem is a kanji, word or sentence owned by the content store.
type StudyItem interface {
	Info() ItemInfo
	Kind() Kind
}

// Kanji is a single character with its readings and meaning.
type Kanji struct {
	ItemInfo
	Character string
	Onyomi    string
	Kunyomi   string
	Meaning   string
	Strokes   int
}

// Info implements StudyItem.
func (k Kanji) Info() ItemInfo { return k.ItemInfo }

// Kind implements StudyItem.
func (Kanji) Kind() Kind { return KindKanji }

// Reading returns the kun reading, or the on reading when there is none.
func (k Kanji) Reading() string {
	if k.Kunyomi != "" {
		return k.Kunyomi
	}
	return k.Onyomi
}

// Word is a vocabulary entry.
type Word struct {
	ItemInfo
	Word    string
	Reading string
	Meaning string
}

// Info implements StudyItem.
func (w Word) Info() ItemInfo { return w.ItemInfo }

// Kind implements StudyItem.
func (Word) Kind() Kind { return KindWord }

// Sentence is an annotated sentence or multi-sentence passage.
type Sentence struct {
	ItemInfo
	Title       string
	Text        string // furigana-annotated, e.g. 私[わたし]は学生[がくせい]です
	Translation string
}

// Info implements StudyItem.
func (s Sentence) Info() ItemInfo { return s.ItemInfo }

// Kind implements StudyItem.
func (Sentence) Kind() Kind { return KindSentence }

// WithWeight returns a copy of item carrying a new learning weight.
func WithWeight(item StudyItem, weight float64) StudyItem {
	switch v := item.(type) {
	case Kanji:
		v.LearningWeight = weight
		return v
	case Word:
		v.LearningWeight = weight
		return v
	case Sentence:
		v.LearningWeight = weight
		return v
	default:
		return item
	}
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Mode        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionRecord captures a completed quiz session.
type SessionRecord struct {
	ID         string
	StartedAt  time.Time
	EndedAt    time.Time
	Mode       string
	Level      Level
	Total      int
	Score      int
	DurationMs int64
}

// AnswerRecord stores one graded answer within a session.
type AnswerRecord struct {
	ItemID    string
	Correct   bool
	Revealed  bool
	NewWeight float64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  string
	EndedAt    time.Time
	Mode       string
	Total      int
	Score      int
	DurationMs int64
}

// ItemAggregate aggregates answer stats for one item across sessions.
type ItemAggregate struct {
	ItemID         string
	Label          string
	Kind           Kind
	Correct        int
	Incorrect      int
	LearningWeight float64
}
