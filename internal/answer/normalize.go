// Package answer decides whether a learner's answer matches the expected one.
package answer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/lass9436/YomiYomi-sub002/internal/furigana"
)

// punctuation is checked after NFKC, so fullwidth ASCII forms are already folded.
const punctuation = ".,?!;:'\"。、・「」『』…‥"

var folder = cases.Fold()

// maxPasses bounds the fixpoint loop in Normalize.
const maxPasses = 8

// Normalize maps text to the canonical form used for answer comparison.
// The result is stable: Normalize(Normalize(x)) == Normalize(x).
//
// Fullwidth brackets typed through an IME only become annotation delimiters
// after NFKC, and stripping unescapes literal brackets, so the pipeline is
// repeated until it no longer changes the text.
func Normalize(text string) string {
	for i := 0; i < maxPasses; i++ {
		next := normalizePass(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func normalizePass(text string) string {
	text = norm.NFKC.String(text)
	if furigana.HasAnnotation(text) {
		text = norm.NFKC.String(furigana.Strip(text))
	}
	text = collapseSpace(text)
	text = norm.NFKC.String(folder.String(text))
	// Speech recognizers and IMEs disagree on kana script; readings are
	// stored in hiragana.
	text = furigana.KatakanaToHiragana(text)
	text = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, text)
	// Dropped punctuation can leave doubled or trailing spaces.
	return collapseSpace(text)
}

// Equals reports whether two answers are the same after normalization.
func Equals(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
