package furigana

import (
	"strings"
	"unicode"
)

// KatakanaToHiragana maps katakana letters to their hiragana counterparts.
// Other runes, including the prolonged sound mark, pass through unchanged.
func KatakanaToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ァ' && r <= 'ヶ' {
			return r - 0x60
		}
		return r
	}, s)
}

// isKanji reports whether r can carry a reading: Han ideographs plus the
// iteration and abbreviation marks written alongside them.
func isKanji(r rune) bool {
	switch r {
	case '々', '〆', 'ヵ', 'ヶ':
		return true
	}
	return unicode.Is(unicode.Han, r)
}

// ContainsKanji reports whether s has at least one kanji.
func ContainsKanji(s string) bool {
	for _, r := range s {
		if isKanji(r) {
			return true
		}
	}
	return false
}

// IsKana reports whether r is hiragana, katakana or the prolonged sound mark.
func IsKana(r rune) bool {
	return unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) || r == 'ー'
}
