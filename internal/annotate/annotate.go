// Package annotate adds furigana readings to plain Japanese text using the
// kagome morphological analyzer.
package annotate

import (
	"strings"
	"unicode/utf8"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/lass9436/YomiYomi-sub002/internal/furigana"
)

// Annotator turns plain text into BASE[READING] text.
type Annotator struct {
	t *tokenizer.Tokenizer
}

// New creates an Annotator backed by the IPA dictionary.
func New() (*Annotator, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &Annotator{t: t}, nil
}

// Annotate returns text with a hiragana reading attached to every kanji run
// the dictionary can read. Kana before and after a kanji run stay outside
// the brackets, so 食べる becomes 食[た]べる. The result parses back to the
// original text with furigana.Strip.
func (a *Annotator) Annotate(text string) string {
	var segs []furigana.Segment
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		segs = append(segs, tokenSegments(token.Surface, reading(token.Features()))...)
	}
	return furigana.Format(segs)
}

// Readings returns the hiragana reading of text, token by token.
func (a *Annotator) Readings(text string) string {
	var b strings.Builder
	for _, token := range a.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if r := reading(token.Features()); r != "" {
			b.WriteString(r)
			continue
		}
		b.WriteString(token.Surface)
	}
	return b.String()
}

// IPA features: 7 is the katakana reading.
func reading(features []string) string {
	if len(features) > 7 && features[7] != "*" {
		return furigana.KatakanaToHiragana(features[7])
	}
	return ""
}

type run struct {
	text  string
	kanji bool
}

func splitRuns(s string) ([]run, bool) {
	var runs []run
	for _, r := range s {
		k := furigana.ContainsKanji(string(r))
		if !k && !furigana.IsKana(r) {
			return nil, false
		}
		if n := len(runs); n > 0 && runs[n-1].kanji == k {
			runs[n-1].text += string(r)
			continue
		}
		runs = append(runs, run{text: string(r), kanji: k})
	}
	return runs, true
}

// tokenSegments aligns a token's reading with its kanji runs. Tokens that
// cannot be aligned are returned as plain text.
func tokenSegments(surface, hira string) []furigana.Segment {
	plain := []furigana.Segment{{Base: surface}}
	if hira == "" || !furigana.ContainsKanji(surface) {
		return plain
	}
	runs, ok := splitRuns(surface)
	if !ok {
		return plain
	}

	var segs []furigana.Segment
	pos := 0
	pending := ""
	for _, r := range runs {
		if r.kanji {
			pending = r.text
			continue
		}
		kana := furigana.KatakanaToHiragana(r.text)
		rest := hira[pos:]
		if pending == "" {
			if !strings.HasPrefix(rest, kana) {
				return plain
			}
			segs = append(segs, furigana.Segment{Base: r.text})
			pos += len(kana)
			continue
		}
		// The kanji run reads at least one character.
		_, first := utf8.DecodeRuneInString(rest)
		if first == 0 {
			return plain
		}
		idx := strings.Index(rest[first:], kana)
		if idx < 0 {
			return plain
		}
		segs = append(segs,
			furigana.Segment{Base: pending, Reading: rest[:first+idx]},
			furigana.Segment{Base: r.text},
		)
		pos += first + idx + len(kana)
		pending = ""
	}
	if pending != "" {
		if pos >= len(hira) {
			return plain
		}
		segs = append(segs, furigana.Segment{Base: pending, Reading: hira[pos:]})
	} else if pos != len(hira) {
		return plain
	}
	return segs
}
