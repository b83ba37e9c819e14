// Package furigana parses inline reading annotations of the form 漢字[かんじ].
package furigana

import (
	"strings"
	"unicode/utf8"
)

const (
	openDelim  = '['
	closeDelim = ']'
	escape     = '\\'
)

// Segment is one run of visible text with an optional reading.
// Start and End are byte offsets into the stripped display form.
type Segment struct {
	Base    string
	Reading string
	Start   int
	End     int
}

// Annotated reports whether the segment carries a reading.
func (s Segment) Annotated() bool {
	return s.Reading != ""
}

// Parse splits annotated text into segments in a single left-to-right scan.
// Malformed annotations (unmatched or empty brackets) are kept as literal
// text; Parse never fails.
func Parse(text string) []Segment {
	p := &parser{}
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == escape && i+size < len(text) && (text[i+size] == openDelim || text[i+size] == closeDelim) {
			p.pending.WriteByte(text[i+size])
			i += size + 1
			continue
		}
		if r == openDelim {
			if reading, n, ok := readingAt(text[i:]); ok && p.emitAnnotated(reading) {
				i += n
				continue
			}
		}
		p.pending.WriteRune(r)
		i += size
	}
	p.flushPlain(p.pending.String())
	return p.segments
}

type parser struct {
	segments []Segment
	pending  strings.Builder
	offset   int
}

func (p *parser) flushPlain(s string) {
	if s == "" {
		return
	}
	// Adjacent plain runs are merged so segment boundaries only fall on readings.
	if n := len(p.segments); n > 0 && !p.segments[n-1].Annotated() {
		p.segments[n-1].Base += s
		p.segments[n-1].End += len(s)
		p.offset += len(s)
		return
	}
	p.segments = append(p.segments, Segment{Base: s, Start: p.offset, End: p.offset + len(s)})
	p.offset += len(s)
}

func (p *parser) emitAnnotated(reading string) bool {
	pending := p.pending.String()
	if pending == "" {
		return false
	}
	split := baseStart(pending)
	if split == len(pending) {
		split = 0
	}
	p.flushPlain(pending[:split])
	base := pending[split:]
	p.segments = append(p.segments, Segment{
		Base:    base,
		Reading: reading,
		Start:   p.offset,
		End:     p.offset + len(base),
	})
	p.offset += len(base)
	p.pending.Reset()
	return true
}

// readingAt expects s to start with the opening delimiter and returns the
// enclosed reading and the number of bytes consumed.
func readingAt(s string) (string, int, bool) {
	rest := s[1:]
	j := strings.IndexAny(rest, "[]")
	if j < 0 || rest[j] == openDelim {
		return "", 0, false
	}
	reading := rest[:j]
	if strings.TrimSpace(reading) == "" {
		return "", 0, false
	}
	return reading, j + 2, true
}

// baseStart returns the byte index where the trailing kanji run of s begins.
func baseStart(s string) int {
	start := len(s)
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:start])
		if !isKanji(r) {
			break
		}
		start -= size
	}
	return start
}

// Strip returns the display form: base text only, readings removed.
func Strip(text string) string {
	return Base(Parse(text))
}

// StripToReadingForm returns readings where present and base text elsewhere.
func StripToReadingForm(text string) string {
	return ReadingForm(Parse(text))
}

// Base concatenates the base text of segments.
func Base(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Base)
	}
	return b.String()
}

// ReadingForm concatenates readings, falling back to base text.
func ReadingForm(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		if s.Annotated() {
			b.WriteString(s.Reading)
			continue
		}
		b.WriteString(s.Base)
	}
	return b.String()
}

// Format renders segments back into annotated text. Literal brackets in base
// text are escaped, so Format(Parse(x)) == x for well-formed input.
func Format(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		writeEscaped(&b, s.Base)
		if !s.Annotated() {
			continue
		}
		b.WriteRune(openDelim)
		b.WriteString(s.Reading)
		b.WriteRune(closeDelim)
	}
	return b.String()
}

func writeEscaped(b *strings.Builder, s string) {
	for _, r := range s {
		if r == openDelim || r == closeDelim {
			b.WriteRune(escape)
		}
		b.WriteRune(r)
	}
}

// HasAnnotation reports whether text contains at least one well-formed reading.
func HasAnnotation(text string) bool {
	if !strings.ContainsRune(text, openDelim) {
		return false
	}
	for _, s := range Parse(text) {
		if s.Annotated() {
			return true
		}
	}
	return false
}
