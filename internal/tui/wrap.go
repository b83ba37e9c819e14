package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/lass9436/YomiYomi-sub002/internal/cloze"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

type span struct {
	text  string
	style lipgloss.Style
}

func styleSpans(spans []span) []styledRune {
	var out []styledRune
	for _, sp := range spans {
		for _, r := range sp.text {
			out = append(out, styledRune{
				s:       sp.style.Render(string(r)),
				width:   runewidth.RuneWidth(r),
				isSpace: r == ' ',
			})
		}
	}
	return out
}

// passageSpans lays out a cloze prompt. Each blank follows the base text it
// hides, e.g. 学生(＿＿). The focused blank is underlined; reveal shows the
// answer key in place of the learner's input.
func passageSpans(q cloze.ClozeQuiz, answers map[int]string, focus int, reveal bool) []span {
	var spans []span
	last := 0
	for _, b := range q.Blanks {
		r := b.PromptRange
		spans = append(spans, span{q.PromptText[last:r.Start], textStyle})
		if b.Segment >= 0 && b.Segment < len(q.Segments) {
			spans = append(spans, span{q.Segments[b.Segment].Base, baseStyle})
		}

		text, style := q.PromptText[r.Start:r.End], blankStyle
		if a := answers[b.Index]; a != "" {
			text, style = a, filledStyle
		}
		if reveal {
			text, style = b.CorrectAnswer, revealStyle
		}
		if b.Index == focus && !reveal {
			style = style.Underline(true)
		}
		spans = append(spans,
			span{"(", mutedStyle},
			span{text, style},
			span{")", mutedStyle},
		)
		last = r.End
	}
	spans = append(spans, span{q.PromptText[last:], textStyle})
	return spans
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits, or anywhere when
// the line has no space, which is the usual case for Japanese text.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
			} else {
				out.WriteString(renderStyledRunes(line))
				line = line[:0]
			}
			out.WriteRune('\n')
			lineWidth, lastSpaceIdx = measure(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func measure(line []styledRune) (width, lastSpace int) {
	lastSpace = -1
	for i, item := range line {
		width += item.width
		if item.isSpace {
			lastSpace = i
		}
	}
	return width, lastSpace
}

// wrapText wraps unstyled text with the same rules.
func wrapText(text string, style lipgloss.Style, width int) string {
	return wrapStyledRunes(styleSpans([]span{{text, style}}), width)
}
