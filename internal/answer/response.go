package answer

import (
	"sort"
	"strconv"
	"strings"
)

type responseKind int

const (
	kindNone responseKind = iota
	kindText
	kindChoice
	kindBlanks
)

// Response is what a learner submits: free text, an option index, or one
// text per cloze blank.
type Response struct {
	kind   responseKind
	text   string
	choice int
	blanks map[int]string
}

// Text wraps a typed or spoken answer.
func Text(s string) Response {
	return Response{kind: kindText, text: s}
}

// Choice wraps a selected option index.
func Choice(i int) Response {
	return Response{kind: kindChoice, choice: i}
}

// Blanks wraps answers keyed by blank index. The map is copied.
func Blanks(filled map[int]string) Response {
	cp := make(map[int]string, len(filled))
	for k, v := range filled {
		cp[k] = v
	}
	return Response{kind: kindBlanks, blanks: cp}
}

// AsText returns the free-text answer, if any.
func (r Response) AsText() (string, bool) {
	return r.text, r.kind == kindText
}

// AsChoice returns the selected option index, if any.
func (r Response) AsChoice() (int, bool) {
	return r.choice, r.kind == kindChoice
}

// AsBlanks returns the per-blank answers, if any.
func (r Response) AsBlanks() (map[int]string, bool) {
	return r.blanks, r.kind == kindBlanks
}

// String renders the response for logs.
func (r Response) String() string {
	switch r.kind {
	case kindText:
		return r.text
	case kindChoice:
		return "#" + strconv.Itoa(r.choice)
	case kindBlanks:
		keys := make([]int, 0, len(r.blanks))
		for k := range r.blanks {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, r.blanks[k])
		}
		return strings.Join(parts, " / ")
	default:
		return ""
	}
}
