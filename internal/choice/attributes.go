package choice

import (
	"sort"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

// Attribute names double as study mode names.
const (
	KanjiReading   = "kanji-reading"
	KanjiMeaning   = "kanji-meaning"
	KanjiCharacter = "kanji-character"
	WordReading    = "word-reading"
	WordMeaning    = "word-meaning"
	WordWord       = "word-word"
)

func kanjiField(f func(model.Kanji) string) func(model.StudyItem) string {
	return func(it model.StudyItem) string {
		if k, ok := it.(model.Kanji); ok {
			return f(k)
		}
		return ""
	}
}

func wordField(f func(model.Word) string) func(model.StudyItem) string {
	return func(it model.StudyItem) string {
		if w, ok := it.(model.Word); ok {
			return f(w)
		}
		return ""
	}
}

var (
	kanjiChar    = kanjiField(func(k model.Kanji) string { return k.Character })
	kanjiReading = kanjiField(model.Kanji.Reading)
	kanjiMeaning = kanjiField(func(k model.Kanji) string { return k.Meaning })
	wordWord     = wordField(func(w model.Word) string { return w.Word })
	wordReading  = wordField(func(w model.Word) string { return w.Reading })
	wordMeaning  = wordField(func(w model.Word) string { return w.Meaning })
)

var itemAttributes = map[string]Attribute[model.StudyItem]{
	KanjiReading:   {Name: KanjiReading, Question: kanjiChar, Answer: kanjiReading},
	KanjiMeaning:   {Name: KanjiMeaning, Question: kanjiChar, Answer: kanjiMeaning},
	KanjiCharacter: {Name: KanjiCharacter, Question: kanjiMeaning, Answer: kanjiChar},
	WordReading:    {Name: WordReading, Question: wordMeaning, Answer: wordReading},
	WordMeaning:    {Name: WordMeaning, Question: wordWord, Answer: wordMeaning},
	WordWord:       {Name: WordWord, Question: wordReading, Answer: wordWord},
}

var attributeKinds = map[string]model.Kind{
	KanjiReading:   model.KindKanji,
	KanjiMeaning:   model.KindKanji,
	KanjiCharacter: model.KindKanji,
	WordReading:    model.KindWord,
	WordMeaning:    model.KindWord,
	WordWord:       model.KindWord,
}

// ItemAttribute returns the predefined attribute with the given name and the
// item kind it applies to.
func ItemAttribute(name string) (Attribute[model.StudyItem], model.Kind, bool) {
	attr, ok := itemAttributes[name]
	return attr, attributeKinds[name], ok
}

// ItemAttributeNames lists the predefined attribute names, sorted.
func ItemAttributeNames() []string {
	names := make([]string, 0, len(itemAttributes))
	for name := range itemAttributes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
