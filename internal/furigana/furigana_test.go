package furigana

import "testing"

func TestParseSentence(t *testing.T) {
	segs := Parse("私[わたし]は学生[がくせい]です")
	want := []Segment{
		{Base: "私", Reading: "わたし", Start: 0, End: 3},
		{Base: "は", Start: 3, End: 6},
		{Base: "学生", Reading: "がくせい", Start: 6, End: 12},
		{Base: "です", Start: 12, End: 18},
	}
	if len(segs) != len(want) {
		t.Fatalf("expected %d segments, got %d: %+v", len(want), len(segs), segs)
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Fatalf("segment %d: got %+v, want %+v", i, segs[i], want[i])
		}
	}
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"ひらがなだけ",
		"私[わたし]は学生[がくせい]です",
		"今日[きょう]は、いい天気[てんき]ですね。",
		"テレビ[てれび]を見[み]る",
		"きょう[今日]",
		"猫[ねこ] が 好[す]き",
		`\[注\] 本[ほん]`,
		`\[[よみ]`,
		`注\][ちゅう]`,
	}
	for _, in := range inputs {
		segs := Parse(in)
		if got := Base(segs); got != Strip(in) {
			t.Fatalf("Base(Parse(%q)) = %q, Strip = %q", in, got, Strip(in))
		}
		if got := Format(segs); got != in {
			t.Fatalf("Format(Parse(%q)) = %q", in, got)
		}
	}
}

func TestSegmentRangesIndexStrippedText(t *testing.T) {
	in := "今日[きょう]は、いい天気[てんき]ですね。"
	stripped := Strip(in)
	for _, s := range Parse(in) {
		if stripped[s.Start:s.End] != s.Base {
			t.Fatalf("range %d:%d gives %q, want %q", s.Start, s.End, stripped[s.Start:s.End], s.Base)
		}
	}
}

func TestMalformedIsLiteral(t *testing.T) {
	tests := []struct {
		in    string
		strip string
	}{
		{"学生[がくせい", "学生[がくせい"},
		{"学生[]です", "学生[]です"},
		{"学生[ ]です", "学生[ ]です"},
		{"a]b", "a]b"},
		{"[よみ]", "[よみ]"},
		{"学[生[せい]", "学[生"},
	}
	for _, tc := range tests {
		if got := Strip(tc.in); got != tc.strip {
			t.Fatalf("Strip(%q) = %q, want %q", tc.in, got, tc.strip)
		}
	}
}

func TestNestedBracketKeepsInnerAnnotation(t *testing.T) {
	segs := Parse("学[生[せい]")
	last := segs[len(segs)-1]
	if last.Base != "生" || last.Reading != "せい" {
		t.Fatalf("expected inner annotation on 生, got %+v", last)
	}
}

func TestStripToReadingForm(t *testing.T) {
	got := StripToReadingForm("私[わたし]は学生[がくせい]です")
	if got != "わたしはがくせいです" {
		t.Fatalf("unexpected reading form %q", got)
	}
	if got := Strip("私[わたし]は学生[がくせい]です"); got != "私は学生です" {
		t.Fatalf("unexpected display form %q", got)
	}
}

func TestHasAnnotation(t *testing.T) {
	if !HasAnnotation("本[ほん]") {
		t.Fatalf("expected annotation")
	}
	for _, in := range []string{"本", "本[", "[ほん]", "本[]"} {
		if HasAnnotation(in) {
			t.Fatalf("did not expect annotation in %q", in)
		}
	}
}

func TestKatakanaToHiragana(t *testing.T) {
	if got := KatakanaToHiragana("ガクセイ"); got != "がくせい" {
		t.Fatalf("got %q", got)
	}
	if got := KatakanaToHiragana("コーヒー"); got != "こーひー" {
		t.Fatalf("prolonged mark should pass through, got %q", got)
	}
}

func TestContainsKanji(t *testing.T) {
	if !ContainsKanji("食べる") || ContainsKanji("たべる") {
		t.Fatalf("unexpected ContainsKanji result")
	}
}
