package answer

import "testing"

func TestEquals(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"学生", "学生 ", true},
		{"私[わたし]は", "私は", true},
		{"がくせい", "がくせい。", true},
		{"Student", "student", true},
		{"ＡＢＣ", "abc", true},
		{"わたし  は", " わたし は", true},
		{"がくせい", "がっこう", false},
		{"コーヒー", "コヒ", false},
		{"学生［がくせい］", "学生", true},
		{"がくせい", "ガクセイ", true},
		{"ﾃﾚﾋﾞ", "てれび", true},
	}
	for _, tc := range tests {
		if got := Equals(tc.a, tc.b); got != tc.want {
			t.Fatalf("Equals(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"  Hello, World!  ",
		"私[わたし]は学生[がくせい]です。",
		"a . b",
		"「ＡＢＣ」？",
		"ﾃﾚﾋﾞ",
		"Straße",
		"学生[がくせい",
		"学生［がくせい］",
		"a\\[x]",
		"x\\[[y]]",
		"コーヒー",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeHalfwidthKatakana(t *testing.T) {
	if got := Normalize("ﾃﾚﾋﾞ"); got != "てれび" {
		t.Fatalf("expected halfwidth katakana to fold to hiragana, got %q", got)
	}
}

func TestNormalizeFullwidthBrackets(t *testing.T) {
	if got := Normalize("私［わたし］は学生［がくせい］です。"); got != "私は学生です" {
		t.Fatalf("expected IME brackets to be read as furigana, got %q", got)
	}
}

func TestResponseAccessors(t *testing.T) {
	if s, ok := Text("はい").AsText(); !ok || s != "はい" {
		t.Fatalf("unexpected text response")
	}
	if _, ok := Text("はい").AsChoice(); ok {
		t.Fatalf("text response should not be a choice")
	}
	if i, ok := Choice(2).AsChoice(); !ok || i != 2 {
		t.Fatalf("unexpected choice response")
	}
	src := map[int]string{0: "わたし"}
	r := Blanks(src)
	src[0] = "changed"
	got, ok := r.AsBlanks()
	if !ok || got[0] != "わたし" {
		t.Fatalf("blanks should be copied, got %v", got)
	}
	if s := Blanks(map[int]string{1: "b", 0: "a"}).String(); s != "a / b" {
		t.Fatalf("unexpected String %q", s)
	}
}
