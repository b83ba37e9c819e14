package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

func TestSessionMetrics(t *testing.T) {
	acc, sec := SessionMetrics(3, 4, 8000)
	if math.Abs(acc-0.75) > 1e-9 {
		t.Fatalf("expected accuracy 0.75, got %v", acc)
	}
	if math.Abs(sec-2.0) > 1e-9 {
		t.Fatalf("expected 2 sec/quiz, got %v", sec)
	}
	acc, sec = SessionMetrics(0, 0, 1000)
	if acc != 0 || sec != 0 {
		t.Fatalf("expected zeros for empty session, got %v %v", acc, sec)
	}
}

func TestItemAccuracyUnseen(t *testing.T) {
	if got := ItemAccuracy(model.ItemAggregate{}); got != 1 {
		t.Fatalf("expected 1 for unseen item, got %v", got)
	}
	if got := ItemAccuracy(model.ItemAggregate{Correct: 1, Incorrect: 3}); got != 0.25 {
		t.Fatalf("expected 0.25, got %v", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	same := MovingAverage([]float64{5, 7}, 1)
	if same[0] != 5 || same[1] != 7 {
		t.Fatalf("window 1 should copy values, got %v", same)
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	line := Sparkline([]float64{0, 50, 100})
	if len(line) != 3 || line[0] != ' ' || line[2] != '@' {
		t.Fatalf("unexpected sparkline %q", line)
	}
	flat := Sparkline([]float64{3, 3})
	if flat[0] != flat[1] {
		t.Fatalf("flat series should render evenly, got %q", flat)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("unexpected output %q", buf.String())
	}

	buf.Reset()
	sessions := []model.SessionAggregate{
		{SessionID: "a", EndedAt: time.Unix(10, 0), Total: 4, Score: 2, DurationMs: 8000},
		{SessionID: "b", EndedAt: time.Unix(20, 0), Total: 4, Score: 4, DurationMs: 4000},
	}
	if err := RenderSummary(&buf, sessions); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Sessions: 2", "Quizzes: 8 (6 correct)", "Avg Accuracy: 75.00%", "Best Accuracy: 100.00%", "Avg Sec/Quiz: 1.5"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderItemTableWeakestFirst(t *testing.T) {
	var buf bytes.Buffer
	aggs := []model.ItemAggregate{
		{ItemID: "w1", Label: "学生", Kind: model.KindWord, Correct: 3, Incorrect: 0, LearningWeight: 0.2},
		{ItemID: "w2", Label: "箸", Kind: model.KindWord, Correct: 0, Incorrect: 2, LearningWeight: 0.9},
	}
	if err := RenderItemTable(&buf, aggs); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title, header and 2 rows, got %q", lines)
	}
	if !strings.HasPrefix(lines[2], "箸") {
		t.Fatalf("expected weakest item first, got %q", lines[2])
	}
	if displayWidth(lines[2]) != displayWidth(lines[3]) {
		t.Fatalf("rows not aligned:\n%s\n%s", lines[2], lines[3])
	}
}
