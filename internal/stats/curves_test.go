package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

func TestColumnChart(t *testing.T) {
	lines := ColumnChart([]float64{0, 50, 100}, 10, 2, "%6.1f")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	if lines[0] != " 100.0 |  #" {
		t.Fatalf("unexpected top row %q", lines[0])
	}
	if lines[1] != "   0.0 | ##" {
		t.Fatalf("unexpected bottom row %q", lines[1])
	}
}

func TestColumnChartKeepsNewest(t *testing.T) {
	lines := ColumnChart([]float64{9, 9, 9, 1, 2}, 2, 1, "%6.1f")
	if len(lines) != 1 {
		t.Fatalf("expected 1 row, got %d", len(lines))
	}
	if !strings.HasSuffix(lines[0], "|##") {
		t.Fatalf("expected only the last 2 values, got %q", lines[0])
	}
}

func TestRenderCurves(t *testing.T) {
	var buf bytes.Buffer
	sessions := []model.SessionAggregate{
		{SessionID: "a", Total: 2, Score: 1, DurationMs: 4000},
		{SessionID: "b", Total: 2, Score: 2, DurationMs: 2000},
	}
	if err := RenderCurves(&buf, sessions, 2, 40); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Accuracy % (moving avg 2)") || !strings.Contains(out, "Sec/Quiz (moving avg 2)") {
		t.Fatalf("missing chart titles:\n%s", out)
	}
	if err := RenderCurves(&buf, nil, 2, 40); err != nil {
		t.Fatalf("empty render: %v", err)
	}
}
