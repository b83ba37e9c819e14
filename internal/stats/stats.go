// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes accuracy and seconds per quiz for a session.
func SessionMetrics(score, total int, durationMs int64) (accuracy, secondsPerQuiz float64) {
	if total <= 0 {
		return 0, 0
	}
	accuracy = float64(score) / float64(total)
	if durationMs > 0 {
		secondsPerQuiz = float64(durationMs) / 1000.0 / float64(total)
	}
	return accuracy, secondsPerQuiz
}

// ItemAccuracy returns the share of correct answers; unseen items count as 1.
func ItemAccuracy(agg model.ItemAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[clampInt(idx, 0, len(sparkChars)-1)])
	}
	return b.String()
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RenderSummary prints a summary of sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var quizzes, correct int
	var totalAcc, totalSec, bestAcc float64
	for _, s := range sessions {
		acc, sec := SessionMetrics(s.Score, s.Total, s.DurationMs)
		quizzes += s.Total
		correct += s.Score
		totalAcc += acc
		totalSec += sec
		bestAcc = math.Max(bestAcc, acc)
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Quizzes: %d (%d correct)", quizzes, correct),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count*100),
		fmt.Sprintf("Best Accuracy: %.2f%%", bestAcc*100),
		fmt.Sprintf("Avg Sec/Quiz: %.1f", totalSec/count),
		fmt.Sprintf("Accuracy Trend: %s", Sparkline(accuracySeries(sessions))),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func accuracySeries(sessions []model.SessionAggregate) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		acc, _ := SessionMetrics(s.Score, s.Total, s.DurationMs)
		out[i] = acc * 100
	}
	return out
}

func secondsSeries(sessions []model.SessionAggregate) []float64 {
	out := make([]float64, len(sessions))
	for i, s := range sessions {
		_, sec := SessionMetrics(s.Score, s.Total, s.DurationMs)
		out[i] = sec
	}
	return out
}

// ItemRows formats aggregates as table rows, weakest first.
func ItemRows(aggs []model.ItemAggregate) [][]string {
	sorted := make([]model.ItemAggregate, len(aggs))
	copy(sorted, aggs)
	sortWeakest(sorted)
	rows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		rows = append(rows, []string{
			agg.Label,
			string(agg.Kind),
			fmt.Sprintf("%.2f%%", ItemAccuracy(agg)*100),
			fmt.Sprintf("%d", agg.Correct),
			fmt.Sprintf("%d", agg.Incorrect),
			fmt.Sprintf("%.2f", agg.LearningWeight),
		})
	}
	return rows
}

// ItemHeaders are the column names of ItemRows.
var ItemHeaders = []string{"Item", "Kind", "Accuracy", "Correct", "Incorrect", "Weight"}

// RenderItemTable prints per-item aggregates.
func RenderItemTable(w io.Writer, aggs []model.ItemAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No item stats found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Item (Windowed)"); err != nil {
		return err
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(ItemHeaders, ItemRows(aggs), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// sortWeakest orders by lowest accuracy, then highest weight, then label.
func sortWeakest(aggs []model.ItemAggregate) {
	sort.SliceStable(aggs, func(i, j int) bool {
		ai, aj := ItemAccuracy(aggs[i]), ItemAccuracy(aggs[j])
		if ai != aj {
			return ai < aj
		}
		if aggs[i].LearningWeight != aggs[j].LearningWeight {
			return aggs[i].LearningWeight > aggs[j].LearningWeight
		}
		return aggs[i].Label < aggs[j].Label
	})
}
