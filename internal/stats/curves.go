package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/lass9436/YomiYomi-sub002/internal/model"
)

const (
	defaultTermWidth = 80
	chartHeight      = 6
	axisWidth        = 8
)

// TerminalWidth reports the width of stdout, or 80 when it is not a terminal.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTermWidth
	}
	return w
}

// RenderCurves prints moving-average column charts for accuracy and
// seconds per quiz. A width of zero uses the terminal width.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, width int) error {
	if len(sessions) == 0 {
		return nil
	}
	if width <= 0 {
		width = TerminalWidth()
	}
	charts := []struct {
		title  string
		values []float64
		format string
	}{
		{fmt.Sprintf("Accuracy %% (moving avg %d)", window), MovingAverage(accuracySeries(sessions), window), "%6.1f"},
		{fmt.Sprintf("Sec/Quiz (moving avg %d)", window), MovingAverage(secondsSeries(sessions), window), "%6.1f"},
	}
	for _, c := range charts {
		lines := append([]string{c.title}, ColumnChart(c.values, width-axisWidth, chartHeight, c.format)...)
		lines = append(lines, "")
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// ColumnChart draws values as vertical bars, newest on the right. Only the
// last cols values are drawn. The top and bottom rows carry the max and min
// labels formatted with format.
func ColumnChart(values []float64, cols, height int, format string) []string {
	if len(values) == 0 || height <= 0 {
		return nil
	}
	if cols < 1 {
		cols = 1
	}
	if len(values) > cols {
		values = values[len(values)-cols:]
	}
	lo, hi := minMax(values)
	if lo > 0 {
		lo = 0
	}
	span := hi - lo
	bars := make([]int, len(values))
	for i, v := range values {
		if span < 1e-9 {
			bars[i] = height
			continue
		}
		bars[i] = clampInt(int(math.Round((v-lo)/span*float64(height))), 0, height)
	}

	lines := make([]string, 0, height)
	for row := height; row >= 1; row-- {
		label := strings.Repeat(" ", axisWidth-2)
		switch row {
		case height:
			label = fmt.Sprintf(format, hi)
		case 1:
			label = fmt.Sprintf(format, lo)
		}
		var b strings.Builder
		b.WriteString(label)
		b.WriteString(" |")
		for _, h := range bars {
			if h >= row {
				b.WriteByte('#')
			} else {
				b.WriteByte(' ')
			}
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return lines
}
