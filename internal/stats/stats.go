// Package stats records typing attempts and derives per-character reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	sparkChars          = " .:-=+*#%@"
	defaultTrendWindow  = 5
	terminalWidthBackup = 80
	trendLabel          = "Reaction trend: "
)

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// TrendLine smooths reaction times and returns a sparkline of the most recent
// width points. Higher glyphs are slower answers.
func TrendLine(trend []int64, window, width int) string {
	if len(trend) == 0 || width <= 0 {
		return ""
	}
	values := make([]float64, len(trend))
	for i, ms := range trend {
		values[i] = float64(ms)
	}
	values = MovingAverage(values, window)
	if len(values) > width {
		values = values[len(values)-width:]
	}
	return Sparkline(values)
}

// RenderTrend prints the reaction trend. width 0 sizes it to the terminal.
func RenderTrend(w io.Writer, trend []int64, window, width int) error {
	if len(trend) == 0 {
		return nil
	}
	if width <= 0 {
		width = TrendWidthFor(terminalWidth())
	}
	line := TrendLine(trend, window, width)
	if _, err := fmt.Fprintf(w, "%s%s\n", trendLabel, line); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s(last %d hits, %d-hit moving average)\n", strings.Repeat(" ", len(trendLabel)), min(len(trend), width), max(window, 1))
	return err
}

// TrendWidthFor fits the trend line into totalWidth columns.
func TrendWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidthBackup
	}
	return max(totalWidth-len(trendLabel), 10)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
