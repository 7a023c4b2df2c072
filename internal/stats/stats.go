// Package stats contains attempt statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"doomsplit/internal/model"
	"doomsplit/internal/timespan"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage smooths attempt durations, in microseconds, with a trailing
// mean over the given window. A window of one or less is the identity.
func MovingAverage(durationsUS []int64, window int) []float64 {
	out := make([]float64, len(durationsUS))
	if window <= 1 {
		for i, v := range durationsUS {
			out[i] = float64(v)
		}
		return out
	}
	var sum int64
	for i, v := range durationsUS {
		sum += v
		if i >= window {
			sum -= durationsUS[i-window]
		}
		den := i + 1
		if den > window {
			den = window
		}
		out[i] = float64(sum) / float64(den)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderAggregates prints a per-level summary table of recorded attempts.
func RenderAggregates(w io.Writer, aggs []model.AttemptAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No attempts found.")
		return err
	}
	headers := []string{"Code", "Attempts", "Best", "Mean", "PBs"}
	rows := make([][]string, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, []string{
			agg.Code,
			fmt.Sprintf("%d", agg.Count),
			spanOf(agg.BestUS).String(),
			spanOf(agg.MeanUS).String(),
			fmt.Sprintf("%d", agg.PBCount),
		})
	}
	for _, line := range formatTable(headers, rows, 1, 2, 3, 4) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints a duration sparkline over the given attempts, smoothed
// with a moving average and clipped to maxWidth columns when positive.
func RenderTrend(w io.Writer, attempts []model.Attempt, window, maxWidth int) error {
	if len(attempts) == 0 {
		return nil
	}
	durations := make([]int64, len(attempts))
	for i, a := range attempts {
		durations[i] = a.DurationUS
	}
	smoothed := MovingAverage(durations, window)
	if maxWidth > 0 && len(smoothed) > maxWidth {
		smoothed = smoothed[len(smoothed)-maxWidth:]
	}
	best := attempts[0]
	for _, a := range attempts[1:] {
		if a.DurationUS < best.DurationUS {
			best = a
		}
	}
	if _, err := fmt.Fprintf(w, "Trend (%d attempts, best %s):\n", len(attempts),
		spanOf(best.DurationUS)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, Sparkline(smoothed))
	return err
}

func spanOf(us int64) timespan.Span {
	return timespan.FromParts(us/1_000_000, us%1_000_000)
}
