package stats

import (
	"strings"
	"testing"
	"time"

	"doomsplit/internal/model"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Code", "Attempts", "Best"}
	rows := [][]string{
		{"E1M1", "12", "01:05.00"},
		{"MAP31", "3", "00:42.50"},
	}
	lines := formatTable(headers, rows, 1, 2)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Code  Attempts     Best" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "E1M1        12 01:05.00" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "MAP31        3 00:42.50" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableLeavesLastColumnUnpadded(t *testing.T) {
	lines := formatTable([]string{"Code", "Name"}, [][]string{
		{"E1M1", "Hangar"},
		{"MAP01", "Entryway"},
	})
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Code  Name" || lines[2] != "MAP01 Entryway" {
		t.Fatalf("unexpected layout: %q", lines)
	}
	for _, line := range lines {
		if strings.HasSuffix(line, " ") {
			t.Fatalf("trailing padding in %q", line)
		}
	}
}

func TestMovingAverage(t *testing.T) {
	values := []int64{10, 20, 30, 40}
	got := MovingAverage(values, 2)
	want := []float64{10, 15, 25, 35}
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMovingAverageWindowOneIsIdentity(t *testing.T) {
	values := []int64{3, 1, 2}
	got := MovingAverage(values, 1)
	for i := range values {
		if got[i] != float64(values[i]) {
			t.Fatalf("index %d: got %v, want %v", i, got[i], values[i])
		}
	}
}

func TestSparklineFlatInput(t *testing.T) {
	got := Sparkline([]float64{5, 5, 5, 5})
	if len(got) != 4 {
		t.Fatalf("expected 4 characters, got %q", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] != got[0] {
			t.Fatalf("flat input should render a flat line: %q", got)
		}
	}
}

func TestSparklineRange(t *testing.T) {
	got := Sparkline([]float64{0, 10})
	if len(got) != 2 {
		t.Fatalf("expected 2 characters, got %q", got)
	}
	if got[0] != sparkChars[0] || got[1] != sparkChars[len(sparkChars)-1] {
		t.Fatalf("extremes should map to extreme characters: %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("empty input should render nothing")
	}
}

func TestRenderAggregates(t *testing.T) {
	var b strings.Builder
	aggs := []model.AttemptAggregate{
		{Code: "E1M1", Count: 12, BestUS: 65_000_000, MeanUS: 72_500_000, PBCount: 2},
	}
	if err := RenderAggregates(&b, aggs); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "E1M1") || !strings.Contains(out, "01:05.00") || !strings.Contains(out, "01:12.50") {
		t.Fatalf("unexpected output: %q", out)
	}

	b.Reset()
	if err := RenderAggregates(&b, nil); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if b.String() != "No attempts found.\n" {
		t.Fatalf("unexpected empty output: %q", b.String())
	}
}

func TestRenderTrendClipsToWidth(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	attempts := make([]model.Attempt, 10)
	for i := range attempts {
		attempts[i] = model.Attempt{
			Code:       "E1M1",
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			DurationUS: int64(60+i) * 1_000_000,
		}
	}
	attempts[4].DurationUS = 42_000_000

	var b strings.Builder
	if err := RenderTrend(&b, attempts, 1, 5); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected a title and a sparkline, got %q", b.String())
	}
	if !strings.Contains(lines[0], "10 attempts") || !strings.Contains(lines[0], "00:42.00") {
		t.Fatalf("unexpected title: %q", lines[0])
	}
	if len(lines[1]) != 5 {
		t.Fatalf("sparkline should be clipped to 5 columns: %q", lines[1])
	}

	b.Reset()
	if err := RenderTrend(&b, nil, 1, 5); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if b.String() != "" {
		t.Fatalf("no attempts should render nothing: %q", b.String())
	}
}
