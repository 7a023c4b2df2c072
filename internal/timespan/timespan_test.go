package timespan

import (
	"testing"
	"time"
)

func TestNewRejectsNegative(t *testing.T) {
	if _, err := New(-time.Second); err == nil {
		t.Fatalf("expected error for negative duration")
	}
	s, err := New(90*time.Second + 500*time.Millisecond)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := s.String(); got != "01:30.50" {
		t.Fatalf("unexpected format: %q", got)
	}
}

func TestBetweenClampsBackwardClock(t *testing.T) {
	start := time.Unix(100, 0)
	if got := Between(start, start.Add(-time.Second)); got != 0 {
		t.Fatalf("expected zero span, got %v", got)
	}
	if got := Between(start, start.Add(2*time.Second)); got.Seconds() != 2 {
		t.Fatalf("expected 2s span, got %v", got)
	}
}

func TestPartsRoundTrip(t *testing.T) {
	s := FromParts(125, 430000)
	if s.Seconds() != 125 || s.Micros() != 430000 {
		t.Fatalf("unexpected parts: %d %d", s.Seconds(), s.Micros())
	}
}

func TestStringFormatting(t *testing.T) {
	cases := []struct {
		seconds int64
		micros  int64
		want    string
	}{
		{0, 0, "00:00.00"},
		{124, 600000, "02:04.60"},
		{59, 994999, "00:59.99"},
		{59, 999999, "01:00.00"},
		{605, 50000, "10:05.05"},
	}
	for _, tc := range cases {
		if got := FromParts(tc.seconds, tc.micros).String(); got != tc.want {
			t.Fatalf("FromParts(%d, %d) = %q, want %q", tc.seconds, tc.micros, got, tc.want)
		}
	}
}

func TestDiffSign(t *testing.T) {
	session := FromParts(60, 0)
	best := FromParts(65, 500000)
	if got := Diff(session, best); got != "-00:05.50" {
		t.Fatalf("unexpected diff: %q", got)
	}
	if got := Diff(best, session); got != "+00:05.50" {
		t.Fatalf("unexpected diff: %q", got)
	}
	if got := Diff(session, session); got != "+00:00.00" {
		t.Fatalf("unexpected diff: %q", got)
	}
}
