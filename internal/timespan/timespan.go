// Package timespan provides the non-negative time spans used for run times.
package timespan

import (
	"fmt"
	"time"
)

// Span is a non-negative duration with microsecond resolution.
type Span time.Duration

// New builds a Span from a duration. Negative durations are rejected.
func New(d time.Duration) (Span, error) {
	if d < 0 {
		return 0, fmt.Errorf("negative span: %v", d)
	}
	return Span(d.Truncate(time.Microsecond)), nil
}

// Between measures the span from start to end, clamping to zero if the clock
// went backwards.
func Between(start, end time.Time) Span {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return Span(d.Truncate(time.Microsecond))
}

// FromParts builds a Span from whole seconds plus microseconds, the
// decomposition stored in the save file.
func FromParts(seconds, micros int64) Span {
	if seconds < 0 {
		seconds = 0
	}
	if micros < 0 {
		micros = 0
	}
	return Span(time.Duration(seconds)*time.Second + time.Duration(micros)*time.Microsecond)
}

// Seconds returns the whole-second part of the span.
func (s Span) Seconds() int64 {
	return int64(time.Duration(s) / time.Second)
}

// Micros returns the sub-second part of the span in microseconds (0..999999).
func (s Span) Micros() int64 {
	return int64(time.Duration(s)%time.Second) / int64(time.Microsecond)
}

// Duration converts the span back to a time.Duration.
func (s Span) Duration() time.Duration {
	return time.Duration(s)
}

// String formats the span as MM:SS.cc, with minutes and seconds zero-padded
// and microseconds rounded to two display digits.
func (s Span) String() string {
	secs := s.Seconds()
	centis := (s.Micros() + 5000) / 10000
	if centis == 100 {
		centis = 0
		secs++
	}
	return fmt.Sprintf("%02d:%02d.%02d", secs/60, secs%60, centis)
}

// Diff renders the signed delta between a session time and a personal best:
// "-" when the session beat the best, "+" otherwise.
func Diff(session, best Span) string {
	if session < best {
		return "-" + (best - session).String()
	}
	return "+" + (session - best).String()
}
