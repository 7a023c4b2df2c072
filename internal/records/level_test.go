package records

import (
	"errors"
	"testing"
	"time"

	"doomsplit/internal/timespan"
)

func TestNewLevelIdentity(t *testing.T) {
	cases := []struct {
		code       string
		chapter    int
		number     int
		name       string
		secretExit string
		secretOf   string
		final      bool
	}{
		{"E1M1", 1, 1, "Hangar", "", "", false},
		{"E1M3", 1, 3, "Toxin Refinery", "E1M9", "", false},
		{"E1M8", 1, 8, "Phobos Anomaly", "", "", true},
		{"E1M9", 1, 9, "Military Base", "", "E1M4", false},
		{"E2M5", 2, 5, "Command Center", "E2M9", "", false},
		{"E3M6", 3, 6, "Mt. Erebus", "E3M9", "", false},
		{"E4M2", 4, 2, "Perfect Hatred", "E4M9", "", false},
		{"E4M9", 4, 9, "Fear", "", "E4M3", false},
		{"MAP01", 5, 1, "Entryway", "", "", false},
		{"MAP15", 5, 15, "Industrial Zone", "MAP31", "", false},
		{"MAP31", 5, 31, "Wolfenstein", "MAP32", "MAP16", false},
		{"MAP32", 5, 32, "Grosse", "", "MAP16", false},
		{"MAP30", 5, 30, "Icon of Sin", "", "", true},
	}
	for _, tc := range cases {
		l, err := NewLevel(tc.code)
		if err != nil {
			t.Fatalf("NewLevel(%s): %v", tc.code, err)
		}
		if l.ChapterNumber != tc.chapter || l.LevelNumber != tc.number {
			t.Fatalf("%s: got chapter %d level %d", tc.code, l.ChapterNumber, l.LevelNumber)
		}
		if l.Name != tc.name {
			t.Fatalf("%s: got name %q, want %q", tc.code, l.Name, tc.name)
		}
		if l.SecretExit != tc.secretExit || l.SecretOf != tc.secretOf {
			t.Fatalf("%s: got secret links %q/%q, want %q/%q", tc.code, l.SecretExit, l.SecretOf, tc.secretExit, tc.secretOf)
		}
		if l.Final != tc.final {
			t.Fatalf("%s: got final=%v", tc.code, l.Final)
		}
	}
}

func TestNewLevelRejectsUnknownCodes(t *testing.T) {
	for _, code := range []string{"", "X1M1", "E5M1", "E1M0", "MAP00", "MAP33", "MAPxx"} {
		if _, err := NewLevel(code); err == nil {
			t.Fatalf("expected error for code %q", code)
		}
	}
}

func TestLevelStopComputesSessionTime(t *testing.T) {
	l, err := NewLevel("E1M1")
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	start := time.Unix(1000, 0)
	if err := l.StartTimer(start); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := l.StartTimer(start); err == nil {
		t.Fatalf("expected error starting a running timer")
	}
	pb, err := l.StopTimer(start.Add(90*time.Second + 500*time.Millisecond))
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !pb {
		t.Fatalf("first stop should set a personal best")
	}
	session, ok := l.SessionTime()
	if !ok || session.String() != "01:30.50" {
		t.Fatalf("unexpected session time: %v %v", session, ok)
	}
	best, ok := l.PersonalBest()
	if !ok || best != session {
		t.Fatalf("personal best should match session time")
	}
	if !l.Modified() {
		t.Fatalf("a new personal best should mark the level modified")
	}
}

func TestLevelPBOnlyImproves(t *testing.T) {
	l, err := NewLevel("E1M1")
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	run := func(d time.Duration) bool {
		t.Helper()
		start := time.Unix(0, 0)
		if err := l.StartTimer(start); err != nil {
			t.Fatalf("start: %v", err)
		}
		pb, err := l.StopTimer(start.Add(d))
		if err != nil {
			t.Fatalf("stop: %v", err)
		}
		return pb
	}
	if !run(60 * time.Second) {
		t.Fatalf("first run should be a PB")
	}
	if run(80 * time.Second) {
		t.Fatalf("slower run must not be a PB")
	}
	if best, _ := l.PersonalBest(); best.Seconds() != 60 {
		t.Fatalf("PB regressed: %v", best)
	}
	if got := l.Diff(); got != "+00:20.00" {
		t.Fatalf("unexpected diff: %q", got)
	}
	if !run(45 * time.Second) {
		t.Fatalf("faster run should be a PB")
	}
	if got := l.Diff(); got != "-00:15.00" {
		t.Fatalf("unexpected diff: %q", got)
	}
	if run(45 * time.Second) {
		t.Fatalf("a tie must not be a PB")
	}
}

func TestLevelStateErrors(t *testing.T) {
	l, err := NewLevel("E1M1")
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	if _, err := l.StopTimer(time.Now()); !errors.Is(err, ErrTimerState) {
		t.Fatalf("stop without start: %v", err)
	}
	if err := l.AbortTimer(); !errors.Is(err, ErrTimerState) {
		t.Fatalf("abort without start: %v", err)
	}
	if _, err := l.Elapsed(time.Now()); !errors.Is(err, ErrTimerState) {
		t.Fatalf("elapsed without start: %v", err)
	}
}

func TestLevelAbortDiscardsAttempt(t *testing.T) {
	l, err := NewLevel("E1M1")
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	if err := l.StartTimer(time.Unix(0, 0)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := l.AbortTimer(); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if _, ok := l.SessionTime(); ok {
		t.Fatalf("abort must not record a session time")
	}
	if l.Running() {
		t.Fatalf("abort must clear the running timer")
	}
}

func TestRevertIsInvolution(t *testing.T) {
	l, err := newLevelWithBest("E1M1", timespan.FromParts(50, 0))
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	start := time.Unix(0, 0)
	if err := l.StartTimer(start); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := l.StopTimer(start.Add(40 * time.Second)); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !l.Modified() {
		t.Fatalf("beating the loaded PB should mark the level modified")
	}

	l.RevertPersonalBest()
	if best, _ := l.PersonalBest(); best.Seconds() != 50 {
		t.Fatalf("revert should restore the loaded PB, got %v", best)
	}
	if l.Modified() {
		t.Fatalf("reverting to the loaded PB should clear modified")
	}
	l.RevertPersonalBest()
	if best, _ := l.PersonalBest(); best.Seconds() != 40 {
		t.Fatalf("double revert should restore the new PB, got %v", best)
	}
	if !l.Modified() {
		t.Fatalf("reverting back should mark the level modified again")
	}

	session, _ := l.SessionTime()
	l.RevertSessionTime()
	if _, ok := l.SessionTime(); ok {
		t.Fatalf("reverting the only session time should leave it absent")
	}
	l.RevertSessionTime()
	if got, ok := l.SessionTime(); !ok || got != session {
		t.Fatalf("double revert should restore the session time")
	}
}

func TestDeleteThenRevertRestores(t *testing.T) {
	l, err := NewLevel("E1M1")
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	start := time.Unix(0, 0)
	if err := l.StartTimer(start); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := l.StopTimer(start.Add(30 * time.Second)); err != nil {
		t.Fatalf("stop: %v", err)
	}

	l.DeleteSessionTime()
	if _, ok := l.SessionTime(); ok {
		t.Fatalf("delete should clear the session time")
	}
	l.RevertSessionTime()
	if got, ok := l.SessionTime(); !ok || got.Seconds() != 30 {
		t.Fatalf("revert should restore the deleted session time, got %v %v", got, ok)
	}

	l.DeletePersonalBest()
	if _, ok := l.PersonalBest(); ok {
		t.Fatalf("delete should clear the personal best")
	}
	if l.Modified() {
		t.Fatalf("deleting an unsaved PB returns the level to its loaded state")
	}
	l.RevertPersonalBest()
	if got, ok := l.PersonalBest(); !ok || got.Seconds() != 30 {
		t.Fatalf("revert should restore the deleted PB, got %v %v", got, ok)
	}
}

func TestDeleteLoadedPBMarksModified(t *testing.T) {
	l, err := newLevelWithBest("E1M1", timespan.FromParts(50, 0))
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	if l.Modified() {
		t.Fatalf("a freshly loaded level must not be modified")
	}
	l.DeletePersonalBest()
	if !l.Modified() {
		t.Fatalf("deleting a loaded PB must mark the level modified")
	}
	l.RevertPersonalBest()
	if l.Modified() {
		t.Fatalf("restoring the loaded PB should clear modified")
	}
}

func TestDeleteWithNothingLiveKeepsBackup(t *testing.T) {
	l, err := NewLevel("E1M1")
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	start := time.Unix(0, 0)
	if err := l.StartTimer(start); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := l.StopTimer(start.Add(30 * time.Second)); err != nil {
		t.Fatalf("stop: %v", err)
	}
	l.DeleteSessionTime()
	// Deleting again must not clobber the backup holding the old value.
	l.DeleteSessionTime()
	l.RevertSessionTime()
	if got, ok := l.SessionTime(); !ok || got.Seconds() != 30 {
		t.Fatalf("backup lost after double delete: %v %v", got, ok)
	}
}

func TestLevelRecordRequiresBest(t *testing.T) {
	l, err := NewLevel("E1M1")
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	if _, err := l.Record(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
	l, err = newLevelWithBest("E1M2", timespan.FromParts(95, 250000))
	if err != nil {
		t.Fatalf("new level: %v", err)
	}
	rec, err := l.Record()
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.Code != "E1M2" || rec.PBSecs != 95 || rec.PBMicros != 250000 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}
