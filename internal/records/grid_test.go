package records

import (
	"errors"
	"testing"
	"time"
)

func TestNewGridPopulatesEverySlot(t *testing.T) {
	g, err := NewGrid(nil)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	for _, category := range Categories {
		for _, difficulty := range Difficulties {
			for number := 1; number <= ChapterCount; number++ {
				c, err := g.ChapterByNumber(category, difficulty, number)
				if err != nil {
					t.Fatalf("%s/%s chapter %d: %v", category, difficulty, number, err)
				}
				if c.Number != number {
					t.Fatalf("slot holds chapter %d, want %d", c.Number, number)
				}
			}
		}
	}
	if g.IsModified() {
		t.Fatalf("a blank grid must not be modified")
	}
	if runs := g.Record(); len(runs) != 0 {
		t.Fatalf("a blank grid must serialize to empty runs, got %v", runs)
	}
}

func TestGridLookupErrors(t *testing.T) {
	g, err := NewGrid(nil)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	if _, err := g.Chapter("Any%", "I'm Too Young To Die", "Mars"); err == nil {
		t.Fatalf("expected error for unknown chapter name")
	}
	if _, err := g.Chapter("Glitchless", "I'm Too Young To Die", ChapterNames[0]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown category, got %v", err)
	}
	if _, err := g.ChapterByNumber("Any%", "Nightmare!", 0); err == nil {
		t.Fatalf("expected error for chapter number 0")
	}
}

func TestGridChaptersAreIndependent(t *testing.T) {
	g, err := NewGrid(nil)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	a, err := g.Chapter("Any%", Difficulties[0], ChapterNames[0])
	if err != nil {
		t.Fatalf("chapter: %v", err)
	}
	b, err := g.Chapter("100%", Difficulties[0], ChapterNames[0])
	if err != nil {
		t.Fatalf("chapter: %v", err)
	}
	now := time.Unix(0, 0)
	if _, err := a.StartTimer(now, "E1M1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := a.StopTimer(now.Add(30 * time.Second)); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, ok := b.Levels[0].PersonalBest(); ok {
		t.Fatalf("a run in one category must not bleed into another")
	}
	if !g.IsModified() {
		t.Fatalf("a new PB anywhere must mark the grid modified")
	}
}

func TestGridRecordRoundTrip(t *testing.T) {
	g, err := NewGrid(nil)
	if err != nil {
		t.Fatalf("new grid: %v", err)
	}
	c, err := g.Chapter("Pacifist", "Ultra-Violence", ChapterNames[1])
	if err != nil {
		t.Fatalf("chapter: %v", err)
	}
	now := time.Unix(0, 0)
	_, _ = playLevel(t, c, now, "E2M1", 45*time.Second)

	runs := g.Record()
	if len(runs) != 1 || len(runs["Pacifist"]) != 1 {
		t.Fatalf("only the played slot should serialize, got %v", runs)
	}
	recs := runs["Pacifist"]["Ultra-Violence"]
	if len(recs) != 1 || recs[0].ChapterNumber != 2 {
		t.Fatalf("unexpected serialized chapters: %+v", recs)
	}

	loaded, err := NewGrid(runs)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.IsModified() {
		t.Fatalf("a freshly loaded grid must not be modified")
	}
	lc, err := loaded.Chapter("Pacifist", "Ultra-Violence", ChapterNames[1])
	if err != nil {
		t.Fatalf("chapter: %v", err)
	}
	best, ok := lc.Levels[0].PersonalBest()
	if !ok || best.Seconds() != 45 {
		t.Fatalf("PB lost across round trip: %v %v", best, ok)
	}
	// Slots absent from the saved runs come back blank, not missing.
	other, err := loaded.Chapter("Any%", Difficulties[0], ChapterNames[0])
	if err != nil {
		t.Fatalf("blank slot: %v", err)
	}
	if _, err := other.Record(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("blank slot should have no record, got %v", err)
	}
}
