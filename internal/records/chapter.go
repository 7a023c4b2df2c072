package records

import (
	"fmt"
	"time"

	"doomsplit/internal/timespan"
)

// Chapter owns an ordered, fixed-length sequence of levels plus the aggregate
// times for clearing the whole chapter in order.
type Chapter struct {
	times

	Number int
	Name   string
	Levels []*Level

	// validSequence tracks whether the levels visited this attempt follow
	// the legal order, including secret routing. prevCode and activeCode
	// reference owned levels by code rather than by pointer.
	validSequence bool
	prevCode      string
	activeCode    string
}

// StopResult describes what a Chapter.StopTimer call produced.
type StopResult struct {
	Level *Level
	// LevelPB reports a new level personal best. ChapterTimed reports that a
	// full-chapter time was produced by this stop; ChapterPB that it was a
	// new chapter personal best.
	LevelPB      bool
	ChapterTimed bool
	ChapterPB    bool
}

// NewChapter builds a chapter with a complete blank level sequence.
func NewChapter(number int) (*Chapter, error) {
	name, err := ChapterNameByNumber(number)
	if err != nil {
		return nil, err
	}
	c := &Chapter{Number: number, Name: name}
	for i := 1; i <= LevelsInChapter(number); i++ {
		l, err := NewLevel(LevelCode(number, i))
		if err != nil {
			return nil, err
		}
		c.Levels = append(c.Levels, l)
	}
	return c, nil
}

// newChapterFromRecord hydrates a chapter from its persisted record. Levels
// missing from the record are filled in blank so the sequence stays
// contiguous.
func newChapterFromRecord(rec ChapterRecord) (*Chapter, error) {
	c, err := NewChapter(rec.ChapterNumber)
	if err != nil {
		return nil, err
	}
	if rec.PBSecs != nil && rec.PBMicros != nil {
		c.setLoadedBest(timespan.FromParts(*rec.PBSecs, *rec.PBMicros))
	}
	for _, lr := range rec.Levels {
		number, err := levelNumberByCode(lr.Code)
		if err != nil {
			return nil, fmt.Errorf("chapter %d: %w", rec.ChapterNumber, err)
		}
		chapter, _ := ChapterNumberByCode(lr.Code)
		if chapter != c.Number {
			return nil, fmt.Errorf("chapter %d: %w: %s", c.Number, ErrWrongChapter, lr.Code)
		}
		l, err := newLevelWithBest(lr.Code, timespan.FromParts(lr.PBSecs, lr.PBMicros))
		if err != nil {
			return nil, err
		}
		c.Levels[number-1] = l
	}
	return c, nil
}

// StartTimer starts timing the owned level identified by code and updates
// sequence validity for the attempt.
func (c *Chapter) StartTimer(now time.Time, code string) (*Level, error) {
	level, err := c.level(code)
	if err != nil {
		return nil, err
	}
	if c.activeCode != "" {
		// A level started while another attempt was still timing: the old
		// attempt is unfinished and can never be stopped, so discard it.
		// The same level announced again (a save of the timed map was
		// loaded) restarts its own timer the same way.
		if orphan, oerr := c.level(c.activeCode); oerr == nil {
			_ = orphan.AbortTimer()
		}
	}
	if err := level.StartTimer(now); err != nil {
		return nil, err
	}
	c.activeCode = level.Code

	switch {
	case level.LevelNumber == 1:
		// Starting from the first level always resets the attempt.
		c.validSequence = true
		c.prevCode = ""
	case c.validSequence:
		prevNumber := 1
		var prev *Level
		if c.prevCode != "" {
			if prev, err = c.level(c.prevCode); err != nil {
				return nil, err
			}
			prevNumber = prev.LevelNumber
		}
		if level.LevelNumber != prevNumber+1 {
			// Out of order is still legal when it follows a secret exit or
			// returns from a secret level. Anything else ends the attempt's
			// validity until the chapter is restarted at level 1.
			if prev == nil || (level.Code != prev.SecretExit && level.Code != prev.SecretOf) {
				c.validSequence = false
			}
		}
	}
	return level, nil
}

// StopTimer stops the active level's timer. When the stopped level is the
// chapter's final one and the sequence stayed valid, the chapter aggregate
// time is computed from the owned levels' session times.
func (c *Chapter) StopTimer(now time.Time) (StopResult, error) {
	if c.activeCode == "" {
		return StopResult{}, fmt.Errorf("chapter %d stop: %w", c.Number, ErrTimerState)
	}
	level, err := c.level(c.activeCode)
	if err != nil {
		return StopResult{}, err
	}
	c.activeCode = ""
	levelPB, err := level.StopTimer(now)
	if err != nil {
		return StopResult{}, err
	}
	result := StopResult{Level: level, LevelPB: levelPB}
	if level.Final && c.validSequence {
		var total timespan.Span
		for _, l := range c.Levels {
			if session, ok := l.SessionTime(); ok {
				total += session
			}
		}
		c.session.Set(total)
		result.ChapterTimed = true
		result.ChapterPB = c.applyBest()
	}
	c.prevCode = level.Code
	return result, nil
}

// AbortTimer cancels any in-progress attempt. Aborting with no active timer
// is a no-op; either way the sequence is invalidated.
func (c *Chapter) AbortTimer() {
	if c.activeCode != "" {
		if level, err := c.level(c.activeCode); err == nil {
			// The active level always has a running timer; the error path
			// exists only for the level's own misuse guard.
			_ = level.AbortTimer()
		}
		c.activeCode = ""
	}
	c.prevCode = ""
	c.validSequence = false
}

// Elapsed reports the running time of the active level.
func (c *Chapter) Elapsed(now time.Time) (timespan.Span, error) {
	if c.activeCode == "" {
		return 0, fmt.Errorf("chapter %d elapsed: %w", c.Number, ErrTimerState)
	}
	level, err := c.level(c.activeCode)
	if err != nil {
		return 0, err
	}
	return level.Elapsed(now)
}

// ActiveLevel returns the level currently being timed, if any.
func (c *Chapter) ActiveLevel() (*Level, bool) {
	if c.activeCode == "" {
		return nil, false
	}
	level, err := c.level(c.activeCode)
	if err != nil {
		return nil, false
	}
	return level, true
}

// ValidSequence reports whether the current attempt has visited levels in a
// legal order.
func (c *Chapter) ValidSequence() bool {
	return c.validSequence
}

// IsModified reports whether the chapter or any of its levels carries a
// personal best that needs saving.
func (c *Chapter) IsModified() bool {
	if c.modified {
		return true
	}
	for _, l := range c.Levels {
		if l.Modified() {
			return true
		}
	}
	return false
}

// Record serializes the chapter and every level that holds a personal best.
// A chapter with no best anywhere reports ErrEmpty.
func (c *Chapter) Record() (ChapterRecord, error) {
	rec := ChapterRecord{ChapterNumber: c.Number}
	for _, l := range c.Levels {
		lr, err := l.Record()
		if err != nil {
			continue
		}
		rec.Levels = append(rec.Levels, lr)
	}
	best, hasBest := c.best.Get()
	if !hasBest && len(rec.Levels) == 0 {
		return ChapterRecord{}, fmt.Errorf("chapter %d: %w", c.Number, ErrEmpty)
	}
	if hasBest {
		secs, micros := best.Seconds(), best.Micros()
		rec.PBSecs, rec.PBMicros = &secs, &micros
	}
	return rec, nil
}

// level resolves an owned level by code, rejecting codes that belong to a
// different chapter.
func (c *Chapter) level(code string) (*Level, error) {
	chapter, err := ChapterNumberByCode(code)
	if err != nil {
		return nil, err
	}
	if chapter != c.Number {
		return nil, fmt.Errorf("chapter %d: %w: %s", c.Number, ErrWrongChapter, code)
	}
	number, err := levelNumberByCode(code)
	if err != nil {
		return nil, err
	}
	return c.Levels[number-1], nil
}
