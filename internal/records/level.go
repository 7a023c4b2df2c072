package records

import (
	"fmt"
	"time"

	"doomsplit/internal/timespan"
)

// Level is a single game level with its identity, secret-routing links, and
// the times recorded for it.
type Level struct {
	times

	Code          string
	ChapterNumber int
	LevelNumber   int
	Name          string
	// SecretExit is the code of the secret level this level can branch to,
	// empty when it has none. SecretOf is the code play returns to when this
	// level is itself a secret level.
	SecretExit string
	SecretOf   string
	// Final marks the last level of the chapter's normal sequence.
	Final bool

	runStart time.Time
	running  bool
}

// NewLevel builds a level from its code, deriving name, chapter and level
// numbers, secret routing, and the final-level flag.
func NewLevel(code string) (*Level, error) {
	chapter, err := ChapterNumberByCode(code)
	if err != nil {
		return nil, err
	}
	number, err := levelNumberByCode(code)
	if err != nil {
		return nil, err
	}
	l := &Level{
		Code:          code,
		ChapterNumber: chapter,
		LevelNumber:   number,
		Name:          levelNames[chapter-1][number-1],
	}
	if chapter == doom2Chapter {
		// Doom 2 has a secret level that leads to a second, deeper one.
		// Both return play to the level that would have followed MAP15.
		switch number {
		case 15:
			l.SecretExit = "MAP31"
		case 31:
			l.SecretOf = "MAP16"
			l.SecretExit = "MAP32"
		case 32:
			l.SecretOf = "MAP16"
		case 30:
			l.Final = true
		}
	} else {
		exitFrom := doom1SecretExits[chapter-1]
		switch number {
		case 9:
			// Every doom1 secret level is number 9; play resumes one past
			// the level whose exit led here.
			l.SecretOf = LevelCode(chapter, exitFrom+1)
		case exitFrom:
			l.SecretExit = LevelCode(chapter, 9)
		}
		if number == 8 {
			l.Final = true
		}
	}
	return l, nil
}

// newLevelWithBest hydrates a level with a personal best loaded from storage.
func newLevelWithBest(code string, best timespan.Span) (*Level, error) {
	l, err := NewLevel(code)
	if err != nil {
		return nil, err
	}
	l.setLoadedBest(best)
	return l, nil
}

// StartTimer begins timing an attempt. Starting while a timer is already
// running is rejected.
func (l *Level) StartTimer(now time.Time) error {
	if l.running {
		return fmt.Errorf("%s start: %w", l.Code, ErrTimerState)
	}
	l.runStart = now
	l.running = true
	return nil
}

// StopTimer ends the current attempt, records the session time, and reports
// whether it set a new personal best.
func (l *Level) StopTimer(now time.Time) (bool, error) {
	if !l.running {
		return false, fmt.Errorf("%s stop: %w", l.Code, ErrTimerState)
	}
	l.session.Set(timespan.Between(l.runStart, now))
	l.runStart = time.Time{}
	l.running = false
	return l.applyBest(), nil
}

// AbortTimer discards an in-progress attempt without recording anything.
func (l *Level) AbortTimer() error {
	if !l.running {
		return fmt.Errorf("%s abort: %w", l.Code, ErrTimerState)
	}
	l.runStart = time.Time{}
	l.running = false
	return nil
}

// Elapsed reports how long the current attempt has been running.
func (l *Level) Elapsed(now time.Time) (timespan.Span, error) {
	if !l.running {
		return 0, fmt.Errorf("%s elapsed: %w", l.Code, ErrTimerState)
	}
	return timespan.Between(l.runStart, now), nil
}

// Running reports whether a timer is active.
func (l *Level) Running() bool {
	return l.running
}

// Record serializes the level for the save file. Levels with no personal
// best report ErrEmpty and are omitted from output.
func (l *Level) Record() (LevelRecord, error) {
	best, ok := l.best.Get()
	if !ok {
		return LevelRecord{}, fmt.Errorf("level %s: %w", l.Code, ErrEmpty)
	}
	return LevelRecord{
		Code:     l.Code,
		PBSecs:   best.Seconds(),
		PBMicros: best.Micros(),
	}, nil
}
