package records

import "errors"

var (
	// ErrWrongChapter reports a level code resolved against a chapter that
	// does not own it.
	ErrWrongChapter = errors.New("level code belongs to a different chapter")
	// ErrTimerState reports a stop, abort, or elapsed call with no matching
	// timer start.
	ErrTimerState = errors.New("no timer is running")
	// ErrEmpty reports an attempt to serialize an entity with no recorded
	// personal best.
	ErrEmpty = errors.New("nothing to serialize")
	// ErrNotFound reports a lookup by an unrecognized chapter name.
	ErrNotFound = errors.New("chapter not found")
)
