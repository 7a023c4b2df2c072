package records

import "doomsplit/internal/timespan"

// slot holds a live time value plus a one-step backup so the user can revert
// a single change. Revert is a swap, not a stack.
type slot struct {
	cur      timespan.Span
	curOK    bool
	backup   timespan.Span
	backupOK bool
}

// Get returns the live value and whether one is present.
func (s *slot) Get() (timespan.Span, bool) {
	return s.cur, s.curOK
}

// Set stores a new live value, moving the previous one into the backup.
func (s *slot) Set(v timespan.Span) {
	s.backup, s.backupOK = s.cur, s.curOK
	s.cur, s.curOK = v, true
}

// Revert swaps the live value and its backup.
func (s *slot) Revert() {
	s.cur, s.backup = s.backup, s.cur
	s.curOK, s.backupOK = s.backupOK, s.curOK
}

// Delete moves a present live value into the backup and clears it. When no
// live value is present the existing backup is kept so a revert can still
// restore the last deleted value.
func (s *slot) Delete() {
	if !s.curOK {
		return
	}
	s.backup, s.backupOK = s.cur, s.curOK
	s.cur, s.curOK = 0, false
}

// times carries the session time, personal best, diff, and modified tracking
// shared by levels and chapters.
type times struct {
	session slot
	best    slot

	// origBest is the personal best loaded at startup, kept so modified can
	// be recomputed when the user reverts back and forth.
	origBest   timespan.Span
	origBestOK bool
	modified   bool
}

func (t *times) setLoadedBest(best timespan.Span) {
	t.best.Set(best)
	t.origBest, t.origBestOK = best, true
}

// SessionTime returns the current attempt time, if one was recorded.
func (t *times) SessionTime() (timespan.Span, bool) {
	return t.session.Get()
}

// PersonalBest returns the fastest recorded time, if any.
func (t *times) PersonalBest() (timespan.Span, bool) {
	return t.best.Get()
}

// Diff renders the signed delta between session time and personal best,
// or "" when either is absent.
func (t *times) Diff() string {
	session, ok := t.session.Get()
	if !ok {
		return ""
	}
	best, ok := t.best.Get()
	if !ok {
		return ""
	}
	return timespan.Diff(session, best)
}

// Modified reports whether the personal best differs from the value loaded
// at startup.
func (t *times) Modified() bool {
	return t.modified
}

// RevertSessionTime swaps the session time with its one-step backup.
func (t *times) RevertSessionTime() {
	t.session.Revert()
}

// RevertPersonalBest swaps the personal best with its one-step backup and
// recomputes the modified flag against the originally loaded value.
func (t *times) RevertPersonalBest() {
	t.best.Revert()
	t.recomputeModified()
}

// DeleteSessionTime clears the session time, keeping it recoverable by one
// revert. Deleting an absent time is a no-op.
func (t *times) DeleteSessionTime() {
	t.session.Delete()
}

// DeletePersonalBest clears the personal best, keeping it recoverable by one
// revert. Deleting an absent best is a no-op.
func (t *times) DeletePersonalBest() {
	t.best.Delete()
	t.recomputeModified()
}

// applyBest promotes the session time to personal best when it beats the
// existing one (or none exists), reporting whether it did.
func (t *times) applyBest() bool {
	session, ok := t.session.Get()
	if !ok {
		return false
	}
	if best, hasBest := t.best.Get(); hasBest && session >= best {
		return false
	}
	t.best.Set(session)
	t.modified = true
	return true
}

func (t *times) recomputeModified() {
	best, ok := t.best.Get()
	t.modified = ok != t.origBestOK || (ok && best != t.origBest)
}
