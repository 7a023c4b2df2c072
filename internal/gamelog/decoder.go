// Package gamelog decodes the gzdoom developer output stream into events.
package gamelog

import (
	"bufio"
	"io"
	"strings"
)

// Kind identifies a decoded event.
type Kind int

const (
	// LevelStarted reports that a level announcement was decoded; Code and
	// Name are set.
	LevelStarted Kind = iota
	// LevelFinished reports the level-unload script trigger.
	LevelFinished
	// PlayerDied reports the death script trigger.
	PlayerDied
	// ProcessStarted and ProcessExited bracket the game process lifetime.
	// They are emitted by the launcher, not by line decoding.
	ProcessStarted
	ProcessExited
)

// Event is one decoded occurrence in the game's output.
type Event struct {
	Kind Kind
	Code string
	Name string
}

// Exact lines the decoder matches. gzdoom prints the header before every
// level announcement and before secret-reveal messages.
const (
	headerLine    = "----------------------------------------"
	secretLine    = "A secret is revealed!"
	unloadingLine = "Starting all scripts of type 13 (Unloading)"
	deathLine     = "Starting all scripts of type 3 (Death)"
)

// Decoder is a single-pass classifier over gzdoom output lines. It never
// errors: a malformed announcement drops at most one event and the decoder
// returns to scanning, so unexpected output cannot desynchronize it.
type Decoder struct {
	afterHeader    bool
	skipNextHeader bool
}

// Feed classifies one line, without its trailing newline. It reports the
// decoded event, if the line produced one.
func (d *Decoder) Feed(line string) (Event, bool) {
	// Script triggers match in any state and leave the state untouched.
	switch line {
	case unloadingLine:
		return Event{Kind: LevelFinished}, true
	case deathLine:
		return Event{Kind: PlayerDied}, true
	}

	if !d.afterHeader {
		if line == headerLine {
			if d.skipNextHeader {
				// This header trails a secret-reveal message, not a level
				// announcement.
				d.skipNextHeader = false
			} else {
				d.afterHeader = true
			}
		}
		return Event{}, false
	}

	switch {
	case line == "":
		// The blank separator between header and announcement.
		return Event{}, false
	case line == secretLine:
		d.afterHeader = false
		d.skipNextHeader = true
		return Event{}, false
	default:
		d.afterHeader = false
		parts := strings.Split(strings.TrimSpace(line), " - ")
		if len(parts) != 2 {
			// Not the announcement we expected; resume scanning.
			return Event{}, false
		}
		return Event{Kind: LevelStarted, Code: parts[0], Name: parts[1]}, true
	}
}

// Decode reads r line by line, feeding the decoder and invoking emit for
// every event until EOF or a read error. The returned error is the read
// error, never a decode failure.
func Decode(r io.Reader, emit func(Event)) error {
	d := &Decoder{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if evt, ok := d.Feed(scanner.Text()); ok {
			emit(evt)
		}
	}
	return scanner.Err()
}
