// Package model defines shared data structures.
package model

import "time"

// Attempt captures one finished level attempt for the history log.
type Attempt struct {
	Code       string
	Name       string
	Category   string
	Difficulty string
	StartedAt  time.Time
	EndedAt    time.Time
	DurationUS int64
	PB         bool
}

// AttemptFilter defines filters for history queries.
type AttemptFilter struct {
	Code       string
	Category   string
	Difficulty string
	Since      *time.Time
	Last       int
}

// AttemptAggregate summarizes the attempts recorded for one level code.
type AttemptAggregate struct {
	Code    string
	Count   int
	BestUS  int64
	MeanUS  int64
	PBCount int
}

// Selection is the UI state persisted between sessions. It travels through
// the save file as an opaque blob.
type Selection struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Chapter    string `json:"chapter_name"`
}
