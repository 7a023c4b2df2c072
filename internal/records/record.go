package records

// LevelRecord is the persisted shape of a level's personal best.
type LevelRecord struct {
	Code     string `json:"code"`
	PBSecs   int64  `json:"pb_seconds"`
	PBMicros int64  `json:"pb_microseconds"`
}

// ChapterRecord is the persisted shape of a chapter. The chapter's own
// personal best is optional; levels without a best are omitted entirely.
type ChapterRecord struct {
	ChapterNumber int           `json:"chapter_number"`
	PBSecs        *int64        `json:"pb_seconds"`
	PBMicros      *int64        `json:"pb_microseconds"`
	Levels        []LevelRecord `json:"levels"`
}

// Runs is the persisted record set: category -> difficulty -> chapters.
// Missing categories, difficulties, or chapters mean no recorded data.
type Runs map[string]map[string][]ChapterRecord
