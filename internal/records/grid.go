package records

import "fmt"

// Grid holds every chapter for every category and difficulty. All slots are
// always populated; chapters absent from the saved data are blank. The grid
// exclusively owns its chapters and, through them, all levels.
type Grid struct {
	chapters map[string]map[string][]*Chapter
}

// NewGrid builds the full category x difficulty x chapter grid, hydrating
// slots present in the saved runs and filling the rest with blanks. A nil
// runs map yields an entirely blank grid.
func NewGrid(saved Runs) (*Grid, error) {
	g := &Grid{chapters: make(map[string]map[string][]*Chapter, len(Categories))}
	for _, category := range Categories {
		g.chapters[category] = make(map[string][]*Chapter, len(Difficulties))
		for _, difficulty := range Difficulties {
			slots := make([]*Chapter, 0, ChapterCount)
			for number := 1; number <= ChapterCount; number++ {
				chapter, err := buildChapter(saved, category, difficulty, number)
				if err != nil {
					return nil, err
				}
				slots = append(slots, chapter)
			}
			g.chapters[category][difficulty] = slots
		}
	}
	return g, nil
}

func buildChapter(saved Runs, category, difficulty string, number int) (*Chapter, error) {
	for _, rec := range saved[category][difficulty] {
		if rec.ChapterNumber == number {
			return newChapterFromRecord(rec)
		}
	}
	return NewChapter(number)
}

// Chapter returns the chapter for a category, difficulty, and chapter name.
func (g *Grid) Chapter(category, difficulty, chapterName string) (*Chapter, error) {
	number, err := ChapterNumberByName(chapterName)
	if err != nil {
		return nil, err
	}
	slots, ok := g.chapters[category][difficulty]
	if !ok {
		return nil, fmt.Errorf("%w: %s / %s", ErrNotFound, category, difficulty)
	}
	return slots[number-1], nil
}

// ChapterByNumber returns the chapter for a category, difficulty, and
// chapter number.
func (g *Grid) ChapterByNumber(category, difficulty string, number int) (*Chapter, error) {
	name, err := ChapterNameByNumber(number)
	if err != nil {
		return nil, err
	}
	return g.Chapter(category, difficulty, name)
}

// IsModified reports whether any chapter in the grid needs saving.
func (g *Grid) IsModified() bool {
	for _, byDifficulty := range g.chapters {
		for _, slots := range byDifficulty {
			for _, chapter := range slots {
				if chapter.IsModified() {
					return true
				}
			}
		}
	}
	return false
}

// Record serializes every chapter that has recorded data, iterating
// categories, difficulties, and chapters in their fixed order. Empty
// chapters are skipped, never null-padded.
func (g *Grid) Record() Runs {
	runs := Runs{}
	for _, category := range Categories {
		for _, difficulty := range Difficulties {
			for _, chapter := range g.chapters[category][difficulty] {
				rec, err := chapter.Record()
				if err != nil {
					continue
				}
				if runs[category] == nil {
					runs[category] = map[string][]ChapterRecord{}
				}
				runs[category][difficulty] = append(runs[category][difficulty], rec)
			}
		}
	}
	return runs
}
