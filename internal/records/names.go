package records

import (
	"fmt"
	"strconv"
	"strings"
)

// Categories lists the run-rule variants records are kept under.
var Categories = []string{"Any%", "100%", "Pacifist", "Noclip"}

// Difficulties lists the skill settings records are kept under.
var Difficulties = []string{
	"I'm Too Young To Die",
	"Hey, Not Too Rough",
	"Hurt Me Plenty",
	"Ultra-Violence",
	"Nightmare!",
}

// ChapterNames lists the chapter titles. Doom 2 is treated as the fifth
// chapter even though it uses a different level code scheme.
var ChapterNames = []string{
	"Knee-Deep In The Dead",
	"The Shores of Hell",
	"Inferno",
	"Thy Flesh Consumed",
	"Doom 2",
}

// ChapterCount is the number of chapter slots per category and difficulty.
const ChapterCount = 5

// doom2Chapter is the chapter number assigned to the Doom 2 level set.
const doom2Chapter = 5

// levelNames maps chapter number (index+1) to the in-game level titles.
var levelNames = [ChapterCount][]string{
	{
		"Hangar",
		"Nuclear Plant",
		"Toxin Refinery",
		"Command Control",
		"Phobos Lab",
		"Central Processing",
		"Computer Station",
		"Phobos Anomaly",
		"Military Base",
	},
	{
		"Deimos Anomaly",
		"Containment Area",
		"Refinery",
		"Deimos Lab",
		"Command Center",
		"Halls of The Damned",
		"Spawning Vats",
		"Tower of Babel",
		"Fortress of Mystery",
	},
	{
		"Hell Keep",
		"Slough of Despair",
		"Pandemonium",
		"House of Pain",
		"Unholy Cathedral",
		"Mt. Erebus",
		"Limbo",
		"Dis",
		"Warrens",
	},
	{
		"Hell Beneath",
		"Perfect Hatred",
		"Sever the Wicked",
		"Unruly Evil",
		"They Will Repent",
		"Against Thee Wickedly",
		"And Hell Followed",
		"Unto the Cruel",
		"Fear",
	},
	{
		"Entryway",
		"Underhalls",
		"The Gantlet",
		"The Focus",
		"The Waste Tunnels",
		"The Crusher",
		"Dead Simple",
		"Tricks and Traps",
		"The Pit",
		"Refueling Base",
		`"O" of Destruction!`,
		"The Factory",
		"Downtown",
		"The Inmost Dens",
		"Industrial Zone",
		"Suburbs",
		"Tenements",
		"The Courtyard",
		"The Citadel",
		"Gotcha!",
		"Nirvana",
		"The Catacombs",
		"Barrels o' Fun",
		"The Chasm",
		"Bloodfalls",
		"The Abandoned Mines",
		"Monster Condo",
		"The Spirit World",
		"The Living End",
		"Icon of Sin",
		"Wolfenstein",
		"Grosse",
	},
}

// doom1SecretExits holds, per doom1 chapter, the level number whose exit
// leads to that chapter's secret level (always level 9).
var doom1SecretExits = [4]int{3, 5, 6, 2}

// LevelsInChapter returns how many levels the chapter's sequence holds.
func LevelsInChapter(chapterNumber int) int {
	if chapterNumber == doom2Chapter {
		return 32
	}
	return 9
}

// LevelCode builds the canonical code for a chapter and level number:
// "E1M1" for doom1 chapters, "MAP01" for Doom 2.
func LevelCode(chapterNumber, levelNumber int) string {
	if chapterNumber == doom2Chapter {
		return fmt.Sprintf("MAP%02d", levelNumber)
	}
	return fmt.Sprintf("E%dM%d", chapterNumber, levelNumber)
}

// ChapterNumberByCode resolves the chapter number a level code belongs to.
func ChapterNumberByCode(code string) (int, error) {
	switch {
	case strings.HasPrefix(code, "E") && len(code) == 4 && code[2] == 'M':
		n, err := strconv.Atoi(code[1:2])
		if err != nil || n < 1 || n > 4 {
			return 0, fmt.Errorf("unknown level code: %s", code)
		}
		return n, nil
	case strings.HasPrefix(code, "MAP") && len(code) > 3:
		return doom2Chapter, nil
	default:
		return 0, fmt.Errorf("unknown level code: %s", code)
	}
}

// ChapterNameByCode resolves the chapter title a level code belongs to.
func ChapterNameByCode(code string) (string, error) {
	n, err := ChapterNumberByCode(code)
	if err != nil {
		return "", err
	}
	return ChapterNames[n-1], nil
}

// ChapterNameByNumber resolves a chapter title from its number.
func ChapterNameByNumber(number int) (string, error) {
	if number < 1 || number > ChapterCount {
		return "", fmt.Errorf("%w: chapter %d", ErrNotFound, number)
	}
	return ChapterNames[number-1], nil
}

// ChapterNumberByName resolves a chapter number from its title.
func ChapterNumberByName(name string) (int, error) {
	for i, n := range ChapterNames {
		if n == name {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func levelNumberByCode(code string) (int, error) {
	chapter, err := ChapterNumberByCode(code)
	if err != nil {
		return 0, err
	}
	var raw string
	if chapter == doom2Chapter {
		raw = code[3:]
	} else {
		raw = code[3:4]
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > LevelsInChapter(chapter) {
		return 0, fmt.Errorf("unknown level code: %s", code)
	}
	return n, nil
}
