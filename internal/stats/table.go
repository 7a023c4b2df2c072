package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable lays out rows under headers with single-space separators,
// sizing each column to its widest cell. Columns listed in numeric are
// right-aligned; the last column is not padded when left-aligned.
func formatTable(headers []string, rows [][]string, numeric ...int) []string {
	all := make([][]string, 0, len(rows)+1)
	if len(headers) > 0 {
		all = append(all, headers)
	}
	all = append(all, rows...)
	if len(all) == 0 {
		return nil
	}

	var widths []int
	for _, row := range all {
		for i, cell := range row {
			w := runewidth.StringWidth(cell)
			if i == len(widths) {
				widths = append(widths, w)
			} else if w > widths[i] {
				widths[i] = w
			}
		}
	}
	rightAlign := make([]bool, len(widths))
	for _, col := range numeric {
		if col < len(rightAlign) {
			rightAlign[col] = true
		}
	}

	lines := make([]string, 0, len(all))
	for _, row := range all {
		var b strings.Builder
		for i, width := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i > 0 {
				b.WriteByte(' ')
			}
			pad := width - runewidth.StringWidth(cell)
			if pad < 0 {
				pad = 0
			}
			switch {
			case rightAlign[i]:
				b.WriteString(strings.Repeat(" ", pad))
				b.WriteString(cell)
			case i < len(widths)-1:
				b.WriteString(cell)
				b.WriteString(strings.Repeat(" ", pad))
			default:
				b.WriteString(cell)
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}
