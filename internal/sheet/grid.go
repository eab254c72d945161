// Package sheet turns a hosted spreadsheet URL or an uploaded file into a
// rectangular grid of text cells. It knows nothing about what the cells mean.
package sheet

import "strings"

// Grid is an ordered sequence of rows of text cells. After Normalize every
// row has the same width and blank cells are "".
type Grid [][]string

// Cell returns the raw value at (row, col), or "" when the
// position lies outside the grid.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return g[row][col]
}

// Width returns the length of the widest row.
func (g Grid) Width() int {
	w := 0
	for _, r := range g {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// IsBlankRow reports whether row is absent or holds only whitespace.
func (g Grid) IsBlankRow(row int) bool {
	if row < 0 || row >= len(g) {
		return true
	}
	for _, v := range g[row] {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Normalize anchors rows at column 0 and pads every row to the widest one,
// so missing trailing cells read as "".
func Normalize(rows [][]string) Grid {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	g := make(Grid, len(rows))
	for i, r := range rows {
		row := make([]string, width)
		copy(row, r)
		g[i] = row
	}
	return g
}

// place writes value at an absolute (row, col) position, growing the grid as
// needed. Decoders that report sparse cells use it to keep the origin at A1
// whatever range the file declares.
func place(rows [][]string, row, col int, value string) [][]string {
	for len(rows) <= row {
		rows = append(rows, nil)
	}
	for len(rows[row]) <= col {
		rows[row] = append(rows[row], "")
	}
	rows[row][col] = value
	return rows
}
