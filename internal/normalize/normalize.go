// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize cleans tabular grids before rendering.
package normalize

import (
	"time"

	"github.com/pdiddy/sheet2md/pkg/types"
)

// isoDate is the calendar form every date-typed column is rendered in.
const isoDate = "2006-01-02"

// ffillColumns is the number of leading columns that inherit values downward,
// approximating merged header cells common in spreadsheet layouts.
const ffillColumns = 2

// Grid returns a cleaned copy of g: missing cells become empty strings,
// date-typed columns are rendered as YYYY-MM-DD, and the first two columns
// are forward-filled. The input grid is never mutated.
func Grid(g types.Grid) types.Grid {
	out := g.Copy()
	formatDateColumns(out)
	replaceMissing(out)
	forwardFill(out)
	return out
}

// formatDateColumns rewrites every date-typed column as ISO calendar date
// strings. A column is date-typed when it holds at least one date and every
// non-empty cell below the header row is a date; the header cell keeps its
// label. Columns mixing dates with other values are left untouched.
func formatDateColumns(g types.Grid) {
	if len(g) == 0 {
		return
	}
	for col := 0; col < len(g[0]); col++ {
		dated := false
		uniform := true
		for row := 1; row < len(g); row++ {
			if col >= len(g[row]) || g[row][col] == nil {
				continue
			}
			if _, ok := g[row][col].(time.Time); ok {
				dated = true
			} else {
				uniform = false
			}
		}
		if !dated || !uniform {
			continue
		}
		for row := 0; row < len(g); row++ {
			if col >= len(g[row]) {
				continue
			}
			if t, ok := g[row][col].(time.Time); ok {
				g[row][col] = t.Format(isoDate)
			}
		}
	}
}

// replaceMissing turns nil cells into empty strings so no missing-value
// marker survives into the rendered document.
func replaceMissing(g types.Grid) {
	for _, row := range g {
		for j, cell := range row {
			if cell == nil {
				row[j] = ""
			}
		}
	}
}

// forwardFill propagates the last non-empty value downward through the
// leading columns of the data rows. The header row holds column labels, not
// values, so it neither seeds nor receives fill. Columns beyond the first
// two are never filled; a grid with no columns is a no-op.
func forwardFill(g types.Grid) {
	if len(g) < 2 {
		return
	}
	for col := 0; col < ffillColumns; col++ {
		var last any
		for _, row := range g[1:] {
			if col >= len(row) {
				continue
			}
			if isEmpty(row[col]) {
				if last != nil {
					row[col] = last
				}
			} else {
				last = row[col]
			}
		}
	}
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
