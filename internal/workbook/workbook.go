// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workbook reads spreadsheet files into tabular grids.
package workbook

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/sheet2md/pkg/types"
)

// Reader is an opened workbook. It is read-only and scoped to one file's
// processing lifetime.
type Reader struct {
	f *excelize.File
}

// Open opens the spreadsheet at path. Legacy binary variants that excelize
// cannot read surface here as an open error.
func Open(path string) (*Reader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	return &Reader{f: f}, nil
}

// Sheets returns the sheet names in workbook order.
func (r *Reader) Sheets() []string {
	return r.f.GetSheetList()
}

// Grid reads one sheet into a typed grid. Rows are padded to a uniform width
// so downstream column operations see a rectangular table; absent cells are nil.
func (r *Reader) Grid(sheet string) (types.Grid, error) {
	rows, err := r.f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	grid := make(types.Grid, len(rows))
	for i, row := range rows {
		cells := make([]any, width)
		for j := 0; j < width; j++ {
			if j < len(row) && row[j] != "" {
				cells[j] = parseCell(row[j])
			}
		}
		grid[i] = cells
	}
	return grid, nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// dateLayouts covers ISO dates plus the slash and dash short forms excelize
// produces for date-styled cells.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/06",
	"1/2/2006",
	"01-02-06",
	"2006-01-02 15:04:05",
}

// parseCell types a raw cell string: integer, then float, then date, then string.
func parseCell(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return s
}
