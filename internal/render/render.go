// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render assembles front matter, a title, and a Markdown table into
// one self-contained document per worksheet.
package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/pdiddy/sheet2md/pkg/types"
)

// Title builds the document heading for one worksheet.
func Title(sourceFile, sheet string) string {
	stem := strings.TrimSuffix(filepath.Base(sourceFile), filepath.Ext(sourceFile))
	return stem + " - " + sheet
}

// Document renders a complete Markdown document for one worksheet: front
// matter, an H1 title, and the grid as a pipe table. A grid with no data rows
// below the header yields front matter and title only; an empty sheet still
// produces a document.
func Document(title string, grid types.Grid, meta types.DocumentMeta) string {
	var b strings.Builder
	writeFrontMatter(&b, meta)
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(grid) > 1 {
		b.WriteString(Table(grid))
		b.WriteString("\n")
	}
	return b.String()
}

// writeFrontMatter emits the fixed-order metadata block. Downstream consumers
// parse the keys positionally, so the order must not change.
func writeFrontMatter(b *strings.Builder, meta types.DocumentMeta) {
	b.WriteString("---\n")
	fmt.Fprintf(b, "source_file: %s\n", meta.SourceFile)
	fmt.Fprintf(b, "sheet: %s\n", meta.Sheet)
	fmt.Fprintf(b, "doc_type: %s\n", meta.DocType)
	fmt.Fprintf(b, "generated_at: %s\n", meta.GeneratedAt)
	b.WriteString("---\n\n")
}

// Table renders a grid as a Markdown pipe table. Row 0 is the header row; no
// row-index column is emitted.
func Table(grid types.Grid) string {
	if len(grid) == 0 {
		return ""
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader(cellStrings(grid[0]))
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	for _, row := range grid[1:] {
		table.Append(cellStrings(row))
	}
	table.Render()
	return buf.String()
}

func cellStrings(row []any) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = cellString(c)
	}
	return out
}

// cellString formats a heterogeneous cell for table output.
func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case int64:
		return strconv.FormatInt(c, 10)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case time.Time:
		return c.Format("2006-01-02")
	default:
		return fmt.Sprint(c)
	}
}
