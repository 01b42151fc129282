// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Grid is a tabular snapshot of one worksheet. Row 0 is the header row.
// Cell values are string, int64, float64, time.Time, or nil for a missing cell.
type Grid [][]any

// Copy returns a deep copy of the grid's row and cell structure. Cell values
// are immutable value types, so copying the slices is sufficient.
func (g Grid) Copy() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		cells := make([]any, len(row))
		copy(cells, row)
		out[i] = cells
	}
	return out
}

// Category labels the semantic document type inferred from a workbook's file name.
type Category string

const (
	CategoryTestViewpoints Category = "test_viewpoints"
	CategoryDesignSpec     Category = "design_spec"
	CategoryUnknown        Category = "unknown"
)

// DocumentMeta is the metadata embedded as front matter in every chunk emitted
// for a worksheet. Field order is the front matter key order; downstream
// consumers parse the block positionally, so it must not change.
type DocumentMeta struct {
	// SourceFile is the workbook file name (base name, with extension).
	SourceFile string `json:"source_file" yaml:"source_file"`

	// Sheet is the worksheet name within the workbook.
	Sheet string `json:"sheet" yaml:"sheet"`

	// DocType is the category inferred from the workbook file name.
	DocType Category `json:"doc_type" yaml:"doc_type"`

	// GeneratedAt is the UTC generation timestamp in RFC 3339 form.
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
}
