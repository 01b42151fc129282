// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/sheet2md/internal/manifest"
	"github.com/pdiddy/sheet2md/internal/workbook"
	"github.com/pdiddy/sheet2md/pkg/types"
)

// fakeSource implements SheetSource for testing, returning canned grids or
// an error, depending on configuration.
type fakeSource struct {
	sheets  []string
	grids   map[string]types.Grid
	gridErr error
}

func (f *fakeSource) Sheets() []string { return f.sheets }

func (f *fakeSource) Grid(sheet string) (types.Grid, error) {
	if f.gridErr != nil {
		return nil, f.gridErr
	}
	return f.grids[sheet], nil
}

func (f *fakeSource) Close() error { return nil }

// fakeRecorder collects manifest entries in memory.
type fakeRecorder struct {
	entries []manifest.Entry
}

func (f *fakeRecorder) Record(e manifest.Entry) error {
	f.entries = append(f.entries, e)
	return nil
}

func smallGrid() types.Grid {
	return types.Grid{
		{"ID", "Status"},
		{"BUG-1", "open"},
	}
}

// touch creates an empty placeholder file; fake openers never read it.
func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("placeholder"), 0o644))
}

func fixedNow() time.Time {
	return time.Date(2024, time.January, 5, 10, 0, 0, 0, time.UTC)
}

func TestRun_Batch(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	touch(t, filepath.Join(inDir, "a.xlsx"))
	touch(t, filepath.Join(inDir, "notes.txt"))
	touch(t, filepath.Join(inDir, "sub", "b.xlsm"))

	open := func(path string) (SheetSource, error) {
		return &fakeSource{
			sheets: []string{"Sheet1"},
			grids:  map[string]types.Grid{"Sheet1": smallGrid()},
		}, nil
	}

	p := New(types.DefaultPipelineConfig(), nil, open, nil)
	p.now = fixedNow

	var log bytes.Buffer
	result, err := p.Run(inDir, outDir, &log)
	require.NoError(t, err)

	// notes.txt is silently ignored, not a failure.
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 2, result.Files)
	assert.False(t, result.HasFailures())

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	assert.Contains(t, log.String(), "processed: ")
	assert.Contains(t, log.String(), "Processed 2 workbook(s), 0 failed")
}

func TestRun_ContinuesPastFailure(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	touch(t, filepath.Join(inDir, "bad.xlsx"))
	touch(t, filepath.Join(inDir, "good.xlsx"))

	open := func(path string) (SheetSource, error) {
		if strings.Contains(path, "bad") {
			return nil, fmt.Errorf("corrupt file")
		}
		return &fakeSource{
			sheets: []string{"Sheet1"},
			grids:  map[string]types.Grid{"Sheet1": smallGrid()},
		}, nil
	}

	p := New(types.DefaultPipelineConfig(), nil, open, nil)
	p.now = fixedNow

	var log bytes.Buffer
	result, err := p.Run(inDir, outDir, &log)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HasFailures())
	assert.Contains(t, log.String(), "failed:")
	assert.Contains(t, log.String(), "corrupt file")
}

func TestRun_EmptySheetStillEmits(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	touch(t, filepath.Join(inDir, "a.xlsx"))

	open := func(path string) (SheetSource, error) {
		return &fakeSource{
			sheets: []string{"空"},
			grids:  map[string]types.Grid{"空": {}},
		}, nil
	}

	p := New(types.DefaultPipelineConfig(), nil, open, nil)
	p.now = fixedNow

	var log bytes.Buffer
	result, err := p.Run(inDir, outDir, &log)
	require.NoError(t, err)
	require.Equal(t, 1, result.Files)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), "sheet: 空")
	assert.Contains(t, string(data), "# a - 空")
}

func TestRun_ChunksLargeDocuments(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	touch(t, filepath.Join(inDir, "big.xlsx"))

	grid := types.Grid{{"ID", "Payload"}}
	for i := 0; i < 50; i++ {
		grid = append(grid, []any{fmt.Sprintf("row-%02d", i), strings.Repeat("p", 40)})
	}

	open := func(path string) (SheetSource, error) {
		return &fakeSource{
			sheets: []string{"Sheet1"},
			grids:  map[string]types.Grid{"Sheet1": grid},
		}, nil
	}

	cfg := types.DefaultPipelineConfig()
	cfg.Chunk.MaxChars = 500
	p := New(cfg, nil, open, nil)
	p.now = fixedNow

	var log bytes.Buffer
	result, err := p.Run(inDir, outDir, &log)
	require.NoError(t, err)
	assert.Greater(t, result.Files, 1)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	assert.Contains(t, names[0], "__part01__")

	// Concatenating the chunks in part order reproduces one document.
	var joined strings.Builder
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		require.NoError(t, err)
		joined.WriteString(string(data))
	}
	assert.Contains(t, joined.String(), "row-49")
	assert.Equal(t, 1, strings.Count(joined.String(), "# big - Sheet1"))
}

func TestRun_RecordsManifestEntries(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	touch(t, filepath.Join(inDir, "テスト観点.xlsx"))

	open := func(path string) (SheetSource, error) {
		return &fakeSource{
			sheets: []string{"Sheet1"},
			grids:  map[string]types.Grid{"Sheet1": smallGrid()},
		}, nil
	}

	rec := &fakeRecorder{}
	p := New(types.DefaultPipelineConfig(), nil, open, rec)
	p.now = fixedNow

	var log bytes.Buffer
	_, err := p.Run(inDir, outDir, &log)
	require.NoError(t, err)

	require.Len(t, rec.entries, 1)
	e := rec.entries[0]
	assert.Equal(t, "テスト観点.xlsx", e.SourceFile)
	assert.Equal(t, "Sheet1", e.Sheet)
	assert.Equal(t, "test_viewpoints", e.DocType)
	assert.Equal(t, 1, e.Part)
	assert.Len(t, e.Hash, 8)
	assert.Equal(t, "2024-01-05T10:00:00Z", e.GeneratedAt)
}

// End-to-end through a real workbook: a defect-tracking sheet with a date
// column and a merged-cell gap in the first column produces a single
// self-describing Markdown file.
func TestRun_EndToEnd(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	f := excelize.NewFile()
	cells := map[string]any{
		"A1": "機能", "B1": "内容", "C1": "日付", "D1": "担当",
		"A2": "ログイン", "B2": "初回表示", "C2": "2024-01-05", "D2": "佐藤",
		"B3": "再入力", "C3": "2024-01-06", "D3": "鈴木",
		"A4": "検索", "B4": "絞り込み", "C4": "2024-01-07", "D4": "高橋",
	}
	for ref, v := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", ref, v))
	}
	require.NoError(t, f.SaveAs(filepath.Join(inDir, "欠陥管理表.xlsx")))
	require.NoError(t, f.Close())

	open := func(path string) (SheetSource, error) {
		return workbook.Open(path)
	}

	p := New(types.DefaultPipelineConfig(), nil, open, nil)

	var log bytes.Buffer
	result, err := p.Run(inDir, outDir, &log)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	require.Equal(t, 1, result.Files)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "__part")

	data, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	doc := string(data)

	assert.Contains(t, doc, "source_file: 欠陥管理表.xlsx")
	assert.Contains(t, doc, "sheet: Sheet1")
	assert.Contains(t, doc, "doc_type: unknown")
	assert.Contains(t, doc, "# 欠陥管理表 - Sheet1")

	// The date column renders as ISO dates.
	assert.Contains(t, doc, "2024-01-05")
	// The empty first-column cell inherits the value above it.
	assert.Equal(t, 2, strings.Count(doc, "ログイン"))
}
