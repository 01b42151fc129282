// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline discovers workbooks under an input root and drives the
// per-sheet document shaping stages: classify, normalize, render, chunk, emit.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/sheet2md/internal/chunk"
	"github.com/pdiddy/sheet2md/internal/classify"
	"github.com/pdiddy/sheet2md/internal/emit"
	"github.com/pdiddy/sheet2md/internal/manifest"
	"github.com/pdiddy/sheet2md/internal/normalize"
	"github.com/pdiddy/sheet2md/internal/render"
	"github.com/pdiddy/sheet2md/pkg/types"
)

// SheetSource yields the sheets of one opened workbook.
type SheetSource interface {
	Sheets() []string
	Grid(sheet string) (types.Grid, error)
	Close() error
}

// Opener opens the workbook at path. Production code wires workbook.Open;
// tests substitute fakes.
type Opener func(path string) (SheetSource, error)

// Recorder receives one entry per emitted file. A nil Recorder disables
// recording.
type Recorder interface {
	Record(e manifest.Entry) error
}

// Pipeline converts every supported workbook under an input root into
// chunked Markdown documents. Workbooks are processed strictly sequentially;
// chunk file names are unique by construction, so the output directory needs
// no locking.
type Pipeline struct {
	cfg   types.PipelineConfig
	rules []classify.Rule
	open  Opener
	rec   Recorder
	now   func() time.Time
}

// New builds a Pipeline. A zero or negative chunk ceiling falls back to the
// default.
func New(cfg types.PipelineConfig, rules []classify.Rule, open Opener, rec Recorder) *Pipeline {
	if cfg.Chunk.MaxChars <= 0 {
		cfg.Chunk.MaxChars = types.DefaultPipelineConfig().Chunk.MaxChars
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = types.DefaultPipelineConfig().Extensions
	}
	if len(rules) == 0 {
		rules = classify.DefaultRules()
	}
	return &Pipeline{cfg: cfg, rules: rules, open: open, rec: rec, now: time.Now}
}

// BatchResult summarizes one batch run.
type BatchResult struct {
	Processed int // workbooks converted
	Failed    int // workbooks skipped after a parse failure
	Files     int // chunk files written
}

// Total returns the number of workbooks the batch attempted.
func (r BatchResult) Total() int {
	return r.Processed + r.Failed
}

// HasFailures reports whether any workbook failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Run walks inputDir, processes every file with a supported extension, and
// writes chunk files to outDir. A workbook that cannot be opened or read is
// reported to w and skipped; the batch continues. Write failures are fatal
// and abort the batch immediately.
func (p *Pipeline) Run(inputDir, outDir string, w io.Writer) (BatchResult, error) {
	var result BatchResult
	em := emit.New(outDir)

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !p.supported(path) {
			return nil
		}

		written, perr := p.processWorkbook(path, em)
		result.Files += written
		if perr != nil {
			var fatal *fatalError
			if errors.As(perr, &fatal) {
				return perr
			}
			result.Failed++
			fmt.Fprintf(w, "failed:    %s (%v)\n", path, perr)
			return nil
		}
		result.Processed++
		fmt.Fprintf(w, "processed: %s (%d file(s))\n", path, written)
		return nil
	})
	if err != nil {
		return result, err
	}

	fmt.Fprintf(w, "\nProcessed %d workbook(s), %d failed, %d Markdown file(s) → %s\n",
		result.Processed, result.Failed, result.Files, outDir)
	return result, nil
}

// processWorkbook converts every sheet of one workbook and returns the number
// of chunk files written. Errors from emitting or recording are wrapped as
// fatal; everything else counts as a per-workbook parse failure.
func (p *Pipeline) processWorkbook(path string, em *emit.Emitter) (int, error) {
	src, err := p.open(path)
	if err != nil {
		return 0, fmt.Errorf("opening workbook: %w", err)
	}
	defer src.Close()

	name := filepath.Base(path)
	docType := classify.Classify(name, p.rules)

	written := 0
	for _, sheet := range src.Sheets() {
		grid, err := src.Grid(sheet)
		if err != nil {
			return written, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		grid = normalize.Grid(grid)

		meta := types.DocumentMeta{
			SourceFile:  name,
			Sheet:       sheet,
			DocType:     docType,
			GeneratedAt: p.now().UTC().Format(time.RFC3339),
		}
		doc := render.Document(render.Title(name, sheet), grid, meta)
		chunks := chunk.Split(doc, p.cfg.Chunk.MaxChars)

		outputs, err := em.Write(name, sheet, chunks)
		written += len(outputs)
		if err != nil {
			return written, &fatalError{err}
		}

		if p.rec != nil {
			for _, out := range outputs {
				entry := manifest.Entry{
					SourceFile:  name,
					Sheet:       sheet,
					DocType:     string(docType),
					Part:        out.Part,
					FileName:    out.FileName,
					Hash:        out.Hash,
					GeneratedAt: meta.GeneratedAt,
				}
				if err := p.rec.Record(entry); err != nil {
					return written, &fatalError{err}
				}
			}
		}
	}
	return written, nil
}

func (p *Pipeline) supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range p.cfg.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// fatalError marks failures that must abort the batch instead of skipping
// the current workbook.
type fatalError struct {
	err error
}

func (e *fatalError) Error() string {
	return e.err.Error()
}

func (e *fatalError) Unwrap() error {
	return e.err
}
