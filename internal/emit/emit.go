// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package emit writes chunk files with deterministic, collision-resistant names.
package emit

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Emitter persists document chunks under a single output directory.
type Emitter struct {
	dir string
}

// New returns an Emitter writing into dir. The directory is created on the
// first write if absent.
func New(dir string) *Emitter {
	return &Emitter{dir: dir}
}

// Output describes one written chunk file.
type Output struct {
	FileName string
	Part     int
	Hash     string
}

// Write persists one file per chunk and reports what was written. Names
// follow <stem>__<sheet>[__partNN]__<hash8>.md; the part index appears only
// when the document produced more than one chunk, and the 8-character content
// hash keeps two distinct documents from silently overwriting each other.
// Each chunk is written to a temp file and renamed into place, so a failed
// write leaves no partial output behind.
func (e *Emitter) Write(sourceFile, sheet string, chunks []string) ([]Output, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", e.dir, err)
	}

	stem := strings.TrimSuffix(filepath.Base(sourceFile), filepath.Ext(sourceFile))
	outputs := make([]Output, 0, len(chunks))
	for i, chunk := range chunks {
		part := i + 1
		base := sanitize(stem) + "__" + sanitize(sheet)
		if len(chunks) > 1 {
			base += fmt.Sprintf("__part%02d", part)
		}
		hash := ContentHash(chunk)
		name := base + "__" + hash + ".md"

		if err := writeAtomic(filepath.Join(e.dir, name), []byte(chunk)); err != nil {
			return outputs, fmt.Errorf("writing %s: %w", name, err)
		}
		outputs = append(outputs, Output{FileName: name, Part: part, Hash: hash})
	}
	return outputs, nil
}

// ContentHash returns the 8-hex-character suffix derived from chunk content.
func ContentHash(chunk string) string {
	sum := md5.Sum([]byte(chunk))
	return hex.EncodeToString(sum[:])[:8]
}

// sanitize replaces path separators so a sheet name cannot escape the output
// directory.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	return strings.ReplaceAll(s, "\\", "_")
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sheet2md-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
