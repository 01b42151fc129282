// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk splits rendered documents into bounded-size fragments.
package chunk

import "strings"

// Split breaks doc into an ordered sequence of fragments of roughly maxChars
// characters each, preferring to cut where a new heading or table row begins.
// The ceiling is soft: a flush is forced as soon as the pending buffer
// reaches it, and a single line longer than the ceiling is emitted whole
// rather than truncated. Concatenating the returned fragments reproduces doc
// exactly.
//
// A document that already fits returns as the sole fragment without any
// line scanning.
func Split(doc string, maxChars int) []string {
	if len(doc) <= maxChars {
		return []string{doc}
	}

	var (
		chunks []string
		buf    strings.Builder
	)
	for _, line := range splitAfterLines(doc) {
		if buf.Len() > 0 && buf.Len()+len(line) > maxChars && isBoundary(line) {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
		buf.WriteString(line)
		if buf.Len() >= maxChars {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
	}
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}

// isBoundary reports whether line begins a structural unit worth cutting at:
// a level-two or level-three heading, or a table row.
func isBoundary(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "## ") ||
		strings.HasPrefix(t, "### ") ||
		strings.HasPrefix(t, "|")
}

// splitAfterLines splits doc into lines with terminators preserved, so the
// pieces rejoin to the original input.
func splitAfterLines(doc string) []string {
	lines := strings.SplitAfter(doc, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
