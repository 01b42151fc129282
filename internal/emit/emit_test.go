// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package emit

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var singleName = regexp.MustCompile(`^report__Sheet1__[0-9a-f]{8}\.md$`)

func TestWrite_SingleChunk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	em := New(dir)

	outputs, err := em.Write("report.xlsx", "Sheet1", []string{"content"})
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	// No part index when a document fits in one chunk.
	assert.Regexp(t, singleName, outputs[0].FileName)
	assert.Equal(t, 1, outputs[0].Part)
	assert.Len(t, outputs[0].Hash, 8)

	data, err := os.ReadFile(filepath.Join(dir, outputs[0].FileName))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestWrite_MultiChunkParts(t *testing.T) {
	em := New(t.TempDir())

	outputs, err := em.Write("report.xlsx", "Sheet1", []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, outputs, 2)

	assert.Contains(t, outputs[0].FileName, "__part01__")
	assert.Contains(t, outputs[1].FileName, "__part02__")
	assert.NotEqual(t, outputs[0].FileName, outputs[1].FileName)
}

func TestWrite_DistinctContentDistinctNames(t *testing.T) {
	em := New(t.TempDir())

	a, err := em.Write("report.xlsx", "Sheet1", []string{"alpha"})
	require.NoError(t, err)
	b, err := em.Write("report.xlsx", "Sheet1", []string{"beta"})
	require.NoError(t, err)

	// Same base identity, different content: the hash suffix must differ.
	assert.NotEqual(t, a[0].FileName, b[0].FileName)
}

func TestWrite_SanitizesSheetName(t *testing.T) {
	dir := t.TempDir()
	em := New(dir)

	outputs, err := em.Write("report.xlsx", "2024/上期", []string{"x"})
	require.NoError(t, err)
	assert.NotContains(t, outputs[0].FileName, "/")

	_, err = os.Stat(filepath.Join(dir, outputs[0].FileName))
	assert.NoError(t, err)
}

func TestWrite_CreatesOutputDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	em := New(dir)

	_, err := em.Write("r.xlsx", "s", []string{"x"})
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWrite_NoPartialFiles(t *testing.T) {
	dir := t.TempDir()
	em := New(dir)

	_, err := em.Write("r.xlsx", "s", []string{"x"})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".sheet2md-", "temp files must not survive")
	}
}

func TestContentHash(t *testing.T) {
	assert.Len(t, ContentHash("x"), 8)
	assert.Equal(t, ContentHash("x"), ContentHash("x"))
	assert.NotEqual(t, ContentHash("x"), ContentHash("y"))
}
