package briefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBrief(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLibraryLoad(t *testing.T) {
	dir := t.TempDir()
	writeBrief(t, dir, "market.md", "# Market\nTAM is growing.")
	writeBrief(t, dir, "notes/board.txt", "Board wants EU expansion.")
	writeBrief(t, dir, "ignore.pdf", "binary-ish")
	writeBrief(t, dir, ".git/config", "not a brief")

	cfg := DefaultConfig()
	cfg.Dir = dir

	lib, err := NewLibrary(cfg, nil)
	require.NoError(t, err)

	briefs := lib.List()
	require.Len(t, briefs, 2)
	assert.Equal(t, "market.md", briefs[0].Name)
	assert.Equal(t, filepath.Join("notes", "board.txt"), briefs[1].Name)
}

func TestLibraryDigest(t *testing.T) {
	dir := t.TempDir()
	writeBrief(t, dir, "a.md", "Alpha content")
	writeBrief(t, dir, "b.md", "Beta content")

	cfg := DefaultConfig()
	cfg.Dir = dir

	lib, err := NewLibrary(cfg, nil)
	require.NoError(t, err)

	digest := lib.Digest()
	assert.Contains(t, digest, "### a.md")
	assert.Contains(t, digest, "Alpha content")
	assert.Contains(t, digest, "Beta content")
}

func TestLibraryDigestBounded(t *testing.T) {
	dir := t.TempDir()
	writeBrief(t, dir, "big.md", strings.Repeat("x", maxDigestChars))
	writeBrief(t, dir, "second.md", "should not fit")

	cfg := DefaultConfig()
	cfg.Dir = dir

	lib, err := NewLibrary(cfg, nil)
	require.NoError(t, err)

	digest := lib.Digest()
	assert.LessOrEqual(t, len(digest), maxDigestChars+100)
	assert.NotContains(t, digest, "should not fit")
}

func TestLibraryReload(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Dir = dir

	lib, err := NewLibrary(cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, lib.List())

	writeBrief(t, dir, "late.md", "arrived later")
	require.NoError(t, lib.Reload())
	require.Len(t, lib.List(), 1)
	assert.Equal(t, "late.md", lib.List()[0].Name)
}

func TestEmptyDirDisablesBriefs(t *testing.T) {
	lib, err := NewLibrary(Config{}, nil)
	require.NoError(t, err)
	assert.Empty(t, lib.List())
	assert.Empty(t, lib.Digest())
}
