package covers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultName(t *testing.T) {
	assert.Equal(t, "Book7.jpg", DefaultName(7))
	assert.Equal(t, "Book123.jpg", DefaultName(123))
}

func TestCandidatesOrder(t *testing.T) {
	candidates := Candidates("Dune.JPG", 1)

	require.GreaterOrEqual(t, len(candidates), 3)
	assert.Equal(t, "Dune.JPG", candidates[0])
	assert.Equal(t, filepath.Join("covers", "Dune.JPG"), candidates[1])
	assert.Equal(t, filepath.Join("images", "Dune.JPG"), candidates[2])
	assert.Contains(t, candidates, "dune.jpg")
	assert.Contains(t, candidates, "DUNE.JPG")
}

func TestCandidatesDefaultsWhenEmpty(t *testing.T) {
	candidates := Candidates("  ", 7)
	assert.Equal(t, "Book7.jpg", candidates[0])
}

func TestResolvePrefersDeclaredPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dune.jpg"), []byte("x"), 0644))

	resolved, ok := Resolve("Dune.jpg", 1, dir)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "Dune.jpg"), resolved)
}

func TestResolveFallsBackToCoversDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "covers"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "covers", "Dune.jpg"), []byte("x"), 0644))

	resolved, ok := Resolve("Dune.jpg", 1, dir)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "covers", "Dune.jpg"), resolved)
}

func TestResolveUsesDefaultNameWhenUndeclared(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Book3.jpg"), []byte("x"), 0644))

	resolved, ok := Resolve("", 3, dir)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "Book3.jpg"), resolved)
}

func TestResolveMissing(t *testing.T) {
	_, ok := Resolve("nothing-here.jpg", 1, t.TempDir())
	assert.False(t, ok)
}

func TestResolveIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Dune.jpg"), 0755))

	_, ok := Resolve("Dune.jpg", 1, dir)
	assert.False(t, ok)
}
