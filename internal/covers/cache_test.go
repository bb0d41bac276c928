package covers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*Cache, string) {
	t.Helper()

	baseDir := t.TempDir()
	renderer := NewRenderer(baseDir, 280, 380)
	cache, err := NewCache(filepath.Join(baseDir, "cache"), renderer)
	require.NoError(t, err)
	return cache, baseDir
}

func TestGetCoverCachesScaledImage(t *testing.T) {
	cache, baseDir := setupCache(t)
	writeTestImage(t, filepath.Join(baseDir, "Book1.jpg"), 400, 600)

	path, rendered, err := cache.GetCover(1, "Book1.jpg")
	require.NoError(t, err)
	assert.Equal(t, StatusFound, rendered.Status)
	require.NotEmpty(t, path)

	_, err = os.Stat(path)
	assert.NoError(t, err, "scaled cover should be stored on disk")

	// Second call is a cache hit on the same file.
	again, rendered, err := cache.GetCover(1, "Book1.jpg")
	require.NoError(t, err)
	assert.Equal(t, StatusFound, rendered.Status)
	assert.Equal(t, path, again)
}

func TestGetCoverPlaceholderNotCached(t *testing.T) {
	cache, _ := setupCache(t)

	path, rendered, err := cache.GetCover(1, "missing.jpg")
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, rendered.Status)
	assert.Empty(t, path, "placeholders are rendered in-memory, never stored")
	assert.NotNil(t, rendered.Image)
}

func TestInvalidateCover(t *testing.T) {
	cache, baseDir := setupCache(t)
	writeTestImage(t, filepath.Join(baseDir, "Book1.jpg"), 400, 600)

	path, _, err := cache.GetCover(1, "Book1.jpg")
	require.NoError(t, err)
	require.NotEmpty(t, path)

	require.NoError(t, cache.InvalidateCover(1))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "cached render should be removed")
}

func TestDifferentDeclaredPathsCacheSeparately(t *testing.T) {
	cache, baseDir := setupCache(t)
	writeTestImage(t, filepath.Join(baseDir, "a.jpg"), 100, 100)
	writeTestImage(t, filepath.Join(baseDir, "b.jpg"), 100, 100)

	pathA, _, err := cache.GetCover(1, "a.jpg")
	require.NoError(t, err)
	pathB, _, err := cache.GetCover(1, "b.jpg")
	require.NoError(t, err)

	assert.NotEqual(t, pathA, pathB)
}

func TestPrewarm(t *testing.T) {
	cache, baseDir := setupCache(t)
	writeTestImage(t, filepath.Join(baseDir, "Book1.jpg"), 400, 600)

	status, err := cache.Prewarm(1, "Book1.jpg")
	require.NoError(t, err)
	assert.Equal(t, StatusFound, status)

	status, err = cache.Prewarm(2, "absent.jpg")
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, status)
}
