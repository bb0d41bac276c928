package covers

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
)

// Cache stores pre-scaled cover images on disk so repeated requests skip
// the decode+scale work. Entries are keyed by book ID plus a hash of the
// declared source path, so changing a book's cover naturally misses.
type Cache struct {
	cacheDir string
	renderer *Renderer
}

// NewCache creates a scaled-cover cache at the specified directory.
func NewCache(cacheDir string, renderer *Renderer) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	return &Cache{
		cacheDir: cacheDir,
		renderer: renderer,
	}, nil
}

// GetCover returns the path of the cached scaled cover for a book, scaling
// and caching it on a miss. Placeholder renders (missing or invalid source)
// are never cached, so a cover dropped into place later is picked up; for
// those the rendered result is returned with an empty path.
func (c *Cache) GetCover(bookID uint, declaredPath string) (string, Rendered, error) {
	filename := c.coverFilename(bookID, declaredPath)
	cachePath := filepath.Join(c.cacheDir, filename)

	if _, err := os.Stat(cachePath); err == nil {
		return cachePath, Rendered{Status: StatusFound, SourcePath: cachePath}, nil
	}

	rendered := c.renderer.Render(declaredPath, bookID)
	if rendered.Status != StatusFound {
		return "", rendered, nil
	}

	if err := c.store(cachePath, rendered); err != nil {
		return "", rendered, err
	}
	return cachePath, rendered, nil
}

// Prewarm renders and caches the cover for a book, reporting the outcome.
func (c *Cache) Prewarm(bookID uint, declaredPath string) (Status, error) {
	_, rendered, err := c.GetCover(bookID, declaredPath)
	return rendered.Status, err
}

// InvalidateCover removes all cached covers for a book. Called when the
// catalog cover path changes.
func (c *Cache) InvalidateCover(bookID uint) error {
	pattern := filepath.Join(c.cacheDir, fmt.Sprintf("cover_%d_*", bookID))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

// coverFilename generates a unique filename based on book ID and the hash
// of the declared source path.
func (c *Cache) coverFilename(bookID uint, declaredPath string) string {
	hash := sha256.Sum256([]byte(declaredPath))
	return fmt.Sprintf("cover_%d_%x.png", bookID, hash[:8])
}

// store writes the scaled cover with an atomic temp-file rename.
func (c *Cache) store(cachePath string, rendered Rendered) error {
	data, err := EncodePNG(rendered.Image)
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(c.cacheDir, "cover_tmp_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return err
	}
	tmpFile.Close()

	return os.Rename(tmpPath, cachePath)
}
