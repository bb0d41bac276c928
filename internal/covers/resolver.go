// Package covers locates, scales and caches book cover images.
//
// Resolution is a pure function over (declared path, book id, base dir):
// the declared path is probed as-is, then under the covers/ and images/
// subdirectories, then as case-folded variants. Books without a declared
// path fall back to the conventional "Book<id>.jpg" name. Missing or
// undecodable files degrade to a generated placeholder image, never to a
// hard failure.
package covers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultName returns the conventional cover filename derived from a book
// identifier, e.g. "Book7.jpg" for book 7.
func DefaultName(bookID uint) string {
	return fmt.Sprintf("Book%d.jpg", bookID)
}

// Candidates returns the relative paths to probe, in order: the declared
// path itself, the covers/ and images/ subdirectories, then lower- and
// upper-cased variants. An empty declared path derives the default name.
func Candidates(declared string, bookID uint) []string {
	path := strings.TrimSpace(declared)
	if path == "" {
		path = DefaultName(bookID)
	}

	candidates := []string{
		path,
		filepath.Join("covers", path),
		filepath.Join("images", path),
	}
	if lower := strings.ToLower(path); lower != path {
		candidates = append(candidates, lower)
	}
	if upper := strings.ToUpper(path); upper != path {
		candidates = append(candidates, upper)
	}
	return candidates
}

// Resolve probes the candidate locations under baseDir and returns the
// first existing regular file. The boolean is false when nothing matched.
func Resolve(declared string, bookID uint, baseDir string) (string, bool) {
	for _, candidate := range Candidates(declared, bookID) {
		full := filepath.Join(baseDir, candidate)
		info, err := os.Stat(full)
		if err == nil && info.Mode().IsRegular() {
			return full, true
		}
	}
	return "", false
}
