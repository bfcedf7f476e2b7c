// Package workspace writes extracted files under an output directory and
// keeps a manifest of what each run produced.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jorge-barreto/llmfiles/internal/fileblocks"
)

var (
	// ErrUnsafePath is returned for paths that are absolute, empty, or leave
	// the output directory.
	ErrUnsafePath = errors.New("unsafe path")
	// ErrExists is returned when the target exists and Overwrite is false.
	ErrExists = errors.New("file already exists")
)

// Skip reasons recorded on entries that were not written.
const (
	SkipExcluded = "excluded"
	SkipDryRun   = "dry-run"
)

// Entry describes one extracted file.
type Entry struct {
	Path    string `json:"path"`
	Bytes   int    `json:"bytes"`
	Lines   int    `json:"lines"`
	Skipped string `json:"skipped,omitempty"`
}

// Writer places extracted files under Dir.
type Writer struct {
	Dir       string
	Include   []string
	Exclude   []string
	Overwrite bool
	DryRun    bool
}

// Write stores f under w.Dir. Files filtered out by Include/Exclude, and all
// files in dry-run mode, are returned as skipped entries without error.
func (w *Writer) Write(f fileblocks.FileContent) (Entry, error) {
	rel, err := CleanPath(f.Path)
	if err != nil {
		return Entry{Path: f.Path}, err
	}

	content := f.Content
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	entry := Entry{Path: rel, Bytes: len(content), Lines: CountLines(f.Content)}

	if !w.included(rel) {
		entry.Skipped = SkipExcluded
		return entry, nil
	}
	if w.DryRun {
		entry.Skipped = SkipDryRun
		return entry, nil
	}

	target := filepath.Join(w.Dir, filepath.FromSlash(rel))
	if !w.Overwrite {
		if _, err := os.Stat(target); err == nil {
			return entry, fmt.Errorf("%s: %w", rel, ErrExists)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return entry, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return entry, fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := writeFileAtomic(target, []byte(content), 0644); err != nil {
		return entry, fmt.Errorf("writing %s: %w", rel, err)
	}
	return entry, nil
}

func (w *Writer) included(rel string) bool {
	for _, pat := range w.Exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return false
		}
	}
	if len(w.Include) == 0 {
		return true
	}
	for _, pat := range w.Include {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// CleanPath normalizes an extracted path to a slash-separated path relative
// to the output directory.
func CleanPath(p string) (string, error) {
	slashed := filepath.ToSlash(strings.TrimSpace(p))
	if slashed == "" || strings.HasPrefix(slashed, "/") || filepath.IsAbs(p) {
		return "", fmt.Errorf("%q: %w", p, ErrUnsafePath)
	}
	cleaned := path.Clean(slashed)
	if cleaned == "." || !filepath.IsLocal(filepath.FromSlash(cleaned)) {
		return "", fmt.Errorf("%q: %w", p, ErrUnsafePath)
	}
	return cleaned, nil
}

// CountLines counts the lines of content, ignoring one trailing newline.
func CountLines(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(content, "\n"), "\n") + 1
}
