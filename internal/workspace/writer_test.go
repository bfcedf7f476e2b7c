package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jorge-barreto/llmfiles/internal/fileblocks"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWrite_CreatesNestedFile(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir}

	entry, err := w.Write(fileblocks.FileContent{Path: "src/pkg/main.go", Content: "package main\n\nfunc main() {}"})
	require.NoError(t, err)
	assert.Equal(t, Entry{Path: "src/pkg/main.go", Bytes: 29, Lines: 3}, entry)
	assert.Equal(t, "package main\n\nfunc main() {}\n", readFile(t, filepath.Join(dir, "src", "pkg", "main.go")))
}

func TestWrite_KeepsExistingTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir}
	_, err := w.Write(fileblocks.FileContent{Path: "a.txt", Content: "x\n"})
	require.NoError(t, err)
	assert.Equal(t, "x\n", readFile(t, filepath.Join(dir, "a.txt")))
}

func TestWrite_EmptyContent(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir}
	entry, err := w.Write(fileblocks.FileContent{Path: "empty.txt"})
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Lines)
	assert.Equal(t, "\n", readFile(t, filepath.Join(dir, "empty.txt")))
}

func TestWrite_RejectsUnsafePaths(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir}
	for _, p := range []string{"/etc/passwd", "../escape.txt", "a/../../b", "", "  ", "."} {
		_, err := w.Write(fileblocks.FileContent{Path: p, Content: "x"})
		assert.ErrorIs(t, err, ErrUnsafePath, "path %q", p)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWrite_Overwrite(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir}
	_, err := w.Write(fileblocks.FileContent{Path: "a.txt", Content: "one"})
	require.NoError(t, err)

	_, err = w.Write(fileblocks.FileContent{Path: "a.txt", Content: "two"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExists))
	assert.Equal(t, "one\n", readFile(t, filepath.Join(dir, "a.txt")))

	w.Overwrite = true
	_, err = w.Write(fileblocks.FileContent{Path: "a.txt", Content: "two"})
	require.NoError(t, err)
	assert.Equal(t, "two\n", readFile(t, filepath.Join(dir, "a.txt")))
}

func TestWrite_Filters(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{
		Dir:     dir,
		Include: []string{"src/**/*.go", "*.md"},
		Exclude: []string{"**/*_test.go"},
	}

	tests := []struct {
		path    string
		skipped string
	}{
		{"src/main.go", ""},
		{"src/deep/x/y.go", ""},
		{"README.md", ""},
		{"docs/guide.md", SkipExcluded},
		{"src/main_test.go", SkipExcluded},
		{"Makefile", SkipExcluded},
	}
	for _, tt := range tests {
		entry, err := w.Write(fileblocks.FileContent{Path: tt.path, Content: "x"})
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.skipped, entry.Skipped, tt.path)
		_, statErr := os.Stat(filepath.Join(dir, filepath.FromSlash(tt.path)))
		assert.Equal(t, tt.skipped == "", statErr == nil, "exists %s", tt.path)
	}
}

func TestWrite_DryRun(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{Dir: dir, DryRun: true}
	entry, err := w.Write(fileblocks.FileContent{Path: "a.txt", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, SkipDryRun, entry.Skipped)
	_, err = os.Stat(filepath.Join(dir, "a.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestCleanPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a.txt", "a.txt"},
		{"./src/a.go", "src/a.go"},
		{"src//a.go", "src/a.go"},
		{"src/x/../a.go", "src/a.go"},
		{" padded.txt ", "padded.txt"},
	}
	for _, tt := range tests {
		got, err := CleanPath(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, CountLines(""))
	assert.Equal(t, 1, CountLines("x"))
	assert.Equal(t, 1, CountLines("x\n"))
	assert.Equal(t, 2, CountLines("x\ny"))
	assert.Equal(t, 3, CountLines("\n\n\n"))
}
