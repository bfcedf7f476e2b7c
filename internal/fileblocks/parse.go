package fileblocks

import (
	"strings"
)

// FileContent represents a single extracted file from LLM output.
type FileContent struct {
	Path    string `json:"path"`    // e.g. "src/main.go"
	Content string `json:"content"` // trimmed content between the markers
}

// Parse extracts file blocks from a complete document. It recognizes
// path lines followed by a fenced block, or, when g is in XML mode, an
// element pair preceded by a path line:
//
//	File path: src/main.go
//	```go
//	package main
//	```
//
// Returns files in order of appearance. Blocks with an empty path or empty
// content are skipped.
func Parse(text string, g *Grammar) []FileContent {
	if g.Mode() == ModeXML {
		return parseXML(text, g)
	}
	return parseFenced(text, g)
}

func parseFenced(text string, g *Grammar) []FileContent {
	var files []FileContent
	remaining := text

	for strings.TrimSpace(remaining) != "" {
		path, content, end, ok := nextFencedBlock(remaining, g)
		if !ok {
			break
		}
		path = strings.TrimSpace(path)
		content = strings.TrimSpace(content)
		if path != "" && content != "" {
			files = append(files, FileContent{Path: path, Content: content})
		}
		remaining = remaining[end:]
	}

	return files
}

// nextFencedBlock finds the leftmost path line whose block is closed by a
// fence at the start of a line. end is the offset just past that fence.
func nextFencedBlock(text string, g *Grammar) (path, content string, end int, ok bool) {
	off := 0
	for {
		idx := strings.Index(text[off:], g.prefix)
		if idx < 0 {
			return "", "", 0, false
		}
		at := off + idx
		off = at + 1

		i, _ := skipSpace(text, at+len(g.prefix))
		j := scanPath(text, i)
		if j == i {
			continue
		}
		// The white space after the path must end with a newline that is
		// immediately followed by the opening fence.
		k, _ := skipSpace(text, j)
		if k == j || text[k-1] != '\n' || !strings.HasPrefix(text[k:], fence) {
			continue
		}
		bodyStart := k + len(fence)
		if w := scanWord(text, bodyStart); w < len(text) && text[w] == '\n' {
			bodyStart = w + 1
		}
		closeAt := lineStartFence(text, bodyStart)
		if closeAt < 0 {
			continue
		}
		return text[i:j], text[bodyStart:closeAt], closeAt + len(fence), true
	}
}

// lineStartFence returns the first offset >= from where a fence begins a line.
func lineStartFence(text string, from int) int {
	for from <= len(text) {
		idx := strings.Index(text[from:], fence)
		if idx < 0 {
			return -1
		}
		q := from + idx
		if q == 0 || text[q-1] == '\n' {
			return q
		}
		from = q + 1
	}
	return -1
}

// parseXML finds every element pair and attributes it to the nearest
// non-blank line before it, if that line carries a path. This is a
// heuristic: a pair with no path line above it is dropped.
func parseXML(text string, g *Grammar) []FileContent {
	var files []FileContent
	off := 0

	for {
		o := strings.Index(text[off:], g.open)
		if o < 0 {
			break
		}
		o += off
		c := strings.Index(text[o+len(g.open):], g.close)
		if c < 0 {
			break
		}
		c += o + len(g.open)
		off = c + len(g.close)

		content := strings.TrimSpace(text[o+len(g.open) : c])
		if content == "" {
			continue
		}
		path, ok := g.findPath(lastNonBlankLine(text[:o]))
		if !ok {
			continue
		}
		files = append(files, FileContent{Path: strings.TrimSpace(path), Content: content})
	}

	return files
}

func lastNonBlankLine(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
