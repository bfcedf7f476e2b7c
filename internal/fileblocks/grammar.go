package fileblocks

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jorge-barreto/llmfiles/internal/safematch"
)

// DefaultPrefix is the literal that introduces a file path line.
const DefaultPrefix = "File path:"

const fence = "```"

var (
	ErrEmptyPrefix    = errors.New("fileblocks: path prefix must not be empty")
	ErrInvalidElement = errors.New("fileblocks: invalid xml element name")
)

// Mode selects the container syntax around file content.
type Mode int

const (
	ModeFenced Mode = iota
	ModeXML
)

func (m Mode) String() string {
	if m == ModeXML {
		return "xml"
	}
	return "fenced"
}

// Grammar fixes the structural markers of a file block: the path-line prefix
// and, in XML mode, the element name. It is immutable once built.
//
// Fenced mode recognizes
//
//	File path: src/main.go
//	```go
//	...
//	```
//
// XML mode (element "file") recognizes
//
//	File path: src/main.go
//	<file>
//	...
//	</file>
type Grammar struct {
	prefix  string
	element string
	open    string
	close   string
}

// NewGrammar builds a grammar. An empty element selects fenced mode.
func NewGrammar(prefix, element string) (*Grammar, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}
	g := &Grammar{prefix: prefix, element: element}
	if element != "" {
		if !validElement(element) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidElement, element)
		}
		g.open = "<" + element + ">"
		g.close = "</" + element + ">"
	}
	return g, nil
}

func (g *Grammar) Prefix() string  { return g.prefix }
func (g *Grammar) Element() string { return g.element }

func (g *Grammar) Mode() Mode {
	if g.element != "" {
		return ModeXML
	}
	return ModeFenced
}

// StartMarker matches a path line followed by the opening fence or tag.
// Group 1 is the path.
func (g *Grammar) StartMarker() safematch.Matcher {
	return safematch.Func(func(text string) (safematch.Match, bool) {
		return g.scanPrefix(text, g.matchStartAt)
	})
}

// EndMarker matches the closing fence or tag together with the white space
// leading up to it and at most one trailing newline.
func (g *Grammar) EndMarker() safematch.Matcher {
	closer := fence
	if g.Mode() == ModeXML {
		closer = g.close
	}
	return safematch.Func(func(text string) (safematch.Match, bool) {
		q := strings.Index(text, closer)
		if q < 0 {
			return safematch.Match{}, false
		}
		start := trimSpaceLeftOf(text, q)
		end := q + len(closer)
		if end < len(text) && text[end] == '\n' {
			end++
		}
		return safematch.Match{Start: start, End: end, Groups: []string{text[start:end]}}, true
	})
}

// scanPrefix tries try at every occurrence of the prefix, leftmost first.
func (g *Grammar) scanPrefix(text string, try func(text string, at int) (safematch.Match, bool)) (safematch.Match, bool) {
	off := 0
	for {
		idx := strings.Index(text[off:], g.prefix)
		if idx < 0 {
			return safematch.Match{}, false
		}
		at := off + idx
		if m, ok := try(text, at); ok {
			return m, true
		}
		off = at + 1
	}
}

func (g *Grammar) matchStartAt(text string, at int) (safematch.Match, bool) {
	i, _ := skipSpace(text, at+len(g.prefix))
	j := scanPath(text, i)
	if j == i {
		return safematch.Match{}, false
	}
	path := text[i:j]
	k, newline := skipSpace(text, j)
	if !newline {
		return safematch.Match{}, false
	}

	var end int
	if g.Mode() == ModeXML {
		if !strings.HasPrefix(text[k:], g.open) {
			return safematch.Match{}, false
		}
		end = k + len(g.open)
		if end < len(text) && text[end] == '\n' {
			end++
		}
	} else {
		if !strings.HasPrefix(text[k:], fence) {
			return safematch.Match{}, false
		}
		end = scanWord(text, k+len(fence))
		if end >= len(text) || text[end] != '\n' {
			return safematch.Match{}, false
		}
		end++
	}
	return safematch.Match{Start: at, End: end, Groups: []string{text[at:end], path}}, true
}

// findPath locates "prefix <path>" anywhere in line.
func (g *Grammar) findPath(line string) (string, bool) {
	m, ok := g.scanPrefix(line, func(text string, at int) (safematch.Match, bool) {
		i, _ := skipSpace(text, at+len(g.prefix))
		j := scanPath(text, i)
		if j == i {
			return safematch.Match{}, false
		}
		return safematch.Match{Start: at, End: j, Groups: []string{text[at:j], text[i:j]}}, true
	})
	if !ok {
		return "", false
	}
	return m.Group(1), true
}

// skipSpace advances past white space from i and reports whether a newline
// was crossed.
func skipSpace(text string, i int) (int, bool) {
	newline := false
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		if r == '\n' {
			newline = true
		}
		i += size
	}
	return i, newline
}

// trimSpaceLeftOf returns the start of the white space run ending at i.
func trimSpaceLeftOf(text string, i int) int {
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		if !unicode.IsSpace(r) {
			break
		}
		i -= size
	}
	return i
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// Path tokens are deliberately narrow: no spaces, so prose never matches.
func isPathByte(b byte) bool {
	return isWordByte(b) || b == '.' || b == '/' || b == '-'
}

func scanWord(text string, i int) int {
	for i < len(text) && isWordByte(text[i]) {
		i++
	}
	return i
}

func scanPath(text string, i int) int {
	for i < len(text) && isPathByte(text[i]) {
		i++
	}
	return i
}

// stripLanguageLine drops a leading line consisting of a single word, the
// language annotation some models repeat after the opening fence.
func stripLanguageLine(content string) string {
	j := scanWord(content, 0)
	if j > 0 && j < len(content) && content[j] == '\n' {
		return content[j+1:]
	}
	return content
}

func validElement(name string) bool {
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
