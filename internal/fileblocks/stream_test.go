package fileblocks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fencedDoc = "Here is the plan.\n\nFile path: src/main.go\n```go\npackage main\n\nfunc main() {}\n```\n\nAnd a second file:\n\nFile path: README.md\n```\n# Title\n\nSome words here.\n```\nDone.\n"

const xmlDoc = "Intro\nFile path: b.py\n<file>\nprint(1)\n</file>\nThen:\nFile path: c/d.txt\n\n<file>\nhello world\n  indented\n</file>\nbye"

type recorder struct {
	events []Event
}

func (r *recorder) emit(e Event) {
	r.events = append(r.events, e)
}

func (r *recorder) files() []FileContent {
	var files []FileContent
	for _, e := range r.events {
		if end, ok := e.(EndFileBlockEvent); ok {
			files = append(files, end.File)
		}
	}
	return files
}

func (r *recorder) raw() string {
	var b strings.Builder
	for _, e := range r.events {
		if text, ok := e.(TextEvent); ok && text.Channel == ChannelRaw {
			b.WriteString(text.Content)
		}
	}
	return b.String()
}

func (r *recorder) count(typ EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type() == typ {
			n++
		}
	}
	return n
}

func feed(t *testing.T, g *Grammar, chunks ...string) *recorder {
	t.Helper()
	rec := &recorder{}
	p := NewStreamParser(g, rec.emit)
	for _, c := range chunks {
		require.NoError(t, p.ProcessChunk(c))
	}
	require.NoError(t, p.Finish())
	return rec
}

// splitEvery cuts text into chunks of n bytes.
func splitEvery(text string, n int) []string {
	var chunks []string
	for len(text) > n {
		chunks = append(chunks, text[:n])
		text = text[n:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func TestStreamParser_FencedTwoChunks(t *testing.T) {
	g := fencedGrammar(t)
	rec := feed(t, g, "File path: a.txt\n```\nhel", "lo\n```\ndone")

	want := []Event{
		TextEvent{Content: "File path: a.txt\n```\nhel", Channel: ChannelRaw},
		StartFileBlockEvent{Path: "a.txt"},
		TextEvent{Content: "hel", Channel: ChannelRemainder},
		TextEvent{Content: "lo\n```\ndone", Channel: ChannelRaw},
		EndFileBlockEvent{File: FileContent{Path: "a.txt", Content: "hello"}},
		TextEvent{Content: "done", Channel: ChannelRemainder},
		TextBlockEvent{Content: "done"},
	}
	assert.Equal(t, want, rec.events)
}

func TestStreamParser_XMLSingleChunk(t *testing.T) {
	g := xmlGrammar(t, "file")
	input := "File path: b.py\n<file>\nprint(1)\n</file>"
	rec := feed(t, g, input)

	want := []Event{
		TextEvent{Content: input, Channel: ChannelRaw},
		StartFileBlockEvent{Path: "b.py"},
		TextEvent{Content: "print(1)", Channel: ChannelRemainder},
		EndFileBlockEvent{File: FileContent{Path: "b.py", Content: "print(1)"}},
	}
	assert.Equal(t, want, rec.events)
}

func TestStreamParser_TwoBlocksOneChunk(t *testing.T) {
	g := fencedGrammar(t)
	input := "File path: a.txt\n```\nA\n```\nbetween\nFile path: b.txt\n```\nB\n```\n"
	rec := feed(t, g, input)

	want := []Event{
		TextEvent{Content: input, Channel: ChannelRaw},
		StartFileBlockEvent{Path: "a.txt"},
		TextEvent{Content: "A", Channel: ChannelRemainder},
		EndFileBlockEvent{File: FileContent{Path: "a.txt", Content: "A"}},
		TextEvent{Content: "between\n", Channel: ChannelRemainder},
		TextBlockEvent{Content: "between\n"},
		StartFileBlockEvent{Path: "b.txt"},
		TextEvent{Content: "B", Channel: ChannelRemainder},
		EndFileBlockEvent{File: FileContent{Path: "b.txt", Content: "B"}},
	}
	assert.Equal(t, want, rec.events)
}

func TestStreamParser_PassThroughCompleteness(t *testing.T) {
	for _, doc := range []string{fencedDoc, xmlDoc} {
		g := fencedGrammar(t)
		if doc == xmlDoc {
			g = xmlGrammar(t, "file")
		}
		for _, n := range []int{1, 2, 3, 7, 16, len(doc)} {
			rec := feed(t, g, splitEvery(doc, n)...)
			assert.Equalf(t, doc, rec.raw(), "chunk size %d", n)
		}
	}
}

func TestStreamParser_ChunkBoundaryInvariance_Fenced(t *testing.T) {
	g := fencedGrammar(t)
	want := Parse(fencedDoc, g)
	require.Len(t, want, 2)

	for i := 0; i <= len(fencedDoc); i++ {
		rec := feed(t, g, fencedDoc[:i], fencedDoc[i:])
		require.Equalf(t, want, rec.files(), "split at %d", i)
	}
	for _, n := range []int{1, 2, 3, 5, 11} {
		rec := feed(t, g, splitEvery(fencedDoc, n)...)
		require.Equalf(t, want, rec.files(), "chunk size %d", n)
	}
}

func TestStreamParser_ChunkBoundaryInvariance_XML(t *testing.T) {
	g := xmlGrammar(t, "file")
	want := Parse(xmlDoc, g)
	require.Equal(t, []FileContent{
		{Path: "b.py", Content: "print(1)"},
		{Path: "c/d.txt", Content: "hello world\n  indented"},
	}, want)

	for i := 0; i <= len(xmlDoc); i++ {
		rec := feed(t, g, xmlDoc[:i], xmlDoc[i:])
		require.Equalf(t, want, rec.files(), "split at %d", i)
	}
	for _, n := range []int{1, 2, 3, 5, 11} {
		rec := feed(t, g, splitEvery(xmlDoc, n)...)
		require.Equalf(t, want, rec.files(), "chunk size %d", n)
	}
}

func TestStreamParser_StartFileBlockPrecedesEnd(t *testing.T) {
	g := fencedGrammar(t)
	rec := feed(t, g, splitEvery(fencedDoc, 1)...)

	var order []string
	for _, e := range rec.events {
		switch ev := e.(type) {
		case StartFileBlockEvent:
			order = append(order, "start:"+ev.Path)
		case EndFileBlockEvent:
			order = append(order, "end:"+ev.File.Path)
		}
	}
	assert.Equal(t, []string{"start:src/main.go", "end:src/main.go", "start:README.md", "end:README.md"}, order)
}

func TestStreamParser_TrimsContentAndLanguageLine(t *testing.T) {
	g := fencedGrammar(t)
	rec := feed(t, g, "File path: a.go\n```\ngo\n\n  package main\n\n```\n")
	require.Len(t, rec.files(), 1)
	assert.Equal(t, "package main", rec.files()[0].Content)
}

func TestStreamParser_XMLKeepsLeadingWordLine(t *testing.T) {
	g := xmlGrammar(t, "file")
	rec := feed(t, g, "File path: a.txt\n<file>\nhello\nworld\n</file>")
	require.Len(t, rec.files(), 1)
	assert.Equal(t, "hello\nworld", rec.files()[0].Content)
}

func TestStreamParser_Truncated(t *testing.T) {
	g := fencedGrammar(t)
	rec := &recorder{}
	p := NewStreamParser(g, rec.emit)
	require.NoError(t, p.ProcessChunk("intro\nFile path: a.txt\n```\npartial "))
	require.NoError(t, p.ProcessChunk("content"))
	assert.Equal(t, StateInsideFileBlock, p.State())
	assert.Equal(t, "a.txt", p.Path())

	before := len(rec.events)
	require.NoError(t, p.Finish())

	assert.Zero(t, rec.count(EventTypeEndFileBlock))
	require.Len(t, rec.events, before+1)
	assert.Equal(t, TextBlockEvent{Content: "partial content"}, rec.events[len(rec.events)-1])
}

func TestStreamParser_TruncatedBlankRemainder(t *testing.T) {
	g := fencedGrammar(t)
	rec := &recorder{}
	p := NewStreamParser(g, rec.emit)
	require.NoError(t, p.ProcessChunk("File path: a.txt\n```\n  \n"))

	before := len(rec.events)
	require.NoError(t, p.Finish())
	assert.Len(t, rec.events, before)
	assert.Zero(t, rec.count(EventTypeEndFileBlock))
}

func TestStreamParser_UnterminatedBlockGrowsBuffer(t *testing.T) {
	g := fencedGrammar(t)
	p := NewStreamParser(g, nil)
	require.NoError(t, p.ProcessChunk("File path: big.txt\n```\n"))

	line := strings.Repeat("x", 100) + "\n"
	for i := 0; i < 100; i++ {
		require.NoError(t, p.ProcessChunk(line))
	}
	assert.Equal(t, StateInsideFileBlock, p.State())
	assert.Equal(t, 100*len(line), p.Buffered())
}

func TestStreamParser_LeadingBlankTextIsNotABlock(t *testing.T) {
	g := fencedGrammar(t)
	rec := feed(t, g, "\n\n  File path: a.txt\n```\nx\n```\n")
	assert.Zero(t, rec.count(EventTypeTextBlock))
	assert.Equal(t, 1, rec.count(EventTypeEndFileBlock))
}

func TestStreamParser_EmptyBlock(t *testing.T) {
	g := fencedGrammar(t)
	rec := feed(t, g, "File path: a.txt\n```\n```\n")

	want := []Event{
		TextEvent{Content: "File path: a.txt\n```\n```\n", Channel: ChannelRaw},
		StartFileBlockEvent{Path: "a.txt"},
		TextEvent{Content: "", Channel: ChannelRemainder},
		EndFileBlockEvent{File: FileContent{Path: "a.txt", Content: ""}},
	}
	assert.Equal(t, want, rec.events)
}

func TestStreamParser_NoMarkers(t *testing.T) {
	g := fencedGrammar(t)
	rec := feed(t, g, "just ", "some ", "prose")
	assert.Equal(t, 3, rec.count(EventTypeText))
	assert.Equal(t, TextBlockEvent{Content: "just some prose"}, rec.events[len(rec.events)-1])
}

func TestStreamParser_AfterFinish(t *testing.T) {
	rec := &recorder{}
	p := NewStreamParser(fencedGrammar(t), rec.emit)
	require.NoError(t, p.ProcessChunk("hi"))
	require.NoError(t, p.Finish())

	n := len(rec.events)
	assert.ErrorIs(t, p.ProcessChunk("more"), ErrFinished)
	assert.ErrorIs(t, p.Finish(), ErrFinished)
	assert.Len(t, rec.events, n)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "text", TextEvent{}.Type().String())
	assert.Equal(t, "text-block", TextBlockEvent{}.Type().String())
	assert.Equal(t, "start-file-block", StartFileBlockEvent{}.Type().String())
	assert.Equal(t, "end-file-block", EndFileBlockEvent{}.Type().String())
	assert.Equal(t, "remainder", ChannelRemainder.String())
}
