package fileblocks

import (
	"errors"
	"strings"

	"github.com/jorge-barreto/llmfiles/internal/safematch"
)

// ErrFinished is returned when a StreamParser is used after Finish.
var ErrFinished = errors.New("fileblocks: stream parser already finished")

// State is the position of a StreamParser relative to file blocks.
type State int

const (
	StateOutside State = iota
	StateInsideFileBlock
)

func (s State) String() string {
	if s == StateInsideFileBlock {
		return "inside-file-block"
	}
	return "outside"
}

// StreamParser extracts file blocks from text that arrives in chunks of any
// size. Markers may be split across chunks; nothing is resolved until the
// whole marker has arrived.
//
// Events are delivered synchronously to the emit callback, in order, before
// ProcessChunk or Finish returns. A StreamParser is not safe for concurrent
// use; create one per completion stream.
type StreamParser struct {
	grammar *Grammar
	emit    func(Event)
	start   safematch.Matcher
	end     safematch.Matcher

	buf      string
	state    State
	path     string
	finished bool
}

// NewStreamParser returns a parser in the Outside state with an empty buffer.
// emit may be nil.
func NewStreamParser(g *Grammar, emit func(Event)) *StreamParser {
	return &StreamParser{
		grammar: g,
		emit:    emit,
		start:   g.StartMarker(),
		end:     g.EndMarker(),
	}
}

// ProcessChunk echoes chunk on the raw text channel, buffers it, and resolves
// every marker that is now complete.
func (p *StreamParser) ProcessChunk(chunk string) error {
	if p.finished {
		return ErrFinished
	}
	p.send(TextEvent{Content: chunk, Channel: ChannelRaw})
	p.buf += chunk
	p.resolve()
	return nil
}

// Finish flushes whatever is left in the buffer as a single text block. A
// file block that never closed is not reconstructed; its content becomes
// part of that text block.
func (p *StreamParser) Finish() error {
	if p.finished {
		return ErrFinished
	}
	p.finished = true
	if strings.TrimSpace(p.buf) != "" {
		p.send(TextBlockEvent{Content: p.buf})
	}
	p.buf = ""
	return nil
}

// State reports whether the parser is inside a file block.
func (p *StreamParser) State() State { return p.state }

// Path is the path of the open file block, or "" when outside one.
func (p *StreamParser) Path() string { return p.path }

// Buffered returns the number of bytes not yet attributed to an event.
func (p *StreamParser) Buffered() int { return len(p.buf) }

func (p *StreamParser) resolve() {
	for {
		var advanced bool
		if p.state == StateOutside {
			advanced = p.openBlock()
		} else {
			advanced = p.closeBlock()
		}
		if !advanced {
			return
		}
	}
}

func (p *StreamParser) openBlock() bool {
	m, ok := safematch.Exec(p.start, p.buf)
	if !ok {
		return false
	}

	if m.Start > 0 {
		if text := p.buf[:m.Start]; strings.TrimSpace(text) != "" {
			p.send(TextBlockEvent{Content: text})
		}
	}

	p.path = m.Group(1)
	p.send(StartFileBlockEvent{Path: p.path})
	p.buf = p.buf[m.End:]

	if p.buf != "" {
		if em, ok := safematch.Exec(p.end, p.buf); ok {
			p.send(TextEvent{Content: p.buf[:em.Start], Channel: ChannelRemainder})
		} else {
			p.send(TextEvent{Content: p.buf, Channel: ChannelRemainder})
		}
	}

	p.state = StateInsideFileBlock
	return true
}

func (p *StreamParser) closeBlock() bool {
	m, ok := safematch.Exec(p.end, p.buf)
	if !ok {
		return false
	}

	content := p.buf[:m.Start]
	if p.grammar.Mode() == ModeFenced {
		content = stripLanguageLine(content)
	}
	p.send(EndFileBlockEvent{File: FileContent{
		Path:    p.path,
		Content: strings.TrimSpace(content),
	}})

	p.buf = p.buf[m.End:]
	p.path = ""

	if p.buf != "" {
		if sm, ok := safematch.Exec(p.start, p.buf); ok {
			if sm.Start > 0 {
				p.send(TextEvent{Content: p.buf[:sm.Start], Channel: ChannelRemainder})
			}
		} else {
			p.send(TextEvent{Content: p.buf, Channel: ChannelRemainder})
		}
	}

	p.state = StateOutside
	return true
}

func (p *StreamParser) send(e Event) {
	if p.emit != nil {
		p.emit(e)
	}
}
