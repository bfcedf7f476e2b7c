// Package source turns local input into completion chunks. It knows nothing
// about file blocks; it only feeds a Sink.
package source

import (
	"context"
	"fmt"
	"io"

	"github.com/jorge-barreto/llmfiles/internal/config"
)

// Sink receives completion text in arrival order.
type Sink interface {
	ProcessChunk(chunk string) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(chunk string) error

func (f SinkFunc) ProcessChunk(chunk string) error {
	return f(chunk)
}

// Result summarizes one read of a completion stream.
type Result struct {
	Chunks            int
	Bytes             int
	PermissionDenials []PermissionDenial
	CostUSD           float64
	SessionID         string
}

// Options tune Read.
type Options struct {
	// ChunkSize bounds each read in raw format.
	ChunkSize int
	// OnToolUse is called for each completed tool call in stream-json input.
	OnToolUse func(name, summary string)
}

// Read decodes r according to format and delivers every text fragment to
// sink. It returns when the input ends, the context is cancelled, or sink
// fails. It does not signal end of stream to the sink.
func Read(ctx context.Context, format string, r io.Reader, sink Sink, opts Options) (*Result, error) {
	var result Result
	counted := SinkFunc(func(chunk string) error {
		result.Chunks++
		result.Bytes += len(chunk)
		return sink.ProcessChunk(chunk)
	})

	var err error
	switch format {
	case config.FormatRaw, "":
		err = readRaw(ctx, r, opts.ChunkSize, counted)
	case config.FormatStreamJSON:
		err = readStreamJSON(ctx, r, counted, &result, opts.OnToolUse)
	case config.FormatSSE:
		err = readSSE(ctx, r, counted)
	default:
		return nil, fmt.Errorf("unknown input format: %s", format)
	}
	return &result, err
}
