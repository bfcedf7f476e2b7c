// Package runner connects a chunk source to the streaming file block parser,
// the terminal display, and the workspace writer.
package runner

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/jorge-barreto/llmfiles/internal/fileblocks"
	"github.com/jorge-barreto/llmfiles/internal/source"
	"github.com/jorge-barreto/llmfiles/internal/ux"
	"github.com/jorge-barreto/llmfiles/internal/workspace"
)

// Runner drives one completion stream to disk.
type Runner struct {
	Grammar *fileblocks.Grammar
	Writer  *workspace.Writer
	// Display is optional.
	Display *ux.Display
	Log     zerolog.Logger
	// Manifest is created when nil.
	Manifest *workspace.Manifest
}

// Report is the outcome of Run.
type Report struct {
	Manifest *workspace.Manifest
	Source   *source.Result
}

// Run reads in as format, writes every completed file block, and records the
// run in the manifest. A write error stops reading; the parser is still
// finished and the manifest saved before the error is returned.
func (r *Runner) Run(ctx context.Context, format string, in io.Reader, chunkSize int) (*Report, error) {
	m := r.Manifest
	if m == nil {
		m = workspace.NewManifest()
	}
	m.Dir = r.Writer.Dir
	log := r.Log.With().Str("run", m.RunID).Logger()

	if err := r.save(m); err != nil {
		return &Report{Manifest: m}, err
	}

	var writeErr error
	parser := fileblocks.NewStreamParser(r.Grammar, func(e fileblocks.Event) {
		if r.Display != nil {
			r.Display.Handle(e)
		}
		switch ev := e.(type) {
		case fileblocks.StartFileBlockEvent:
			log.Debug().Str("path", ev.Path).Msg("file block opened")
		case fileblocks.EndFileBlockEvent:
			if writeErr != nil {
				return
			}
			entry, err := r.Writer.Write(ev.File)
			if err != nil {
				writeErr = err
				log.Error().Err(err).Str("path", ev.File.Path).Msg("write failed")
				return
			}
			m.Add(entry)
			log.Debug().
				Str("path", entry.Path).
				Int("bytes", entry.Bytes).
				Str("skipped", entry.Skipped).
				Msg("file block closed")
		}
	})

	sink := source.SinkFunc(func(chunk string) error {
		if err := parser.ProcessChunk(chunk); err != nil {
			return err
		}
		log.Trace().
			Int("chunk", len(chunk)).
			Int("buffered", parser.Buffered()).
			Stringer("state", parser.State()).
			Msg("chunk processed")
		return writeErr
	})

	opts := source.Options{ChunkSize: chunkSize}
	if r.Display != nil {
		opts.OnToolUse = r.Display.ToolUse
	}
	res, readErr := source.Read(ctx, format, in, sink, opts)
	if res == nil {
		res = &source.Result{}
	}

	truncated := ""
	if parser.State() == fileblocks.StateInsideFileBlock {
		truncated = parser.Path()
		log.Warn().Str("path", truncated).Msg("stream ended inside a file block")
	}
	if err := parser.Finish(); err != nil && readErr == nil {
		readErr = err
	}

	runErr := writeErr
	if runErr == nil {
		runErr = readErr
	}
	switch {
	case runErr != nil:
		m.Error = runErr.Error()
		m.Finish(workspace.StatusFailed)
	case truncated != "":
		m.Truncated = truncated
		m.Finish(workspace.StatusTruncated)
	default:
		m.Finish(workspace.StatusCompleted)
	}

	if err := r.save(m); err != nil {
		log.Error().Err(err).Msg("saving manifest")
		runErr = errors.Join(runErr, err)
	}

	if r.Display != nil {
		denied := make([]string, len(res.PermissionDenials))
		for i, d := range res.PermissionDenials {
			denied[i] = d.String()
		}
		r.Display.Denied(denied)
		r.Display.Summary(m)
	}

	log.Info().
		Str("status", m.Status).
		Int("files", len(m.Written())).
		Int("chunks", res.Chunks).
		Int("bytes", res.Bytes).
		Float64("cost_usd", res.CostUSD).
		Msg("run finished")

	return &Report{Manifest: m, Source: res}, runErr
}

func (r *Runner) save(m *workspace.Manifest) error {
	if r.Writer.DryRun {
		return nil
	}
	return m.Save(r.Writer.Dir)
}
