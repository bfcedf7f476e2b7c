package ux

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jorge-barreto/llmfiles/internal/fileblocks"
	"github.com/jorge-barreto/llmfiles/internal/workspace"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

const markdownWidth = 100

// Options select how a Display presents a stream.
type Options struct {
	// Raw mirrors the model output verbatim and nothing else.
	Raw bool
	// Markdown renders narrative text blocks with glamour.
	Markdown bool
	// Color enables ANSI escapes.
	Color bool
}

// Display prints parser events for a person watching the stream.
type Display struct {
	out   io.Writer
	opts  Options
	md    *glamour.TermRenderer
}

// NewDisplay returns a Display writing to out.
func NewDisplay(out io.Writer, opts Options) (*Display, error) {
	d := &Display{out: out, opts: opts}
	if opts.Markdown && !opts.Raw {
		style := glamour.WithStandardStyle("notty")
		if opts.Color {
			style = glamour.WithAutoStyle()
		}
		md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(markdownWidth))
		if err != nil {
			return nil, fmt.Errorf("creating markdown renderer: %w", err)
		}
		d.md = md
	}
	return d, nil
}

func (d *Display) c(code string) string {
	if !d.opts.Color {
		return ""
	}
	return code
}

// Handle prints one event. It is meant to be the StreamParser emit callback.
func (d *Display) Handle(e fileblocks.Event) {
	if d.opts.Raw {
		if t, ok := e.(fileblocks.TextEvent); ok && t.Channel == fileblocks.ChannelRaw {
			io.WriteString(d.out, t.Content)
		}
		return
	}

	switch ev := e.(type) {
	case fileblocks.TextBlockEvent:
		d.text(ev.Content)
	case fileblocks.StartFileBlockEvent:
		fmt.Fprintf(d.out, "%s▸ %s%s\n", d.c(Cyan), ev.Path, d.c(Reset))
	case fileblocks.EndFileBlockEvent:
		n := workspace.CountLines(ev.File.Content)
		fmt.Fprintf(d.out, "%s✓ %s%s %s(%d %s)%s\n",
			d.c(Green), ev.File.Path, d.c(Reset), d.c(Dim), n, plural(n, "line"), d.c(Reset))
	}
}

func (d *Display) text(content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	if d.md != nil {
		rendered, err := d.md.Render(content)
		if err == nil {
			fmt.Fprintln(d.out, strings.TrimSpace(rendered))
			return
		}
	}
	fmt.Fprintln(d.out, content)
}

// ToolUse prints an inline tool call.
func (d *Display) ToolUse(name, input string) {
	if d.opts.Raw {
		return
	}
	fmt.Fprintf(d.out, "  %s⚡ %s%s %s\n", d.c(Cyan), name, d.c(Reset), truncate(input, 80))
}

// Denied prints the tools the producer was not allowed to run.
func (d *Display) Denied(tools []string) {
	if len(tools) == 0 {
		return
	}
	fmt.Fprintf(d.out, "\n  %s⚠ Tools denied: %s%s\n", d.c(Yellow), strings.Join(tools, ", "), d.c(Reset))
}

// Summary prints the end-of-run line for m.
func (d *Display) Summary(m *workspace.Manifest) {
	if d.opts.Raw {
		// Keep the mirrored output byte-exact.
		return
	}
	written := len(m.Written())
	skipped := len(m.Entries) - written
	switch m.Status {
	case workspace.StatusCompleted:
		fmt.Fprintf(d.out, "\n%s%s══ %d %s written", d.c(Bold), d.c(Green), written, plural(written, "file"))
	case workspace.StatusTruncated:
		fmt.Fprintf(d.out, "\n%s%s══ %d %s written, %s truncated", d.c(Bold), d.c(Yellow), written, plural(written, "file"), m.Truncated)
	default:
		fmt.Fprintf(d.out, "\n%s%s══ run %s", d.c(Bold), d.c(Red), m.Status)
	}
	if skipped > 0 {
		fmt.Fprintf(d.out, ", %d skipped", skipped)
	}
	fmt.Fprintf(d.out, " (%s) ══%s\n", workspace.FormatDuration(m.Duration()), d.c(Reset))
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func timestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
