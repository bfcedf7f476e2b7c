package ux

import (
	"fmt"
	"io"

	"github.com/jorge-barreto/llmfiles/internal/workspace"
)

// RenderManifest prints the status display for one run.
func RenderManifest(w io.Writer, m *workspace.Manifest, color bool) {
	d := &Display{out: w, opts: Options{Color: color}}

	fmt.Fprintf(w, "%sRun:%s     %s\n", d.c(Bold), d.c(Reset), m.RunID)
	fmt.Fprintf(w, "%sDir:%s     %s\n", d.c(Bold), d.c(Reset), m.Dir)
	fmt.Fprintf(w, "%sStarted:%s %s\n", d.c(Bold), d.c(Reset), timestamp(m.StartedAt))

	status := m.Status
	switch m.Status {
	case workspace.StatusCompleted:
		status = d.c(Green) + status + d.c(Reset)
	case workspace.StatusTruncated:
		status = fmt.Sprintf("%s%s%s (inside %s)", d.c(Yellow), status, d.c(Reset), m.Truncated)
	case workspace.StatusFailed:
		status = d.c(Red) + status + d.c(Reset)
		if m.Error != "" {
			status += ": " + m.Error
		}
	}
	if m.FinishedAt.IsZero() {
		fmt.Fprintf(w, "%sState:%s   %s\n", d.c(Bold), d.c(Reset), status)
	} else {
		fmt.Fprintf(w, "%sState:%s   %s (%s)\n", d.c(Bold), d.c(Reset), status, workspace.FormatDuration(m.Duration()))
	}

	fmt.Fprintf(w, "\n%sFiles:%s\n", d.c(Bold), d.c(Reset))
	if len(m.Entries) == 0 {
		fmt.Fprintf(w, "  %s(none)%s\n", d.c(Dim), d.c(Reset))
		return
	}
	for i, e := range m.Entries {
		mark := d.c(Green) + "written" + d.c(Reset)
		if e.Skipped != "" {
			mark = d.c(Dim) + e.Skipped + d.c(Reset)
		}
		fmt.Fprintf(w, "  %s%d%s  %-40s %5d %-5s  %s\n",
			d.c(Dim), i+1, d.c(Reset), e.Path, e.Lines, plural(e.Lines, "line"), mark)
	}
}
