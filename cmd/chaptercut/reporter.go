package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"chaptercut/internal/controller"
)

// runReporter prints chapter events as they happen and keeps the final
// per-chapter results for the end-of-run summary table.
type runReporter struct {
	out      io.Writer
	okStyle  *color.Color
	errStyle *color.Color
	dimStyle *color.Color

	mu      sync.Mutex
	order   []string
	results map[string]controller.Event
}

func newRunReporter(out io.Writer) *runReporter {
	color.NoColor = !shouldColorize(out)
	return &runReporter{
		out:      out,
		okStyle:  color.New(color.FgGreen),
		errStyle: color.New(color.FgRed),
		dimStyle: color.New(color.Faint),
		results:  make(map[string]controller.Event),
	}
}

func (r *runReporter) handle(event controller.Event) {
	r.mu.Lock()
	prev, seen := r.results[event.ChapterID]
	if !seen {
		r.order = append(r.order, event.ChapterID)
	}
	// The clip name arrives once, when versioning resolves; carry it
	// forward so later events keep it for printing and the summary.
	if event.FinalName == "" {
		event.FinalName = prev.FinalName
		event.Version = prev.Version
	}
	r.results[event.ChapterID] = event
	r.mu.Unlock()

	switch event.Status {
	case controller.StatusProcessing:
		if event.FinalName != "" {
			fmt.Fprintf(r.out, "  %s -> %s\n", event.ChapterID, event.FinalName)
		} else {
			r.dimStyle.Fprintf(r.out, "  %s %s\n", event.ChapterID, event.Message)
		}
	case controller.StatusDone:
		r.okStyle.Fprintf(r.out, "  done %s (%ds, %d frames)\n",
			event.FinalName, event.DurationSeconds, event.DurationFrames)
	case controller.StatusError:
		r.errStyle.Fprintf(r.out, "  failed %s: %s\n", event.ChapterID, event.Message)
	case controller.StatusPaused:
		r.dimStyle.Fprintf(r.out, "  paused %s\n", event.ChapterID)
	case controller.StatusStopped:
		r.dimStyle.Fprintf(r.out, "  stopped %s\n", event.ChapterID)
	}
}

func (r *runReporter) summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.order) == 0 {
		return ""
	}
	tbl := newReportTable("Chapter", "Status", "Clip", "Duration").numeric(4)
	for _, id := range r.order {
		event := r.results[id]
		duration := ""
		if event.Status == controller.StatusDone {
			duration = fmt.Sprintf("%ds / %df", event.DurationSeconds, event.DurationFrames)
		}
		detail := event.FinalName
		if event.Status == controller.StatusError {
			detail = event.Message
		}
		tbl.addRow(id, string(event.Status), detail, duration)
	}
	return tbl.render()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
