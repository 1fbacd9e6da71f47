package main

import (
	"bytes"
	"strings"
	"testing"

	"chaptercut/internal/controller"
)

func TestReporterCarriesClipNameForward(t *testing.T) {
	var buf bytes.Buffer
	r := newRunReporter(&buf)

	r.handle(controller.Event{ChapterID: "/in/a.mkv:0", Status: controller.StatusProcessing, Message: "resolving destination"})
	r.handle(controller.Event{ChapterID: "/in/a.mkv:0", Status: controller.StatusProcessing, Message: "rendering", FinalName: "Intro-v001.mp4", Version: 1})
	r.handle(controller.Event{ChapterID: "/in/a.mkv:0", Status: controller.StatusDone, DurationSeconds: 5, DurationFrames: 150})

	out := buf.String()
	if !strings.Contains(out, "done Intro-v001.mp4 (5s, 150 frames)") {
		t.Errorf("done line missing clip name:\n%s", out)
	}

	summary := r.summary()
	if !strings.Contains(summary, "Intro-v001.mp4") {
		t.Errorf("summary missing clip name:\n%s", summary)
	}
	if !strings.Contains(summary, "5s / 150f") {
		t.Errorf("summary missing duration:\n%s", summary)
	}
}

func TestReporterSummaryShowsErrorMessage(t *testing.T) {
	var buf bytes.Buffer
	r := newRunReporter(&buf)

	r.handle(controller.Event{ChapterID: "/in/a.mkv:0", Status: controller.StatusProcessing, Message: "rendering", FinalName: "Intro-v001.mp4", Version: 1})
	r.handle(controller.Event{ChapterID: "/in/a.mkv:0", Status: controller.StatusError, Message: "encoder exited 1"})

	summary := r.summary()
	if !strings.Contains(summary, "encoder exited 1") {
		t.Errorf("summary missing failure message:\n%s", summary)
	}
}
