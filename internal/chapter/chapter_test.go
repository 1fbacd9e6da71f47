package chapter

import (
	"testing"

	"chaptercut/internal/probe"
)

func TestNewIDUsesFullPath(t *testing.T) {
	id := NewID("/media/library/episode.mkv", 3)
	if id != "/media/library/episode.mkv:3" {
		t.Fatalf("id = %q, want %q", id, "/media/library/episode.mkv:3")
	}
}

func TestNewIDDistinguishesSameBasename(t *testing.T) {
	a := NewID("/media/season1/episode.mkv", 0)
	b := NewID("/media/season2/episode.mkv", 0)
	if a == b {
		t.Fatalf("ids collide for distinct sources: %q", a)
	}
}

func TestFromMarkersFillsEmptyTitles(t *testing.T) {
	markers := []probe.ChapterMarker{
		{Title: "Cold Open", StartTime: 0},
		{Title: "", StartTime: 42.5},
		{Title: "   ", StartTime: 90},
	}
	chapters := FromMarkers("/media/episode.mkv", markers)
	if len(chapters) != 3 {
		t.Fatalf("got %d chapters, want 3", len(chapters))
	}
	if chapters[0].Title != "Cold Open" {
		t.Errorf("title = %q, want %q", chapters[0].Title, "Cold Open")
	}
	if chapters[1].Title != "Chapter 02" {
		t.Errorf("title = %q, want %q", chapters[1].Title, "Chapter 02")
	}
	if chapters[2].Title != "Chapter 03" {
		t.Errorf("title = %q, want %q", chapters[2].Title, "Chapter 03")
	}
	for i, ch := range chapters {
		if ch.Index != i {
			t.Errorf("chapter %d index = %d", i, ch.Index)
		}
		if ch.SourceFile != "/media/episode.mkv" {
			t.Errorf("chapter %d source = %q", i, ch.SourceFile)
		}
	}
}
