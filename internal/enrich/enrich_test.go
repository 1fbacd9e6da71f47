package enrich

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chaptercut/internal/services"
)

func writeMapping(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapping.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write mapping: %v", err)
	}
	return path
}

func TestFileLookupResolvesKnownIDs(t *testing.T) {
	path := writeMapping(t, `{
		"episode.mkv:0": {"display_name": "Cold Open", "destination_path": "Show/Season 01"},
		"episode.mkv:1": {"display_name": "Act One", "destination_path": "Show/Season 01"}
	}`)

	lookup := NewFileLookup(path)
	entries, err := lookup.Resolve(context.Background(), []string{"episode.mkv:0", "episode.mkv:9"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	entry := entries["episode.mkv:0"]
	if entry.DisplayName != "Cold Open" || entry.DestinationPath != "Show/Season 01" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestFileLookupMissingFile(t *testing.T) {
	lookup := NewFileLookup(filepath.Join(t.TempDir(), "absent.json"))
	_, err := lookup.Resolve(context.Background(), []string{"x:0"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration marker", err)
	}
}

func TestFileLookupMalformedJSON(t *testing.T) {
	path := writeMapping(t, `{"episode.mkv:0": `)
	lookup := NewFileLookup(path)
	_, err := lookup.Resolve(context.Background(), []string{"episode.mkv:0"})
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("err = %v, want configuration marker", err)
	}
}

func TestNoopResolvesNothing(t *testing.T) {
	entries, err := Noop{}.Resolve(context.Background(), []string{"a:0", "b:1"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}
