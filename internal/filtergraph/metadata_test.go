package filtergraph

import (
	"strings"
	"testing"
)

func TestChapterMetadata(t *testing.T) {
	doc := ChapterMetadata("Act One", 0.5, 5, 10)

	if !strings.HasPrefix(doc, ";FFMETADATA1\n") {
		t.Fatalf("missing header:\n%s", doc)
	}
	for _, want := range []string{
		"[CHAPTER]",
		"TIMEBASE=1/1000000",
		"START=500000",
		"END=5500000",
		"title=Act One",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("missing %q:\n%s", want, doc)
		}
	}
}

func TestChapterMetadataEscapesTitle(t *testing.T) {
	doc := ChapterMetadata(`a=b;c#d\e`, 0, 0, 1)
	if !strings.Contains(doc, `title=a\=b\;c\#d\\e`) {
		t.Fatalf("title not escaped:\n%s", doc)
	}
}

func TestChapterMetadataFractionalFrameRate(t *testing.T) {
	// 10 frames of handle at 30000/1001 fps.
	handle := 10 * 1001.0 / 30000.0
	doc := ChapterMetadata("x", handle, 0, 5.005)
	if !strings.Contains(doc, "START=333667\n") {
		t.Errorf("unexpected start:\n%s", doc)
	}
	if !strings.Contains(doc, "END=5338667\n") {
		t.Errorf("unexpected end:\n%s", doc)
	}
}
