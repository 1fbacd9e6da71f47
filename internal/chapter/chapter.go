package chapter

import (
	"fmt"
	"strings"

	"chaptercut/internal/probe"
)

// Chapter is one embedded chapter marker scheduled for extraction. The title
// is rewritten at most twice: once by enrichment, once by versioning; after
// that it is frozen for the duration of processing.
type Chapter struct {
	ID         string
	Index      int
	Title      string
	StartTime  float64
	EndTime    float64
	SourceFile string
	// DestPath is the optional destination sub-path supplied by enrichment.
	// Empty or invalid values route the chapter to the unmatched fallback.
	DestPath string
}

// NewID derives the stable chapter identity from its source file and marker
// index. The full path keeps ids distinct when two sources share a basename;
// the id survives title rewrites and list reordering.
func NewID(sourceFile string, index int) string {
	return fmt.Sprintf("%s:%d", sourceFile, index)
}

// FromMarkers converts probed markers of one source file into chapters with
// stable ids. End times are unresolved until ResolveRanges runs over the
// full submission list.
func FromMarkers(sourceFile string, markers []probe.ChapterMarker) []Chapter {
	chapters := make([]Chapter, 0, len(markers))
	for i, marker := range markers {
		title := strings.TrimSpace(marker.Title)
		if title == "" {
			title = fmt.Sprintf("Chapter %02d", i+1)
		}
		chapters = append(chapters, Chapter{
			ID:         NewID(sourceFile, i),
			Index:      i,
			Title:      title,
			StartTime:  marker.StartTime,
			SourceFile: sourceFile,
		})
	}
	return chapters
}
