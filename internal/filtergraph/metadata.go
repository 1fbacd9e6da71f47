package filtergraph

import (
	"fmt"
	"math"
	"strings"
)

// ChapterMetadata renders an FFMETADATA1 document embedding one chapter
// marker into the output clip. The marker brackets the chapter body: it
// starts where the prefix handle ends and spans the original chapter
// duration, in microsecond timebase.
func ChapterMetadata(title string, handleDuration, start, end float64) string {
	markerStart := int64(math.Round(handleDuration * 1e6))
	markerEnd := markerStart + int64(math.Round((end-start)*1e6))

	var b strings.Builder
	b.WriteString(";FFMETADATA1\n")
	b.WriteString("[CHAPTER]\n")
	b.WriteString("TIMEBASE=1/1000000\n")
	fmt.Fprintf(&b, "START=%d\n", markerStart)
	fmt.Fprintf(&b, "END=%d\n", markerEnd)
	fmt.Fprintf(&b, "title=%s\n", escapeMetadataValue(title))
	return b.String()
}

// escapeMetadataValue escapes the characters ffmpeg treats as special in
// metadata values.
func escapeMetadataValue(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch r {
		case '=', ';', '#', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
