// Package naming turns chapter titles into filesystem-safe clip names and
// resolves where each clip lands under the output root.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"chaptercut/internal/chapter"
	"chaptercut/internal/services"
)

// unmatchedDir is the fallback sub-directory for chapters without a
// destination mapping.
const unmatchedDir = "unmatched"

var unsafeRunes = map[rune]struct{}{
	' ': {}, '/': {}, '\\': {}, '?': {}, '%': {}, '*': {},
	':': {}, '|': {}, '"': {}, '<': {}, '>': {},
}

// Sanitize normalizes a title to NFC and replaces filesystem-hostile
// characters with underscores. An empty result falls back to "untitled".
func Sanitize(title string) string {
	normalized := norm.NFC.String(strings.TrimSpace(title))
	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if _, unsafe := unsafeRunes[r]; unsafe {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "untitled"
	}
	return out
}

// ResolveDir returns the directory the chapter's clips belong in and
// creates it. Chapters with a destination path from enrichment go there,
// sanitized component by component; everything else lands under
// unmatched/<source base without extension>. Destination paths that escape
// the output root are treated as unmatched.
func ResolveDir(outputRoot string, ch chapter.Chapter) (string, error) {
	dir := unmatchedPath(outputRoot, ch)
	if sub := sanitizeSubPath(ch.DestPath); sub != "" {
		candidate := filepath.Join(outputRoot, sub)
		if within(outputRoot, candidate) {
			dir = candidate
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrDirectoryCreate, "naming", "create destination", dir, err)
	}
	return dir, nil
}

// sanitizeSubPath sanitizes each slash-separated component of an enrichment
// destination. Any parent reference poisons the whole path.
func sanitizeSubPath(p string) string {
	if p == "" {
		return ""
	}
	parts := strings.Split(p, "/")
	clean := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." {
			continue
		}
		if part == ".." {
			return ""
		}
		clean = append(clean, Sanitize(part))
	}
	return filepath.Join(clean...)
}

func unmatchedPath(outputRoot string, ch chapter.Chapter) string {
	base := filepath.Base(ch.SourceFile)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputRoot, unmatchedDir, Sanitize(base))
}

func within(root, candidate string) bool {
	rel, err := filepath.Rel(root, candidate)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// NextVersion scans the directory for the first free versioned name of the
// form {base}-v{NNN}.{ext} starting at v001. Gaps left by deleted clips are
// reused.
func NextVersion(dir, base, ext string) (string, int, error) {
	ext = strings.TrimPrefix(ext, ".")
	for v := 1; v <= 999; v++ {
		name := fmt.Sprintf("%s-v%03d.%s", base, v, ext)
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return path, v, nil
			}
			return "", 0, services.Wrap(services.ErrDirectoryCreate, "naming", "probe version", path, err)
		}
	}
	return "", 0, fmt.Errorf("naming: no free version for %s in %s", base, dir)
}
