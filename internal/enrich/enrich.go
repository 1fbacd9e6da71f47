// Package enrich resolves chapter identities against an external mapping so
// clips receive human display names and destination sub-paths before
// extraction. Lookups are best effort; a chapter without a mapping entry
// keeps its probed title and routes to the unmatched fallback directory.
package enrich

import (
	"context"
	"encoding/json"
	"os"

	"chaptercut/internal/services"
)

// Entry is one mapping record keyed by chapter id.
type Entry struct {
	DisplayName     string `json:"display_name"`
	DestinationPath string `json:"destination_path"`
}

// Lookup resolves chapter ids to mapping entries. Missing ids are not an
// error; they are simply absent from the returned map.
type Lookup interface {
	Resolve(ctx context.Context, ids []string) (map[string]Entry, error)
}

// FileLookup reads the whole mapping file on every Resolve call so edits
// between runs take effect without restarting anything.
type FileLookup struct {
	path string
}

// NewFileLookup returns a lookup backed by a JSON mapping file.
func NewFileLookup(path string) *FileLookup {
	return &FileLookup{path: path}
}

func (l *FileLookup) Resolve(ctx context.Context, ids []string) (map[string]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrich", "read mapping", l.path, err)
	}

	var table map[string]Entry
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "enrich", "parse mapping", l.path, err)
	}

	result := make(map[string]Entry, len(ids))
	for _, id := range ids {
		if entry, ok := table[id]; ok {
			result[id] = entry
		}
	}
	return result, nil
}

// Noop is the lookup used when no mapping file is configured.
type Noop struct{}

func (Noop) Resolve(_ context.Context, _ []string) (map[string]Entry, error) {
	return map[string]Entry{}, nil
}
