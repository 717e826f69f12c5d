package store

import (
	"encoding/json"
	"io"
	"time"
)

// Stats summarizes record counts per kind plus the supporting collections.
func (s *Store) Stats() map[string]int {
	idx := s.idx
	archived := 0
	for _, m := range idx.Memories() {
		if m.Env().Archived {
			archived++
		}
	}
	return map[string]int{
		"solutions":       len(idx.Solutions),
		"errors":          len(idx.Errors),
		"antipatterns":    len(idx.Antipatterns),
		"preferences":     len(idx.Preferences),
		"git_conventions": len(idx.GitConventions),
		"dependencies":    len(idx.Dependencies),
		"testing":         len(idx.Testing),
		"environment":     len(idx.Environment),
		"api_notes":       len(idx.APINotes),
		"pinned":          len(idx.Pinned),
		"projects":        len(idx.Projects),
		"sessions":        len(idx.Sessions),
		"task_clusters":   len(idx.Tasks),
		"archived":        archived,
	}
}

type export struct {
	ExportedAt time.Time `json:"exported_at"`
	Root       string    `json:"root"`
	Index      any       `json:"index"`
}

// Export writes the complete index as indented JSON. Pinned memories are
// included verbatim, sensitive or not; the export is for the owner's eyes.
func (s *Store) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export{
		ExportedAt: s.now().UTC(),
		Root:       s.storage.Dir(),
		Index:      s.idx,
	})
}
