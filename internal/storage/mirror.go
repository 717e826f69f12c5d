package storage

import (
	"os"
	"path/filepath"
)

// WriteMirror writes one record to its per-kind subdirectory, mirroring the
// index for redundancy and export convenience. Sensitive records (pinned)
// get owner-only permissions.
func (s *Store) WriteMirror(kindDir, id string, v any, restricted bool) error {
	dir := filepath.Join(s.dir, kindDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := marshalSanitized(v)
	if err != nil {
		return err
	}
	mode := os.FileMode(0o644)
	if restricted {
		mode = 0o600
	}
	return os.WriteFile(filepath.Join(dir, id+".json"), data, mode)
}

// RemoveMirror deletes a record's mirror file. Missing files are not an
// error; the index is the source of truth.
func (s *Store) RemoveMirror(kindDir, id string) error {
	err := os.Remove(filepath.Join(s.dir, kindDir, id+".json"))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
