// Package storage persists the aggregate index as a single JSON document so
// that partial writes never corrupt the source of truth.
package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"

	"github.com/memberberries/berry/internal/model"
)

const (
	indexFile      = "berry_index.json"
	backupSuffix   = ".bak"
	backup2Suffix  = ".bak2"
	corruptSuffix  = ".corrupted"
	tempSuffix     = ".tmp"
	lockRetryDelay = 100 * time.Millisecond
)

// Store reads and writes the index under a single root directory.
type Store struct {
	dir string
}

// New creates the storage root if needed and returns a Store for it.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the storage root directory.
func (s *Store) Dir() string { return s.dir }

// IndexPath returns the path of the index document.
func (s *Store) IndexPath() string { return filepath.Join(s.dir, indexFile) }

// Load reads the index, falling back through the backup chain on parse
// failure. It never fails: at worst it quarantines the corrupted file and
// returns a fresh default index.
func (s *Store) Load() *model.Index {
	path := s.IndexPath()

	idx, err := readIndex(path)
	if err == nil {
		return idx
	}
	if os.IsNotExist(err) {
		return model.NewIndex()
	}
	log.Warn("memory index failed to parse", "path", path, "err", err)

	for _, backup := range []string{path + backupSuffix, path + backup2Suffix} {
		idx, berr := readIndex(backup)
		if berr != nil {
			continue
		}
		log.Warn("recovered memory index from backup", "backup", backup)
		return idx
	}

	quarantine := path + corruptSuffix
	if qerr := os.Rename(path, quarantine); qerr == nil {
		log.Error("memory index unrecoverable, starting fresh", "quarantined", quarantine)
	} else {
		log.Error("memory index unrecoverable and could not be quarantined", "err", qerr)
	}
	return model.NewIndex()
}

// readIndex parses one candidate file. Missing top-level keys in old or
// partial documents are filled with defaults via Normalize.
func readIndex(path string) (*model.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx model.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, err
	}
	idx.Normalize()
	return &idx, nil
}

// Save writes the index atomically: sanitize, rotate backups, write to a
// temp file in the same directory under an advisory lock, fsync, re-parse to
// validate, then rename over the target. Only the post-write validation
// failure is propagated; everything before it leaves the old index intact.
func (s *Store) Save(idx *model.Index) error {
	data, err := marshalSanitized(idx)
	if err != nil {
		return fmt.Errorf("serialize index: %w", err)
	}

	path := s.IndexPath()
	s.rotateBackups(path)

	tmp := path + tempSuffix
	fl := flock.New(tmp)
	locked, err := fl.TryLock()
	if err == nil && !locked {
		// One short retry, then block until the competing write finishes.
		time.Sleep(lockRetryDelay)
		err = fl.Lock()
	}
	if err != nil {
		return fmt.Errorf("lock temp index: %w", err)
	}
	defer fl.Unlock()

	if err := writeSync(tmp, data); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write temp index: %w", err)
	}

	// Re-parse what actually landed on disk. Silently discarding a durable
	// write is worse than failing loudly, so this error is fatal.
	if err := validateJSONFile(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("index validation failed, write aborted: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace index: %w", err)
	}

	if err := os.Chmod(path, 0o600); err != nil {
		log.Debug("could not restrict index permissions", "err", err)
	}
	return nil
}

// rotateBackups drops the second-generation backup, promotes the first to
// second, and copies the current index to first. All steps are best-effort.
func (s *Store) rotateBackups(path string) {
	bak := path + backupSuffix
	bak2 := path + backup2Suffix

	if _, err := os.Stat(bak); err == nil {
		os.Remove(bak2)
		os.Rename(bak, bak2)
	}
	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, bak); err != nil {
			log.Warn("backup rotation failed", "err", err)
		}
	}
}

func writeSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func validateJSONFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var probe map[string]json.RawMessage
	return json.Unmarshal(data, &probe)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
